package directory

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/phonebook/internal/models"
)

func (s *Service) adminLocked(ctx context.Context) error {
	a, err := s.currentLocked(ctx)
	if err != nil {
		return err
	}
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// ListAccounts returns every account. Admin only.
func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.adminLocked(ctx); err != nil {
		return nil, err
	}
	out := make([]models.Account, len(s.accounts))
	for i, a := range s.accounts {
		out[i] = *a
	}
	return out, nil
}

// ActivateAccount re-enables an account. Admin only.
func (s *Service) ActivateAccount(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, true)
}

// DeactivateAccount disables an account and ends its sessions. Admin only.
func (s *Service) DeactivateAccount(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, false)
}

func (s *Service) setActive(ctx context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.adminLocked(ctx); err != nil {
		return err
	}
	a := s.accountByIDLocked(id)
	if a == nil {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	a.Active = active
	if !active {
		n := s.sessions.RevokeAccount(id)
		s.logger.Info(ctx, "account deactivated", "id", id, "sessions_revoked", n)
	} else {
		s.logger.Info(ctx, "account activated", "id", id)
	}
	return s.persistAccountsLocked(ctx)
}

// HasAdmin reports whether any admin account exists.
func (s *Service) HasAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.IsAdmin() {
			return true
		}
	}
	return false
}
