package directory

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/cryptox"
	"github.com/dmitrijs2005/phonebook/internal/models"
	"github.com/dmitrijs2005/phonebook/internal/session"
)

// Register creates an account. Emails are unique by exact match; usernames
// are not checked.
func (s *Service) Register(ctx context.Context, username, email, password string, role models.Role) (models.Account, error) {
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return models.Account{}, fmt.Errorf("role %q: %w", role, ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accountByEmailLocked(email) != nil {
		return models.Account{}, ErrEmailTaken
	}

	a, err := models.NewAccount(s.nextAccountID, username, email, password, role,
		models.WithHasher(s.hasher), models.WithCreatedAt(s.now()))
	if err == nil && cryptox.IsHash(password) {
		// a password shaped like a digest was kept verbatim
		err = a.SetPassword(s.hasher, password)
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	s.nextAccountID++
	s.accounts = append(s.accounts, a)

	s.logger.Info(ctx, "account registered", "id", a.ID, "role", a.Role)
	return *a, s.persistAccountsLocked(ctx)
}

// Login checks the credentials of an active account, stamps its last login
// and issues a session. When several accounts share the email, the first
// active one whose password verifies wins. Every mismatch yields
// ErrInvalidCredentials. A failure to persist the login time is logged and
// does not fail the login.
func (s *Service) Login(ctx context.Context, email, password string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findAccountLocked(func(a *models.Account) bool {
		return a.Email == email && a.Active && a.Verify(password)
	})
	if a == nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	a.LastLogin = &now
	_ = s.persistAccountsLocked(ctx)

	sess, err := s.sessions.Issue(a.ID, a.Role)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "account logged in", "id", a.ID)
	return sess, nil
}

// Logout ends the context's session, if any.
func (s *Service) Logout(ctx context.Context) {
	if token, ok := session.TokenFromContext(ctx); ok {
		s.sessions.Revoke(token)
	}
}

// CurrentAccount returns the session account.
func (s *Service) CurrentAccount(ctx context.Context) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.currentLocked(ctx)
	if err != nil {
		return models.Account{}, err
	}
	return *a, nil
}

// UpdateProfile changes the session account's username and email. The new
// email must be non-empty and not used by another account.
func (s *Service) UpdateProfile(ctx context.Context, u models.ProfileUpdate) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := s.currentLocked(ctx)
	if err != nil {
		return models.Account{}, err
	}
	if u.Email != nil {
		if *u.Email == "" {
			return models.Account{}, fmt.Errorf("empty email: %w", ErrInvalid)
		}
		if other := s.accountByEmailLocked(*u.Email); other != nil && other.ID != a.ID {
			return models.Account{}, ErrEmailTaken
		}
	}

	a.UpdateProfile(u)
	return *a, s.persistAccountsLocked(ctx)
}

// RequestPasswordReset issues a reset token for the first active account with
// the given email, replacing any earlier token.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.findAccountLocked(func(a *models.Account) bool {
		return a.Email == email && a.Active
	})
	if a == nil {
		return "", fmt.Errorf("reset for %q: %w", email, ErrNotFound)
	}

	token, err := common.MakeRandAlphanumeric(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	a.SetResetToken(token, s.now().Add(s.resetTTL))

	s.logger.Info(ctx, "password reset requested", "id", a.ID)
	return token, s.persistAccountsLocked(ctx)
}

// ValidateResetToken reports whether token belongs to an active account and
// has not expired.
func (s *Service) ValidateResetToken(_ context.Context, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.resetHolderLocked(token) != nil
}

// ResetPassword replaces the password of the token's holder and consumes the
// token. Unknown or expired tokens change nothing.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.resetHolderLocked(token)
	if a == nil {
		return ErrInvalidToken
	}
	if err := a.SetPassword(s.hasher, newPassword); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	a.ClearResetToken()

	s.logger.Info(ctx, "password reset", "id", a.ID)
	return s.persistAccountsLocked(ctx)
}

func (s *Service) resetHolderLocked(token string) *models.Account {
	now := s.now()
	for _, a := range s.accounts {
		if a.ResetTokenValid(token, now) {
			return a
		}
	}
	return nil
}
