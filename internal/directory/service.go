// Package directory implements the phonebook core: accounts, sessions,
// password reset, owner-scoped contact operations, import/export and backup.
//
// A Service owns the in-memory collections and rewrites the affected
// collection through its Store after every mutation. Owner-scoped
// operations take the session token from the context (see
// session.WithToken). All methods are safe for concurrent use.
package directory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/cryptox"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/models"
	"github.com/dmitrijs2005/phonebook/internal/repositories"
	"github.com/dmitrijs2005/phonebook/internal/session"
)

const (
	// DefaultResetTokenTTL is how long a password reset token stays valid.
	DefaultResetTokenTTL = 24 * time.Hour
	// ResetTokenLength is the number of characters in a reset token.
	ResetTokenLength = 32
	// DefaultBackupDir is used when no backup directory is configured.
	DefaultBackupDir = "backups"
)

type Service struct {
	store    repositories.Store
	sessions *session.Manager
	logger   logging.Logger

	hasher    cryptox.Hasher
	now       func() time.Time
	resetTTL  time.Duration
	backupDir string

	mu            sync.Mutex
	accounts      []*models.Account
	contacts      []*models.Contact
	nextAccountID int64
	nextContactID int64
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithHasher(h cryptox.Hasher) Option {
	return func(s *Service) { s.hasher = h }
}

func WithResetTokenTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.resetTTL = d
		}
	}
}

// WithBackupDir sets where Backup writes its reports.
func WithBackupDir(dir string) Option {
	return func(s *Service) { s.backupDir = dir }
}

// New builds a Service and loads both collections from store. A collection
// that cannot be read starts empty; the failure is logged.
func New(ctx context.Context, store repositories.Store, sessions *session.Manager, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		sessions:  sessions,
		logger:    logger,
		hasher:    cryptox.DefaultHasher,
		now:       time.Now,
		resetTTL:  DefaultResetTokenTTL,
		backupDir: DefaultBackupDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s
}

func (s *Service) load(ctx context.Context) {
	accounts, err := s.store.LoadAccounts(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to load accounts", "error", err, "kept", len(accounts))
	}
	contacts, err := s.store.LoadContacts(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to load contacts", "error", err, "kept", len(contacts))
	}

	s.accounts = accounts
	s.contacts = contacts
	s.nextAccountID = 1
	for _, a := range accounts {
		if a.ID >= s.nextAccountID {
			s.nextAccountID = a.ID + 1
		}
	}
	s.nextContactID = 1
	for _, c := range contacts {
		if c.ID >= s.nextContactID {
			s.nextContactID = c.ID + 1
		}
	}

	s.logger.Info(ctx, "directory loaded", "accounts", len(accounts), "contacts", len(contacts))
}

func (s *Service) persistAccountsLocked(ctx context.Context) error {
	if err := s.store.SaveAccounts(ctx, s.accounts); err != nil {
		s.logger.Error(ctx, "failed to save accounts", "error", err)
		return fmt.Errorf("%w: accounts: %w", ErrPersist, err)
	}
	return nil
}

func (s *Service) persistContactsLocked(ctx context.Context) error {
	if err := s.store.SaveContacts(ctx, s.contacts); err != nil {
		s.logger.Error(ctx, "failed to save contacts", "error", err)
		return fmt.Errorf("%w: contacts: %w", ErrPersist, err)
	}
	return nil
}

func (s *Service) accountByIDLocked(id int64) *models.Account {
	for _, a := range s.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *Service) accountByEmailLocked(email string) *models.Account {
	return s.findAccountLocked(func(a *models.Account) bool { return a.Email == email })
}

// findAccountLocked returns the first account, in stored order, that match
// accepts.
func (s *Service) findAccountLocked(match func(*models.Account) bool) *models.Account {
	for _, a := range s.accounts {
		if match(a) {
			return a
		}
	}
	return nil
}

func (s *Service) contactIndexLocked(id int64) int {
	for i, c := range s.contacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// currentLocked resolves the context's session to an active account.
func (s *Service) currentLocked(ctx context.Context) (*models.Account, error) {
	token, ok := session.TokenFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	sess, err := s.sessions.Resolve(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	a := s.accountByIDLocked(sess.AccountID)
	if a == nil || !a.Active {
		return nil, ErrUnauthenticated
	}
	return a, nil
}

// ownedLocked finds contact id on behalf of the session account. Blocked
// contacts are reported as missing unless includeBlocked is set.
func (s *Service) ownedLocked(ctx context.Context, id int64, includeBlocked bool) (*models.Contact, int, error) {
	owner, err := s.currentLocked(ctx)
	if err != nil {
		return nil, -1, err
	}
	i := s.contactIndexLocked(id)
	if i < 0 {
		return nil, -1, fmt.Errorf("contact %d: %w", id, ErrNotFound)
	}
	c := s.contacts[i]
	if c.OwnerID != owner.ID {
		return nil, -1, fmt.Errorf("contact %d: %w", id, ErrNotOwned)
	}
	if c.Blocked && !includeBlocked {
		return nil, -1, fmt.Errorf("contact %d is blocked: %w", id, ErrNotFound)
	}
	return c, i, nil
}
