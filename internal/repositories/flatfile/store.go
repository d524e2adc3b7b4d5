// Package flatfile stores the directory in two pipe-delimited text files.
package flatfile

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dmitrijs2005/phonebook/internal/codec"
	"github.com/dmitrijs2005/phonebook/internal/filex"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/models"
)

const (
	AccountsFile = "accounts.txt"
	ContactsFile = "contacts.txt"
)

// Store keeps accounts and contacts under a data directory.
type Store struct {
	dir    string
	logger logging.Logger
}

// New returns a Store rooted at dir. The directory is created on first
// write.
func New(dir string, logger logging.Logger) *Store {
	return &Store{dir: dir, logger: logger.With("store", "flatfile")}
}

func (s *Store) accountsPath() string { return filepath.Join(s.dir, AccountsFile) }
func (s *Store) contactsPath() string { return filepath.Join(s.dir, ContactsFile) }

// LoadAccounts returns the accounts decoded so far even when reading fails
// part way through.
func (s *Store) LoadAccounts(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	err := s.load(ctx, s.accountsPath(), func(r io.Reader) ([]codec.LineError, error) {
		var (
			skipped []codec.LineError
			err     error
		)
		accounts, skipped, err = codec.DecodeAccounts(r)
		return skipped, err
	})
	if accounts == nil {
		accounts = []*models.Account{}
	}
	return accounts, err
}

func (s *Store) LoadContacts(ctx context.Context) ([]*models.Contact, error) {
	var contacts []*models.Contact
	err := s.load(ctx, s.contactsPath(), func(r io.Reader) ([]codec.LineError, error) {
		var (
			skipped []codec.LineError
			err     error
		)
		contacts, skipped, err = codec.DecodeContacts(r)
		return skipped, err
	})
	if contacts == nil {
		contacts = []*models.Contact{}
	}
	return contacts, err
}

func (s *Store) SaveAccounts(_ context.Context, accounts []*models.Account) error {
	return filex.WriteAtomic(s.accountsPath(), func(w io.Writer) error {
		return codec.EncodeAccounts(w, accounts)
	})
}

func (s *Store) SaveContacts(_ context.Context, contacts []*models.Contact) error {
	return filex.WriteAtomic(s.contactsPath(), func(w io.Writer) error {
		return codec.EncodeContacts(w, contacts)
	})
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) load(ctx context.Context, path string, decode func(io.Reader) ([]codec.LineError, error)) error {
	f, err := filex.OpenIfExists(path)
	if err != nil {
		return err
	}
	if f == nil {
		return nil
	}
	defer f.Close()

	skipped, err := decode(f)
	for _, le := range skipped {
		s.logger.Warn(ctx, "skipping malformed line", "file", filepath.Base(path), "line", le.Line, "error", le.Err)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
