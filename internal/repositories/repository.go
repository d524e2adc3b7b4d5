// Package repositories defines the persistence contract of the directory.
// A Store loads and rewrites whole collections; implementations live in the
// flatfile and sqlite subpackages.
package repositories

import (
	"context"

	"github.com/dmitrijs2005/phonebook/internal/models"
)

// Store persists accounts and contacts as whole collections.
type Store interface {
	// LoadAccounts returns every stored account in stored order. A store
	// that has never been written returns an empty slice. On a read error
	// the accounts decoded before it are returned with the error.
	LoadAccounts(ctx context.Context) ([]*models.Account, error)

	// LoadContacts returns every stored contact in stored order.
	LoadContacts(ctx context.Context) ([]*models.Contact, error)

	// SaveAccounts replaces the stored accounts with accounts.
	SaveAccounts(ctx context.Context, accounts []*models.Account) error

	// SaveContacts replaces the stored contacts with contacts.
	SaveContacts(ctx context.Context, contacts []*models.Contact) error

	// Close releases the underlying resources.
	Close() error
}
