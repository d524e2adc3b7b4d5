package repositories

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/phonebook/internal/models"
)

// ErrStoreClosed is returned by a Guarded store after Close.
var ErrStoreClosed = errors.New("store closed")

// Guarded serialises Close against in-flight calls: Close waits for them to
// finish, and calls made after Close fail with ErrStoreClosed instead of
// reaching the released store.
type Guarded struct {
	mu     sync.RWMutex
	closed bool
	store  Store
}

func Guard(s Store) *Guarded {
	return &Guarded{store: s}
}

func (g *Guarded) LoadAccounts(ctx context.Context) ([]*models.Account, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return nil, ErrStoreClosed
	}
	return g.store.LoadAccounts(ctx)
}

func (g *Guarded) LoadContacts(ctx context.Context) ([]*models.Contact, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return nil, ErrStoreClosed
	}
	return g.store.LoadContacts(ctx)
}

func (g *Guarded) SaveAccounts(ctx context.Context, accounts []*models.Account) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return ErrStoreClosed
	}
	return g.store.SaveAccounts(ctx, accounts)
}

func (g *Guarded) SaveContacts(ctx context.Context, contacts []*models.Contact) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed {
		return ErrStoreClosed
	}
	return g.store.SaveContacts(ctx, contacts)
}

// Close closes the wrapped store once; later calls return nil.
func (g *Guarded) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	return g.store.Close()
}
