package directory

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/phonebook/internal/models"
)

// AddContact stores a contact owned by the session account. Phone format is
// not checked here.
func (s *Service) AddContact(ctx context.Context, d models.ContactDetails) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.addContactLocked(ctx, d)
	if err != nil {
		return models.Contact{}, err
	}
	return *c, s.persistContactsLocked(ctx)
}

func (s *Service) addContactLocked(ctx context.Context, d models.ContactDetails) (*models.Contact, error) {
	owner, err := s.currentLocked(ctx)
	if err != nil {
		return nil, err
	}
	c := models.NewContact(s.nextContactID, owner.ID, d, s.now())
	s.nextContactID++
	s.contacts = append(s.contacts, c)
	return c, nil
}

// EditContact applies u to an owned, unblocked contact.
func (s *Service) EditContact(ctx context.Context, id int64, u models.ContactUpdate) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.ownedLocked(ctx, id, false)
	if err != nil {
		return models.Contact{}, err
	}
	c.Update(u, s.now())
	return *c, s.persistContactsLocked(ctx)
}

// DeleteContact removes an owned, unblocked contact. Its id is not reused.
func (s *Service) DeleteContact(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, i, err := s.ownedLocked(ctx, id, false)
	if err != nil {
		return err
	}
	s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
	return s.persistContactsLocked(ctx)
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (s *Service) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.ownedLocked(ctx, id, false)
	if err != nil {
		return false, err
	}
	c.SetFavorite(!c.Favorite, s.now())
	return c.Favorite, s.persistContactsLocked(ctx)
}

// BlockContact hides an owned contact from every owner-scoped operation
// except UnblockContact.
func (s *Service) BlockContact(ctx context.Context, id int64) error {
	return s.setBlocked(ctx, id, true)
}

func (s *Service) UnblockContact(ctx context.Context, id int64) error {
	return s.setBlocked(ctx, id, false)
}

func (s *Service) setBlocked(ctx context.Context, id int64, blocked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.ownedLocked(ctx, id, true)
	if err != nil {
		return err
	}
	c.SetBlocked(blocked, s.now())
	return s.persistContactsLocked(ctx)
}

// Contact returns an owned, unblocked contact.
func (s *Service) Contact(ctx context.Context, id int64) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, _, err := s.ownedLocked(ctx, id, false)
	if err != nil {
		return models.Contact{}, err
	}
	return *c, nil
}

// ContactByID looks a contact up by id alone, ignoring owner and blocked
// flag.
func (s *Service) ContactByID(id int64) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.contactIndexLocked(id)
	if i < 0 {
		return models.Contact{}, fmt.Errorf("contact %d: %w", id, ErrNotFound)
	}
	return *s.contacts[i], nil
}

// Contacts lists the session account's visible contacts in collection order.
func (s *Service) Contacts(ctx context.Context) ([]models.Contact, error) {
	return s.filter(ctx, func(*models.Contact) bool { return true })
}

// Search matches keyword case-insensitively against the text fields of the
// session account's visible contacts.
func (s *Service) Search(ctx context.Context, keyword string) ([]models.Contact, error) {
	return s.filter(ctx, func(c *models.Contact) bool { return c.Matches(keyword) })
}

// ListByGroup lists visible contacts whose group equals group exactly.
func (s *Service) ListByGroup(ctx context.Context, group string) ([]models.Contact, error) {
	return s.filter(ctx, func(c *models.Contact) bool { return c.Group == group })
}

func (s *Service) ListFavorites(ctx context.Context) ([]models.Contact, error) {
	return s.filter(ctx, func(c *models.Contact) bool { return c.Favorite })
}

func (s *Service) filter(ctx context.Context, keep func(*models.Contact) bool) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, err := s.currentLocked(ctx)
	if err != nil {
		return nil, err
	}
	return s.visibleLocked(owner.ID, keep), nil
}

func (s *Service) visibleLocked(ownerID int64, keep func(*models.Contact) bool) []models.Contact {
	out := []models.Contact{}
	for _, c := range s.contacts {
		if c.Visible(ownerID) && keep(c) {
			out = append(out, *c)
		}
	}
	return out
}
