package models

import (
	"strconv"
	"strings"
	"time"
)

// DefaultGroup is assigned to contacts created without a group.
const DefaultGroup = "General"

// Contact record field names.
const (
	ContactID         = "id"
	ContactOwnerID    = "owner_id"
	ContactFirstName  = "first_name"
	ContactLastName   = "last_name"
	ContactPhone      = "phone"
	ContactEmail      = "email"
	ContactAddress    = "address"
	ContactGroup      = "group"
	ContactNotes      = "notes"
	ContactIsFavorite = "is_favorite"
	ContactIsBlocked  = "is_blocked"
	ContactCreatedAt  = "created_at"
	ContactUpdatedAt  = "updated_at"
)

// Contact is an address-book entry owned by exactly one account.
type Contact struct {
	ID        int64
	OwnerID   int64
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
	Group     string
	Notes     string
	Favorite  bool
	Blocked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactDetails are the user-editable fields of a new contact.
type ContactDetails struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
	Group     string
	Notes     string
}

// ContactUpdate is a partial update; nil fields are left unchanged.
type ContactUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Email     *string
	Address   *string
	Group     *string
	Notes     *string
}

// NewContact builds a contact stamped with now. An empty group becomes
// DefaultGroup.
func NewContact(id, ownerID int64, d ContactDetails, now time.Time) *Contact {
	group := d.Group
	if group == "" {
		group = DefaultGroup
	}
	return &Contact{
		ID:        id,
		OwnerID:   ownerID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Phone:     d.Phone,
		Email:     d.Email,
		Address:   d.Address,
		Group:     group,
		Notes:     d.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Update applies the non-nil fields of u and stamps UpdatedAt even when u is
// empty.
func (c *Contact) Update(u ContactUpdate, now time.Time) {
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&c.FirstName, u.FirstName)
	apply(&c.LastName, u.LastName)
	apply(&c.Phone, u.Phone)
	apply(&c.Email, u.Email)
	apply(&c.Address, u.Address)
	apply(&c.Group, u.Group)
	apply(&c.Notes, u.Notes)
	c.UpdatedAt = now
}

func (c *Contact) SetFavorite(favorite bool, now time.Time) {
	c.Favorite = favorite
	c.UpdatedAt = now
}

func (c *Contact) SetBlocked(blocked bool, now time.Time) {
	c.Blocked = blocked
	c.UpdatedAt = now
}

// FullName joins first and last name.
func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Matches reports whether keyword is a case-insensitive substring of any
// searchable field.
func (c *Contact) Matches(keyword string) bool {
	k := strings.ToLower(keyword)
	for _, f := range []string{c.FirstName, c.LastName, c.Phone, c.Email, c.Address, c.Group, c.Notes} {
		if strings.Contains(strings.ToLower(f), k) {
			return true
		}
	}
	return false
}

// Visible reports whether the contact is shown to ownerID: owned and not
// blocked.
func (c *Contact) Visible(ownerID int64) bool {
	return c.OwnerID == ownerID && !c.Blocked
}

// ToRecord returns the canonical Record form.
func (c *Contact) ToRecord() Record {
	r := Record{
		ContactID:         strconv.FormatInt(c.ID, 10),
		ContactOwnerID:    strconv.FormatInt(c.OwnerID, 10),
		ContactFirstName:  c.FirstName,
		ContactLastName:   c.LastName,
		ContactPhone:      c.Phone,
		ContactEmail:      c.Email,
		ContactAddress:    c.Address,
		ContactGroup:      c.Group,
		ContactNotes:      c.Notes,
		ContactIsFavorite: FormatBool(c.Favorite),
		ContactIsBlocked:  FormatBool(c.Blocked),
	}
	setTime(r, ContactCreatedAt, &c.CreatedAt)
	setTime(r, ContactUpdatedAt, &c.UpdatedAt)
	return r
}

// ContactFromRecord rebuilds a contact. The id, owner id and phone are
// required; an absent updated_at falls back to created_at.
func ContactFromRecord(r Record) (*Contact, error) {
	id, err := r.int64(ContactID)
	if err != nil {
		return nil, err
	}
	ownerID, err := r.int64(ContactOwnerID)
	if err != nil {
		return nil, err
	}
	phone, err := r.required(ContactPhone)
	if err != nil {
		return nil, err
	}
	createdAt, err := r.time(ContactCreatedAt)
	if err != nil {
		return nil, err
	}
	updatedAt := createdAt
	if _, ok := r[ContactUpdatedAt]; ok {
		if updatedAt, err = r.time(ContactUpdatedAt); err != nil {
			return nil, err
		}
	}

	return &Contact{
		ID:        id,
		OwnerID:   ownerID,
		FirstName: r.stringOr(ContactFirstName, ""),
		LastName:  r.stringOr(ContactLastName, ""),
		Phone:     phone,
		Email:     r.stringOr(ContactEmail, ""),
		Address:   r.stringOr(ContactAddress, ""),
		Group:     r.stringOr(ContactGroup, DefaultGroup),
		Notes:     r.stringOr(ContactNotes, ""),
		Favorite:  r.boolOr(ContactIsFavorite, false),
		Blocked:   r.boolOr(ContactIsBlocked, false),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
