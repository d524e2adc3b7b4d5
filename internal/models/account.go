package models

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/cryptox"
)

// Role is the access level of an account.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Account record field names.
const (
	AccountID               = "id"
	AccountUsername         = "username"
	AccountEmail            = "email"
	AccountPasswordHash     = "password_hash"
	AccountRole             = "role"
	AccountCreatedAt        = "created_at"
	AccountLastLogin        = "last_login"
	AccountIsActive         = "is_active"
	AccountResetToken       = "reset_token"
	AccountResetTokenExpiry = "reset_token_expiry"
)

// Account is an authenticable identity. Username is display-only; Email is
// the login key.
type Account struct {
	ID               int64
	Username         string
	Email            string
	PasswordHash     string
	Role             Role
	CreatedAt        time.Time
	LastLogin        *time.Time
	Active           bool
	ResetToken       string
	ResetTokenExpiry *time.Time
}

// ProfileUpdate is a partial update of the self-service profile fields.
// Nil fields are left unchanged.
type ProfileUpdate struct {
	Username *string
	Email    *string
}

type accountOptions struct {
	hasher    cryptox.Hasher
	createdAt time.Time
	lastLogin *time.Time
	active    bool
}

// AccountOption customizes NewAccount.
type AccountOption func(*accountOptions)

func WithHasher(h cryptox.Hasher) AccountOption {
	return func(o *accountOptions) { o.hasher = h }
}

func WithCreatedAt(t time.Time) AccountOption {
	return func(o *accountOptions) { o.createdAt = t }
}

func WithLastLogin(t time.Time) AccountOption {
	return func(o *accountOptions) { o.lastLogin = &t }
}

func WithActive(active bool) AccountOption {
	return func(o *accountOptions) { o.active = active }
}

// NewAccount builds an account. If secret already has the shape of a stored
// digest it is kept verbatim, otherwise it is hashed, so the same constructor
// serves registration and rehydration.
func NewAccount(id int64, username, email, secret string, role Role, opts ...AccountOption) (*Account, error) {
	o := accountOptions{hasher: cryptox.DefaultHasher, createdAt: time.Now(), active: true}
	for _, opt := range opts {
		opt(&o)
	}

	hash := secret
	if !cryptox.IsHash(secret) {
		var err error
		if hash, err = o.hasher.Hash(secret); err != nil {
			return nil, err
		}
	}

	return &Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    o.createdAt,
		LastLogin:    o.lastLogin,
		Active:       o.active,
	}, nil
}

// Verify reports whether password matches the stored digest.
func (a *Account) Verify(password string) bool {
	return cryptox.Verify(a.PasswordHash, password)
}

// SetPassword replaces the stored digest.
func (a *Account) SetPassword(h cryptox.Hasher, password string) error {
	hash, err := h.Hash(password)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

// UpdateProfile applies the non-nil fields of u.
func (a *Account) UpdateProfile(u ProfileUpdate) {
	if u.Username != nil {
		a.Username = *u.Username
	}
	if u.Email != nil {
		a.Email = *u.Email
	}
}

// IsAdmin reports whether the account has the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// SetResetToken replaces any outstanding token.
func (a *Account) SetResetToken(token string, expiry time.Time) {
	a.ResetToken = token
	a.ResetTokenExpiry = &expiry
}

func (a *Account) ClearResetToken() {
	a.ResetToken = ""
	a.ResetTokenExpiry = nil
}

// ResetTokenValid reports whether token is this active account's outstanding
// token and now has not passed its expiry. A token without a usable expiry is
// never valid.
func (a *Account) ResetTokenValid(token string, now time.Time) bool {
	if !a.Active || token == "" || a.ResetToken != token || a.ResetTokenExpiry == nil {
		return false
	}
	return !now.After(*a.ResetTokenExpiry)
}

// ToRecord returns the canonical Record form.
func (a *Account) ToRecord() Record {
	r := Record{
		AccountID:           strconv.FormatInt(a.ID, 10),
		AccountUsername:     a.Username,
		AccountEmail:        a.Email,
		AccountPasswordHash: a.PasswordHash,
		AccountRole:         string(a.Role),
		AccountIsActive:     FormatBool(a.Active),
	}
	setTime(r, AccountCreatedAt, &a.CreatedAt)
	setTime(r, AccountLastLogin, a.LastLogin)
	if a.ResetToken != "" {
		r[AccountResetToken] = a.ResetToken
		setTime(r, AccountResetTokenExpiry, a.ResetTokenExpiry)
	}
	return r
}

// AccountFromRecord rebuilds an account. The id and password hash are
// required. An unparseable reset token expiry leaves the token in place but
// unusable.
func AccountFromRecord(r Record) (*Account, error) {
	id, err := r.int64(AccountID)
	if err != nil {
		return nil, err
	}
	hash, ok := r[AccountPasswordHash]
	if !ok || hash == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequiredField, AccountPasswordHash)
	}
	createdAt, err := r.time(AccountCreatedAt)
	if err != nil {
		return nil, err
	}
	lastLogin, err := r.optionalTime(AccountLastLogin)
	if err != nil {
		return nil, err
	}

	a := &Account{
		ID:           id,
		Username:     r.stringOr(AccountUsername, ""),
		Email:        r.stringOr(AccountEmail, ""),
		PasswordHash: hash,
		Role:         Role(r.stringOr(AccountRole, string(RoleUser))),
		CreatedAt:    createdAt,
		LastLogin:    lastLogin,
		Active:       r.boolOr(AccountIsActive, true),
		ResetToken:   r.stringOr(AccountResetToken, ""),
	}
	if a.ResetToken != "" {
		if expiry, err := r.optionalTime(AccountResetTokenExpiry); err == nil {
			a.ResetTokenExpiry = expiry
		}
	}
	return a, nil
}
