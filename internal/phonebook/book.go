// Package phonebook is the boundary the interactive front-end talks to. A
// Book holds the front-end's one session and reports results the simple way
// a menu needs them: true/false, a value or nothing. The reason behind every
// failure is logged with its directory.Outcome.
package phonebook

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/phonebook/internal/directory"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/models"
	"github.com/dmitrijs2005/phonebook/internal/session"
)

type Book struct {
	svc    *directory.Service
	logger logging.Logger

	mu    sync.Mutex
	token string
}

func New(svc *directory.Service, logger logging.Logger) *Book {
	return &Book{svc: svc, logger: logger.With("component", "phonebook")}
}

func (b *Book) sessionCtx(ctx context.Context) context.Context {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.token == "" {
		return ctx
	}
	return session.WithToken(ctx, b.token)
}

func (b *Book) ok(ctx context.Context, op string, err error) bool {
	if err == nil {
		return true
	}
	b.logger.Warn(ctx, op+" failed", "outcome", directory.OutcomeOf(err).String(), "error", err)
	return false
}

func (b *Book) Register(ctx context.Context, username, email, password string, role models.Role) bool {
	_, err := b.svc.Register(ctx, username, email, password, role)
	return b.ok(ctx, "register", err)
}

// Login replaces the current session on success.
func (b *Book) Login(ctx context.Context, email, password string) bool {
	sess, err := b.svc.Login(ctx, email, password)
	if !b.ok(ctx, "login", err) {
		return false
	}
	b.Logout(ctx)

	b.mu.Lock()
	b.token = sess.Token
	b.mu.Unlock()
	return true
}

func (b *Book) Logout(ctx context.Context) {
	b.svc.Logout(b.sessionCtx(ctx))

	b.mu.Lock()
	b.token = ""
	b.mu.Unlock()
}

// CurrentAccount returns the logged-in account, or nil.
func (b *Book) CurrentAccount(ctx context.Context) *models.Account {
	a, err := b.svc.CurrentAccount(b.sessionCtx(ctx))
	if err != nil {
		return nil
	}
	return &a
}

func (b *Book) UpdateProfile(ctx context.Context, u models.ProfileUpdate) bool {
	_, err := b.svc.UpdateProfile(b.sessionCtx(ctx), u)
	return b.ok(ctx, "update profile", err)
}

func (b *Book) RequestPasswordReset(ctx context.Context, email string) (string, bool) {
	token, err := b.svc.RequestPasswordReset(ctx, email)
	if !b.ok(ctx, "request password reset", err) {
		return "", false
	}
	return token, true
}

func (b *Book) ValidateResetToken(ctx context.Context, token string) bool {
	return b.svc.ValidateResetToken(ctx, token)
}

func (b *Book) ResetPassword(ctx context.Context, token, newPassword string) bool {
	return b.ok(ctx, "reset password", b.svc.ResetPassword(ctx, token, newPassword))
}

func (b *Book) AddContact(ctx context.Context, d models.ContactDetails) bool {
	_, err := b.svc.AddContact(b.sessionCtx(ctx), d)
	return b.ok(ctx, "add contact", err)
}

func (b *Book) EditContact(ctx context.Context, id int64, u models.ContactUpdate) bool {
	_, err := b.svc.EditContact(b.sessionCtx(ctx), id, u)
	return b.ok(ctx, "edit contact", err)
}

func (b *Book) DeleteContact(ctx context.Context, id int64) bool {
	return b.ok(ctx, "delete contact", b.svc.DeleteContact(b.sessionCtx(ctx), id))
}

// ToggleFavorite returns the new favorite state, or nil on failure.
func (b *Book) ToggleFavorite(ctx context.Context, id int64) *bool {
	fav, err := b.svc.ToggleFavorite(b.sessionCtx(ctx), id)
	if !b.ok(ctx, "toggle favorite", err) {
		return nil
	}
	return &fav
}

func (b *Book) BlockContact(ctx context.Context, id int64) bool {
	return b.ok(ctx, "block contact", b.svc.BlockContact(b.sessionCtx(ctx), id))
}

func (b *Book) UnblockContact(ctx context.Context, id int64) bool {
	return b.ok(ctx, "unblock contact", b.svc.UnblockContact(b.sessionCtx(ctx), id))
}

// Contact returns an owned, visible contact, or nil.
func (b *Book) Contact(ctx context.Context, id int64) *models.Contact {
	c, err := b.svc.Contact(b.sessionCtx(ctx), id)
	if !b.ok(ctx, "get contact", err) {
		return nil
	}
	return &c
}

// ContactByID looks up any contact, regardless of owner.
func (b *Book) ContactByID(ctx context.Context, id int64) *models.Contact {
	c, err := b.svc.ContactByID(id)
	if !b.ok(ctx, "get contact by id", err) {
		return nil
	}
	return &c
}

func (b *Book) Contacts(ctx context.Context) []models.Contact {
	return b.list(ctx, "list contacts", b.svc.Contacts)
}

func (b *Book) Search(ctx context.Context, keyword string) []models.Contact {
	return b.list(ctx, "search", func(ctx context.Context) ([]models.Contact, error) {
		return b.svc.Search(ctx, keyword)
	})
}

func (b *Book) ListByGroup(ctx context.Context, group string) []models.Contact {
	return b.list(ctx, "list group", func(ctx context.Context) ([]models.Contact, error) {
		return b.svc.ListByGroup(ctx, group)
	})
}

func (b *Book) ListFavorites(ctx context.Context) []models.Contact {
	return b.list(ctx, "list favorites", b.svc.ListFavorites)
}

func (b *Book) list(ctx context.Context, op string, fn func(context.Context) ([]models.Contact, error)) []models.Contact {
	out, err := fn(b.sessionCtx(ctx))
	if !b.ok(ctx, op, err) {
		return []models.Contact{}
	}
	return out
}

func (b *Book) Export(ctx context.Context, path string) bool {
	_, err := b.svc.Export(b.sessionCtx(ctx), path)
	return b.ok(ctx, "export", err)
}

// Import returns the line counts; a failure before any line was read
// yields zero counts.
func (b *Book) Import(ctx context.Context, path string) directory.ImportResult {
	res, err := b.svc.Import(b.sessionCtx(ctx), path)
	b.ok(ctx, "import", err)
	return res
}

// Backup returns the path of the written report, or a description of the
// failure.
func (b *Book) Backup(ctx context.Context) string {
	path, err := b.svc.Backup(ctx)
	if !b.ok(ctx, "backup", err) {
		return fmt.Sprintf("Backup failed: %v", err)
	}
	return path
}

func (b *Book) ListAllAccounts(ctx context.Context) []models.Account {
	out, err := b.svc.ListAccounts(b.sessionCtx(ctx))
	if !b.ok(ctx, "list accounts", err) {
		return []models.Account{}
	}
	return out
}

func (b *Book) Activate(ctx context.Context, id int64) bool {
	return b.ok(ctx, "activate account", b.svc.ActivateAccount(b.sessionCtx(ctx), id))
}

func (b *Book) Deactivate(ctx context.Context, id int64) bool {
	return b.ok(ctx, "deactivate account", b.svc.DeactivateAccount(b.sessionCtx(ctx), id))
}

// HasAdmin reports whether an admin account exists.
func (b *Book) HasAdmin() bool {
	return b.svc.HasAdmin()
}
