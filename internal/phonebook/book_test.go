package phonebook

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/cryptox"
	"github.com/dmitrijs2005/phonebook/internal/directory"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/models"
	"github.com/dmitrijs2005/phonebook/internal/repositories/flatfile"
	"github.com/dmitrijs2005/phonebook/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newBook(t *testing.T) (*Book, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	sessions, err := session.NewManager([]byte("k"), time.Hour)
	require.NoError(t, err)
	svc := directory.New(context.Background(), flatfile.New(dir, log), sessions, log,
		directory.WithHasher(cryptox.Hasher{Cost: bcrypt.MinCost}),
		directory.WithBackupDir(filepath.Join(dir, "backups")),
	)
	return New(svc, log), dir, &buf
}

func TestScenario_ContactLifecycle(t *testing.T) {
	b, _, _ := newBook(t)
	ctx := context.Background()

	require.True(t, b.Register(ctx, "alice", "a@x.com", "secret1", models.RoleUser))
	require.True(t, b.Login(ctx, "a@x.com", "secret1"))

	require.True(t, b.AddContact(ctx, models.ContactDetails{FirstName: "Bob", LastName: "Lee", Phone: "555-0100"}))
	all := b.Contacts(ctx)
	require.Len(t, all, 1)
	id := all[0].ID

	assert.Len(t, b.Search(ctx, "bob"), 1)

	fav := b.ToggleFavorite(ctx, id)
	require.NotNil(t, fav)
	assert.True(t, *fav)
	fav = b.ToggleFavorite(ctx, id)
	require.NotNil(t, fav)
	assert.False(t, *fav)

	require.True(t, b.DeleteContact(ctx, id))
	assert.Empty(t, b.Contacts(ctx))
}

func TestScenario_PasswordReset(t *testing.T) {
	b, _, _ := newBook(t)
	ctx := context.Background()

	require.True(t, b.Register(ctx, "alice", "a@x.com", "secret1", models.RoleUser))

	token, ok := b.RequestPasswordReset(ctx, "a@x.com")
	require.True(t, ok)
	assert.Len(t, token, 32)
	assert.True(t, b.ValidateResetToken(ctx, token))

	require.True(t, b.ResetPassword(ctx, token, "newpass1"))
	assert.False(t, b.Login(ctx, "a@x.com", "secret1"))
	assert.True(t, b.Login(ctx, "a@x.com", "newpass1"))

	_, ok = b.RequestPasswordReset(ctx, "nobody@x.com")
	assert.False(t, ok)
}

func TestBook_FailuresCollapseAndAreLogged(t *testing.T) {
	b, _, logs := newBook(t)
	ctx := context.Background()

	require.True(t, b.Register(ctx, "alice", "a@x.com", "secret1", models.RoleUser))
	assert.False(t, b.Register(ctx, "again", "a@x.com", "x", models.RoleUser))
	assert.Contains(t, logs.String(), "outcome=invalid")

	assert.False(t, b.AddContact(ctx, models.ContactDetails{Phone: "1"}))
	assert.Contains(t, logs.String(), "outcome=unauthenticated")
	assert.Nil(t, b.ToggleFavorite(ctx, 1))
	assert.NotNil(t, b.Search(ctx, "x"))
	assert.Empty(t, b.Search(ctx, "x"))
	assert.Nil(t, b.CurrentAccount(ctx))

	require.True(t, b.Login(ctx, "a@x.com", "secret1"))
	require.True(t, b.AddContact(ctx, models.ContactDetails{FirstName: "Bob", Phone: "1"}))
	require.True(t, b.Register(ctx, "bob", "b@x.com", "pw", models.RoleUser))
	require.True(t, b.Login(ctx, "b@x.com", "pw"))

	assert.False(t, b.EditContact(ctx, 1, models.ContactUpdate{}))
	assert.False(t, b.DeleteContact(ctx, 1))
	assert.Nil(t, b.ToggleFavorite(ctx, 1))
	assert.Nil(t, b.Contact(ctx, 1))
	assert.Contains(t, logs.String(), "outcome=not_owned")

	raw := b.ContactByID(ctx, 1)
	require.NotNil(t, raw)
	assert.Equal(t, "Bob", raw.FirstName)
	assert.Nil(t, b.ContactByID(ctx, 99))
}

func TestBook_LoginReplacesAndLogoutClearsSession(t *testing.T) {
	b, _, _ := newBook(t)
	ctx := context.Background()

	require.True(t, b.Register(ctx, "alice", "a@x.com", "secret1", models.RoleUser))
	require.True(t, b.Register(ctx, "bob", "b@x.com", "pw", models.RoleUser))

	require.True(t, b.Login(ctx, "a@x.com", "secret1"))
	require.Equal(t, "alice", b.CurrentAccount(ctx).Username)

	assert.False(t, b.Login(ctx, "b@x.com", "wrong"))
	require.Equal(t, "alice", b.CurrentAccount(ctx).Username, "failed login keeps the session")

	require.True(t, b.Login(ctx, "b@x.com", "pw"))
	require.Equal(t, "bob", b.CurrentAccount(ctx).Username)

	b.Logout(ctx)
	assert.Nil(t, b.CurrentAccount(ctx))
	assert.False(t, b.AddContact(ctx, models.ContactDetails{Phone: "1"}))
	b.Logout(ctx)
}

func TestBook_ExportImportAndBackup(t *testing.T) {
	b, dir, _ := newBook(t)
	ctx := context.Background()

	require.True(t, b.Register(ctx, "alice", "a@x.com", "secret1", models.RoleUser))
	require.True(t, b.Login(ctx, "a@x.com", "secret1"))

	path := filepath.Join(dir, "export.txt")
	assert.False(t, b.Export(ctx, path), "nothing to export")

	require.True(t, b.AddContact(ctx, models.ContactDetails{FirstName: "Bob", Phone: "555", Group: "Work"}))
	require.True(t, b.Export(ctx, path))

	res := b.Import(ctx, path)
	assert.Equal(t, directory.ImportResult{Success: 1, Total: 1}, res)
	assert.Len(t, b.ListByGroup(ctx, "Work"), 2)
	assert.Empty(t, b.ListFavorites(ctx))

	backup := b.Backup(ctx)
	_, err := os.Stat(backup)
	require.NoError(t, err)

	b.Logout(ctx)
	assert.Equal(t, directory.ImportResult{}, b.Import(ctx, path))
}

func TestBook_BackupFailureDescription(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	sessions, err := session.NewManager(nil, 0)
	require.NoError(t, err)
	svc := directory.New(context.Background(), flatfile.New(dir, logging.Nop()), sessions, logging.Nop(),
		directory.WithBackupDir(filepath.Join(blocker, "backups")))
	b := New(svc, logging.Nop())

	assert.Contains(t, b.Backup(context.Background()), "Backup failed:")
}

func TestBook_Admin(t *testing.T) {
	b, _, _ := newBook(t)
	ctx := context.Background()

	assert.False(t, b.HasAdmin())
	require.True(t, b.Register(ctx, "admin", "admin@system.com", "admin123", models.RoleAdmin))
	require.True(t, b.Register(ctx, "alice", "a@x.com", "secret1", models.RoleUser))
	assert.True(t, b.HasAdmin())

	require.True(t, b.Login(ctx, "a@x.com", "secret1"))
	assert.Empty(t, b.ListAllAccounts(ctx))
	assert.False(t, b.Deactivate(ctx, 1))
	require.True(t, b.UpdateProfile(ctx, models.ProfileUpdate{Username: ptr("ally")}))
	assert.False(t, b.UpdateProfile(ctx, models.ProfileUpdate{Email: ptr("admin@system.com")}))

	require.True(t, b.Login(ctx, "admin@system.com", "admin123"))
	accounts := b.ListAllAccounts(ctx)
	require.Len(t, accounts, 2)
	assert.Equal(t, "ally", accounts[1].Username)

	assert.True(t, b.Deactivate(ctx, 2))
	assert.False(t, b.Login(ctx, "a@x.com", "secret1"))
	assert.True(t, b.Activate(ctx, 2))
	assert.False(t, b.Activate(ctx, 42))

	assert.False(t, b.BlockContact(ctx, 0))
	assert.False(t, b.UnblockContact(ctx, 0))
}

func ptr[T any](v T) *T { return &v }
