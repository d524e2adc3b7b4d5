package flatfile

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/cryptox"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newStore(t *testing.T) (*Store, string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	dir := filepath.Join(t.TempDir(), "data")
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	return New(dir, log), dir, &buf
}

func TestStore_MissingFilesLoadEmpty(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()

	accounts, err := s.LoadAccounts(ctx)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	assert.NotNil(t, accounts)

	contacts, err := s.LoadContacts(ctx)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestStore_SaveAndLoad(t *testing.T) {
	s, dir, _ := newStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 6, 7, 8, 9, 123000000, time.UTC)

	acc, err := models.NewAccount(1, "alice", "a@x.com", "pw123456", models.RoleUser,
		models.WithHasher(cryptox.Hasher{Cost: bcrypt.MinCost}), models.WithCreatedAt(now))
	require.NoError(t, err)
	acc.SetResetToken("tok", now.Add(time.Hour))

	c := models.NewContact(1, 1, models.ContactDetails{FirstName: "Bob", Phone: "555", Notes: "a\nb"}, now)
	c.SetFavorite(true, now)

	require.NoError(t, s.SaveAccounts(ctx, []*models.Account{acc}))
	require.NoError(t, s.SaveContacts(ctx, []*models.Contact{c}))

	_, err = os.Stat(filepath.Join(dir, AccountsFile))
	require.NoError(t, err)

	gotAccounts, err := s.LoadAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, gotAccounts, 1)
	if diff := cmp.Diff(acc, gotAccounts[0]); diff != "" {
		t.Fatalf("account mismatch (-want +got):\n%s", diff)
	}

	gotContacts, err := s.LoadContacts(ctx)
	require.NoError(t, err)
	require.Len(t, gotContacts, 1)
	assert.Equal(t, "a b", gotContacts[0].Notes)
	assert.True(t, gotContacts[0].Favorite)
	assert.True(t, gotContacts[0].CreatedAt.Equal(now))
}

func TestStore_LongAndDelimitedValues(t *testing.T) {
	s, _, _ := newStore(t)
	ctx := context.Background()
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	big := strings.Repeat("n", 1100*1024)
	contacts := []*models.Contact{
		models.NewContact(1, 1, models.ContactDetails{FirstName: "Keep", Phone: "1"}, now),
		models.NewContact(2, 1, models.ContactDetails{FirstName: "Big", Phone: "2", Notes: big}, now),
		models.NewContact(3, 1, models.ContactDetails{FirstName: "Pipe", Phone: "3", Notes: "call|later"}, now),
	}
	require.NoError(t, s.SaveContacts(ctx, contacts))

	got, err := s.LoadContacts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Keep", got[0].FirstName)
	assert.Equal(t, big, got[1].Notes)
	assert.Equal(t, "call/later", got[2].Notes)
	assert.Equal(t, "General", got[2].Group)
}

func TestStore_SkipsAndLogsMalformedLines(t *testing.T) {
	s, dir, buf := newStore(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(dir, 0o700))
	data := strings.Join([]string{
		"# Phonebook Contacts Data",
		"1|1|Bob|Lee|555",
		"broken|line",
		"x|1|Ann|Ray|556",
		"3|1|Cid|Moe|557|None|None|Work|None|true|false|2024-01-01T10:00:00|None",
	}, "\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ContactsFile), []byte(data), 0o600))

	contacts, err := s.LoadContacts(ctx)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, int64(1), contacts[0].ID)
	assert.Equal(t, models.DefaultGroup, contacts[0].Group)
	assert.Equal(t, int64(3), contacts[1].ID)
	assert.Equal(t, "Work", contacts[1].Group)
	assert.True(t, contacts[1].Favorite)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "skipping malformed line"))
	assert.Contains(t, out, "line=3")
	assert.Contains(t, out, "line=4")
}

func TestStore_SaveFailsWhenDirIsAFile(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "data")
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o600))

	s := New(dir, logging.Nop())
	err := s.SaveAccounts(context.Background(), nil)
	require.Error(t, err)
}
