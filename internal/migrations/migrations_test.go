package migrations

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/phonebook/internal/dbx"
	"github.com/pressly/goose/v3"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	if err != nil {
		t.Fatalf("tableExists query failed: %v", err)
	}
	return n > 0
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := dbx.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "phonebook.db"))
	if err != nil {
		t.Fatalf("OpenSQLite error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUp_CreatesTables(t *testing.T) {
	db := openDB(t)

	if err := Up(context.Background(), db); err != nil {
		t.Fatalf("Up error: %v", err)
	}

	for _, name := range []string{"goose_db_version", "accounts", "contacts"} {
		if !tableExists(t, db, name) {
			t.Fatalf("expected table %s to exist after migrations", name)
		}
	}
}

func TestUp_IsIdempotent(t *testing.T) {
	db := openDB(t)
	ctx := context.Background()

	if err := Up(ctx, db); err != nil {
		t.Fatalf("Up (first) error: %v", err)
	}
	if err := Up(ctx, db); err != nil {
		t.Fatalf("Up (second) should be idempotent, got error: %v", err)
	}
}

func TestUp_WrapsGooseError(t *testing.T) {
	db := openDB(t)

	orig := gooseUpContext
	boom := errors.New("boom")
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			t.Fatalf("unexpected dir %q", dir)
		}
		return boom
	}
	defer func() { gooseUpContext = orig }()

	if err := Up(context.Background(), db); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}
