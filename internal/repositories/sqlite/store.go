// Package sqlite stores the directory in a SQLite database. Every column
// holds the field's record form, so rows convert through the same
// models.Record rules as the flat files.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/phonebook/internal/dbx"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/migrations"
	"github.com/dmitrijs2005/phonebook/internal/models"
)

// DBFile is the database file name inside the data directory.
const DBFile = "phonebook.db"

type table struct {
	name    string
	fields  []string
	columns []string
}

func newTable(name string, fields []string, rename map[string]string) table {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f
		if c, ok := rename[f]; ok {
			cols[i] = c
		}
	}
	return table{name: name, fields: fields, columns: cols}
}

func (t table) selectQuery() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(t.columns, ", "), t.name)
}

func (t table) insertQuery() string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.columns, ", "), marks)
}

func (t table) deleteQuery() string {
	return "DELETE FROM " + t.name
}

var (
	accountsTable = newTable("accounts", []string{
		models.AccountID, models.AccountUsername, models.AccountEmail, models.AccountPasswordHash,
		models.AccountRole, models.AccountCreatedAt, models.AccountLastLogin, models.AccountIsActive,
		models.AccountResetToken, models.AccountResetTokenExpiry,
	}, nil)

	contactsTable = newTable("contacts", []string{
		models.ContactID, models.ContactOwnerID, models.ContactFirstName, models.ContactLastName,
		models.ContactPhone, models.ContactEmail, models.ContactAddress, models.ContactGroup,
		models.ContactNotes, models.ContactIsFavorite, models.ContactIsBlocked,
		models.ContactCreatedAt, models.ContactUpdatedAt,
	}, map[string]string{models.ContactGroup: "group_name"})
)

// Store is a repositories.Store backed by SQLite.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) the database at path and applies migrations.
func Open(ctx context.Context, path string, logger logging.Logger) (*Store, error) {
	db, err := dbx.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db, logger), nil
}

// NewStore wraps an already migrated database.
func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger.With("store", "sqlite")}
}

func (s *Store) LoadAccounts(ctx context.Context) ([]*models.Account, error) {
	accounts := []*models.Account{}
	err := s.load(ctx, accountsTable, func(r models.Record) error {
		a, err := models.AccountFromRecord(r)
		if err == nil {
			accounts = append(accounts, a)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) LoadContacts(ctx context.Context) ([]*models.Contact, error) {
	contacts := []*models.Contact{}
	err := s.load(ctx, contactsTable, func(r models.Record) error {
		c, err := models.ContactFromRecord(r)
		if err == nil {
			contacts = append(contacts, c)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return contacts, nil
}

func (s *Store) SaveAccounts(ctx context.Context, accounts []*models.Account) error {
	records := make([]models.Record, len(accounts))
	for i, a := range accounts {
		records[i] = a.ToRecord()
	}
	return s.save(ctx, accountsTable, records)
}

func (s *Store) SaveContacts(ctx context.Context, contacts []*models.Contact) error {
	records := make([]models.Record, len(contacts))
	for i, c := range contacts {
		records[i] = c.ToRecord()
	}
	return s.save(ctx, contactsTable, records)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// load scans every row of t into a Record. Rows that convert fails on are
// logged and skipped.
func (s *Store) load(ctx context.Context, t table, convert func(models.Record) error) error {
	rows, err := s.db.QueryContext(ctx, t.selectQuery())
	if err != nil {
		return fmt.Errorf("failed to select %s: %w", t.name, err)
	}
	defer rows.Close()

	values := make([]sql.NullString, len(t.columns))
	dest := make([]any, len(values))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("failed to scan %s: %w", t.name, err)
		}
		rec := make(models.Record, len(t.fields))
		for i, f := range t.fields {
			if values[i].Valid {
				rec[f] = values[i].String
			}
		}
		if err := convert(rec); err != nil {
			s.logger.Warn(ctx, "skipping malformed row", "table", t.name, "id", rec[models.AccountID], "error", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", t.name, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, t table, records []models.Record) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, t.deleteQuery()); err != nil {
			return fmt.Errorf("failed to clear %s: %w", t.name, err)
		}
		query := t.insertQuery()
		args := make([]any, len(t.fields))
		for _, rec := range records {
			for i, f := range t.fields {
				if v, ok := rec[f]; ok {
					args[i] = v
				} else {
					args[i] = nil
				}
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert into %s: %w", t.name, err)
			}
		}
		return nil
	})
}
