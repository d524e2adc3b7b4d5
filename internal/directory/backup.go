package directory

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/phonebook/internal/filex"
	"github.com/dmitrijs2005/phonebook/internal/models"
)

const (
	backupTimeLayout = "20060102_150405"
	backupNotesLimit = 50
)

// Backup writes a human-readable report of every account and contact to
// the backup directory and returns its path. Password hashes are left out.
func (s *Service) Backup(ctx context.Context) (string, error) {
	s.mu.Lock()
	stamp := s.now().Format(backupTimeLayout)
	report := renderBackup(stamp, s.accounts, s.contacts)
	s.mu.Unlock()

	dir, err := filex.EnsureDir(s.backupDir)
	if err != nil {
		s.logger.Error(ctx, "backup failed", "error", err)
		return "", fmt.Errorf("%w: %w", ErrPersist, err)
	}
	path := filepath.Join(dir, "backup_"+stamp+".txt")

	err = filex.WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, report)
		return err
	})
	if err != nil {
		s.logger.Error(ctx, "backup failed", "path", path, "error", err)
		return "", fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.logger.Info(ctx, "backup written", "path", path)
	return path, nil
}

func renderBackup(stamp string, accounts []*models.Account, contacts []*models.Contact) string {
	var b strings.Builder

	fmt.Fprintf(&b, "--- Phonebook Backup: %s ---\n", stamp)

	b.WriteString("\n### ACCOUNTS ###\n")
	for _, a := range accounts {
		fmt.Fprintf(&b, "Account ID: %d\n", a.ID)
		fmt.Fprintf(&b, "  Username: %s\n", a.Username)
		fmt.Fprintf(&b, "  Email: %s\n", a.Email)
		fmt.Fprintf(&b, "  Role: %s\n", a.Role)
		fmt.Fprintf(&b, "  Active: %s\n", models.FormatBool(a.Active))
		b.WriteString("  (password hash omitted)\n")
		b.WriteString(strings.Repeat("-", 20) + "\n")
	}

	b.WriteString("\n### CONTACTS ###\n")
	for _, c := range contacts {
		fmt.Fprintf(&b, "Contact ID: %d | Owner ID: %d\n", c.ID, c.OwnerID)
		fmt.Fprintf(&b, "  Name: %s\n", c.FullName())
		fmt.Fprintf(&b, "  Phone: %s\n", c.Phone)
		fmt.Fprintf(&b, "  Email: %s\n", c.Email)
		fmt.Fprintf(&b, "  Group: %s\n", c.Group)
		fmt.Fprintf(&b, "  Notes: %s\n", truncate(flattenNotes(c.Notes), backupNotesLimit))
		b.WriteString(strings.Repeat("=", 30) + "\n")
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
