package directory

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/phonebook/internal/filex"
	"github.com/dmitrijs2005/phonebook/internal/models"
)

// ExportColumns is the header of export files.
var ExportColumns = []string{
	models.ContactFirstName, models.ContactLastName, models.ContactPhone, models.ContactEmail,
	models.ContactAddress, models.ContactGroup, models.ContactNotes,
}

const exportDelimiter = ","

// ImportResult counts the data lines of an import.
type ImportResult struct {
	Success int
	Failed  int
	Total   int
}

// Export writes the session account's visible contacts to path as
// comma-separated lines. Values are not quoted, so a comma inside a value
// shifts the columns of that line.
func (s *Service) Export(ctx context.Context, path string) (int, error) {
	s.mu.Lock()
	owner, err := s.currentLocked(ctx)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	contacts := s.visibleLocked(owner.ID, func(*models.Contact) bool { return true })
	s.mu.Unlock()

	if len(contacts) == 0 {
		return 0, ErrNothingToExport
	}

	err = filex.WriteAtomic(path, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if _, err := bw.WriteString(strings.Join(ExportColumns, exportDelimiter) + "\n"); err != nil {
			return err
		}
		for _, c := range contacts {
			line := strings.Join([]string{
				c.FirstName, c.LastName, c.Phone, c.Email, c.Address, c.Group, flattenNotes(c.Notes),
			}, exportDelimiter)
			if _, err := bw.WriteString(line + "\n"); err != nil {
				return err
			}
		}
		return bw.Flush()
	})
	if err != nil {
		s.logger.Error(ctx, "export failed", "path", path, "error", err)
		return 0, fmt.Errorf("%w: %w", ErrPersist, err)
	}

	s.logger.Info(ctx, "contacts exported", "path", path, "count", len(contacts))
	return len(contacts), nil
}

// Import adds one contact per data line of a comma-separated file. The first
// line names the columns. Lines whose field count differs from the header or
// whose phone is blank count as failed; blank lines are ignored.
func (s *Service) Import(ctx context.Context, path string) (ImportResult, error) {
	var res ImportResult

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.currentLocked(ctx); err != nil {
		return res, err
	}

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	first, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return res, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if strings.TrimSpace(first) == "" {
		return res, nil
	}
	header := splitTrim(first)

	n := 1
	for err == nil {
		var raw string
		raw, err = br.ReadString('\n')
		if err != nil && err != io.EOF {
			s.logger.Error(ctx, "import read failed", "path", path, "error", err)
			break
		}
		n++
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		res.Total++

		values := splitTrim(line)
		if len(values) != len(header) {
			s.logger.Warn(ctx, "import line skipped", "line", n, "reason", "field count mismatch")
			res.Failed++
			continue
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			row[h] = values[i]
		}
		if row[models.ContactPhone] == "" {
			s.logger.Warn(ctx, "import line skipped", "line", n, "reason", "blank phone")
			res.Failed++
			continue
		}

		if _, err := s.addContactLocked(ctx, models.ContactDetails{
			FirstName: row[models.ContactFirstName],
			LastName:  row[models.ContactLastName],
			Phone:     row[models.ContactPhone],
			Email:     row[models.ContactEmail],
			Address:   row[models.ContactAddress],
			Group:     row[models.ContactGroup],
			Notes:     row[models.ContactNotes],
		}); err != nil {
			res.Failed++
			continue
		}
		res.Success++
	}

	s.logger.Info(ctx, "contacts imported", "path", path, "success", res.Success, "failed", res.Failed)
	if res.Success == 0 {
		return res, nil
	}
	return res, s.persistContactsLocked(ctx)
}

func splitTrim(line string) []string {
	parts := strings.Split(strings.TrimSpace(line), exportDelimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func flattenNotes(v string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(v)
}
