// Package codec reads and writes the pipe-delimited data files.
//
// A file starts with comment lines ("#") followed by one record per line.
// Fields are separated by "|" and the token None marks an absent value.
// Values are written without line breaks or "|". Lines have no length limit.
// Records shorter than the schema's minimum are reported and skipped so the
// rest of the file still loads.
package codec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/phonebook/internal/models"
)

const (
	delimiter = "|"
	// NoneToken marks an absent value.
	NoneToken = "None"
)

// Schema fixes the field order of one collection.
type Schema struct {
	Label     string
	Fields    []string
	MinFields int
}

var AccountSchema = Schema{
	Label: "Accounts",
	Fields: []string{
		models.AccountID, models.AccountUsername, models.AccountEmail, models.AccountPasswordHash,
		models.AccountRole, models.AccountCreatedAt, models.AccountLastLogin, models.AccountIsActive,
		models.AccountResetToken, models.AccountResetTokenExpiry,
	},
	MinFields: 7,
}

var ContactSchema = Schema{
	Label: "Contacts",
	Fields: []string{
		models.ContactID, models.ContactOwnerID, models.ContactFirstName, models.ContactLastName,
		models.ContactPhone, models.ContactEmail, models.ContactAddress, models.ContactGroup,
		models.ContactNotes, models.ContactIsFavorite, models.ContactIsBlocked,
		models.ContactCreatedAt, models.ContactUpdatedAt,
	},
	MinFields: 5,
}

// Header returns the two comment lines written at the top of a file.
func (s Schema) Header() []string {
	return []string{
		fmt.Sprintf("# Phonebook %s Data", s.Label),
		"# Format: " + strings.Join(s.Fields, delimiter),
	}
}

// LineError describes a data line that was skipped.
type LineError struct {
	Line int
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e LineError) Unwrap() error {
	return e.Err
}

// Row is a decoded data line.
type Row struct {
	Line   int
	Record models.Record
}

// Decode parses every data line of r. Short lines are returned as LineErrors;
// the error result is reserved for read failures.
func Decode(r io.Reader, s Schema) ([]Row, []LineError, error) {
	var (
		rows    []Row
		skipped []LineError
	)

	br := bufio.NewReader(r)
	n := 0
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return rows, skipped, fmt.Errorf("read %s: %w", strings.ToLower(s.Label), readErr)
		}
		if readErr == io.EOF && raw == "" {
			break
		}
		n++

		if row, lerr, ok := decodeLine(raw, n, s); lerr != nil {
			skipped = append(skipped, *lerr)
		} else if ok {
			rows = append(rows, row)
		}

		if readErr == io.EOF {
			break
		}
	}
	return rows, skipped, nil
}

func decodeLine(raw string, n int, s Schema) (Row, *LineError, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return Row{}, nil, false
	}

	parts := strings.Split(line, delimiter)
	if len(parts) < s.MinFields {
		return Row{}, &LineError{
			Line: n,
			Err:  fmt.Errorf("expected at least %d fields, got %d", s.MinFields, len(parts)),
		}, false
	}

	rec := make(models.Record, len(s.Fields))
	for i, name := range s.Fields {
		if i >= len(parts) || parts[i] == NoneToken {
			continue
		}
		rec[name] = parts[i]
	}
	return Row{Line: n, Record: rec}, nil, true
}

// Encode writes the header and one line per record, in order.
func Encode(w io.Writer, s Schema, records []models.Record) error {
	bw := bufio.NewWriter(w)
	for _, h := range s.Header() {
		if _, err := bw.WriteString(h + "\n"); err != nil {
			return err
		}
	}

	values := make([]string, len(s.Fields))
	for _, rec := range records {
		for i, name := range s.Fields {
			v, ok := rec[name]
			if !ok {
				v = NoneToken
			}
			values[i] = flatten(v)
		}
		if _, err := bw.WriteString(strings.Join(values, delimiter) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

var flattener = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", delimiter, "/")

// flatten keeps a value on one line and inside its own column.
func flatten(v string) string {
	return flattener.Replace(v)
}
