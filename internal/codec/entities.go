package codec

import (
	"io"

	"github.com/dmitrijs2005/phonebook/internal/models"
)

// DecodeAccounts parses an account file. Lines that cannot be turned into an
// account are added to the skipped list.
func DecodeAccounts(r io.Reader) ([]*models.Account, []LineError, error) {
	rows, skipped, err := Decode(r, AccountSchema)
	accounts := make([]*models.Account, 0, len(rows))
	for _, row := range rows {
		a, convErr := models.AccountFromRecord(row.Record)
		if convErr != nil {
			skipped = append(skipped, LineError{Line: row.Line, Err: convErr})
			continue
		}
		accounts = append(accounts, a)
	}
	return accounts, skipped, err
}

// DecodeContacts parses a contact file.
func DecodeContacts(r io.Reader) ([]*models.Contact, []LineError, error) {
	rows, skipped, err := Decode(r, ContactSchema)
	contacts := make([]*models.Contact, 0, len(rows))
	for _, row := range rows {
		c, convErr := models.ContactFromRecord(row.Record)
		if convErr != nil {
			skipped = append(skipped, LineError{Line: row.Line, Err: convErr})
			continue
		}
		contacts = append(contacts, c)
	}
	return contacts, skipped, err
}

func EncodeAccounts(w io.Writer, accounts []*models.Account) error {
	records := make([]models.Record, len(accounts))
	for i, a := range accounts {
		records[i] = a.ToRecord()
	}
	return Encode(w, AccountSchema, records)
}

func EncodeContacts(w io.Writer, contacts []*models.Contact) error {
	records := make([]models.Record, len(contacts))
	for i, c := range contacts {
		records[i] = c.ToRecord()
	}
	return Encode(w, ContactSchema, records)
}
