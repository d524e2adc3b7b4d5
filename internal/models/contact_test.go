package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func TestNewContact_DefaultGroup(t *testing.T) {
	c := NewContact(1, 2, ContactDetails{FirstName: "Bob", LastName: "Lee", Phone: "555-0100"}, t0)

	assert.Equal(t, DefaultGroup, c.Group)
	assert.Equal(t, t0, c.CreatedAt)
	assert.Equal(t, t0, c.UpdatedAt)
	assert.False(t, c.Favorite)
	assert.False(t, c.Blocked)
	assert.Equal(t, "Bob Lee", c.FullName())
}

func TestContact_Update(t *testing.T) {
	c := NewContact(1, 2, ContactDetails{FirstName: "Bob", Phone: "555"}, t0)

	phone, notes := "556", "met at work"
	t1 := t0.Add(time.Minute)
	c.Update(ContactUpdate{Phone: &phone, Notes: &notes}, t1)

	assert.Equal(t, "Bob", c.FirstName)
	assert.Equal(t, "556", c.Phone)
	assert.Equal(t, "met at work", c.Notes)
	assert.Equal(t, t1, c.UpdatedAt)

	t2 := t1.Add(time.Minute)
	c.Update(ContactUpdate{}, t2)
	assert.Equal(t, t2, c.UpdatedAt)
}

func TestContact_Matches(t *testing.T) {
	c := NewContact(1, 2, ContactDetails{FirstName: "Bob", LastName: "Lee", Phone: "555-0100", Notes: "Plays CHESS"}, t0)

	assert.True(t, c.Matches("bob"))
	assert.True(t, c.Matches("LEE"))
	assert.True(t, c.Matches("0100"))
	assert.True(t, c.Matches("chess"))
	assert.True(t, c.Matches("general"))
	assert.False(t, c.Matches("alice"))
}

func TestContact_Visible(t *testing.T) {
	c := NewContact(1, 2, ContactDetails{Phone: "1"}, t0)
	assert.True(t, c.Visible(2))
	assert.False(t, c.Visible(3))

	c.SetBlocked(true, t0)
	assert.False(t, c.Visible(2))
}

func TestContact_RecordRoundTrip(t *testing.T) {
	c := NewContact(5, 2, ContactDetails{
		FirstName: "Bob", LastName: "Lee", Phone: "555", Email: "bob@x.com",
		Address: "1 Main St", Group: "Work", Notes: "n",
	}, t0)
	c.SetFavorite(true, t0.Add(time.Second))

	got, err := ContactFromRecord(c.ToRecord())
	require.NoError(t, err)

	if diff := cmp.Diff(c, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestContactFromRecord_Defaults(t *testing.T) {
	got, err := ContactFromRecord(Record{
		ContactID:        "3",
		ContactOwnerID:   "1",
		ContactFirstName: "A",
		ContactLastName:  "B",
		ContactPhone:     "123",
		ContactCreatedAt: "2024-06-01T09:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultGroup, got.Group)
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.False(t, got.Favorite)
}

func TestContactFromRecord_Errors(t *testing.T) {
	_, err := ContactFromRecord(Record{ContactID: "3", ContactOwnerID: "1"})
	assert.True(t, errors.Is(err, ErrMissingRequiredField))

	_, err = ContactFromRecord(Record{ContactID: "3", ContactOwnerID: "x", ContactPhone: "1"})
	assert.True(t, errors.Is(err, ErrMalformedField))

	_, err = ContactFromRecord(Record{ContactOwnerID: "1", ContactPhone: "1"})
	assert.True(t, errors.Is(err, ErrMissingRequiredField))
}

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool("true"))
	assert.True(t, ParseBool("TRUE"))
	assert.True(t, ParseBool("True"))
	assert.False(t, ParseBool("yes"))
	assert.False(t, ParseBool("1"))
	assert.False(t, ParseBool(""))
}
