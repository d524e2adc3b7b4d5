package cli

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/phonebook/internal/models"
)

const separator = "--------------------------------------------------"

// printContacts prints one block per contact.
func (a *App) printContacts(cs []models.Contact, empty string) {
	if len(cs) == 0 {
		a.println(empty)
		return
	}
	for i, c := range cs {
		mark := "  "
		if c.Favorite {
			mark = "* "
		}
		a.printf("%d. [ID: %d] %s%s - %s\n", i+1, c.ID, mark, c.FullName(), c.Phone)
		a.printf("   Email: %s | Group: %s\n", c.Email, c.Group)
		if c.Address != "" {
			a.printf("   Address: %s\n", c.Address)
		}
		if c.Notes != "" {
			a.printf("   Notes: %s\n", c.Notes)
		}
		a.println(separator)
	}
}

// List prints the visible contacts ordered by first then last name,
// ignoring case.
func (a *App) List(ctx context.Context, _ []string) error {
	cs := a.book.Contacts(ctx)
	slices.SortStableFunc(cs, func(x, y models.Contact) int {
		return cmp.Or(
			cmp.Compare(strings.ToLower(x.FirstName), strings.ToLower(y.FirstName)),
			cmp.Compare(strings.ToLower(x.LastName), strings.ToLower(y.LastName)),
		)
	})
	a.printContacts(cs, "No contacts yet.")
	return nil
}

func (a *App) Add(ctx context.Context, _ []string) error {
	var d models.ContactDetails
	var err error

	if d.FirstName, err = GetSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if d.LastName, err = GetSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if d.Phone, err = GetSimpleText(a.reader, "Phone (*)", a.out); err != nil {
		return err
	}
	if d.Phone == "" {
		return ErrPhoneRequired
	}
	if d.Email, err = GetSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if d.Address, err = GetSimpleText(a.reader, "Address", a.out); err != nil {
		return err
	}
	if d.Group, err = GetSimpleText(a.reader, "Group (General/Family/Friends/Work)", a.out); err != nil {
		return err
	}
	if d.Notes, err = GetSimpleText(a.reader, "Notes", a.out); err != nil {
		return err
	}

	if a.book.AddContact(ctx, d) {
		a.println("Contact added successfully!")
	} else {
		a.println("Error adding contact!")
	}
	return nil
}

// Edit prompts for every field showing its current value; a blank answer
// keeps it.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.id(args, "Contact ID to edit")
	if err != nil {
		return err
	}
	c := a.book.Contact(ctx, id)
	if c == nil {
		a.printf("Contact with ID %d not found or does not belong to you.\n", id)
		return nil
	}

	a.printf("Editing contact: %s (leave blank to keep current value)\n", c.FullName())

	var u models.ContactUpdate
	changed := false
	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"First name", c.FirstName, &u.FirstName},
		{"Last name", c.LastName, &u.LastName},
		{"Phone", c.Phone, &u.Phone},
		{"Email", c.Email, &u.Email},
		{"Address", c.Address, &u.Address},
		{"Group", c.Group, &u.Group},
		{"Notes", c.Notes, &u.Notes},
	}
	for _, f := range fields {
		v, err := GetSimpleText(a.reader, f.label+" ["+f.current+"]", a.out)
		if err != nil {
			return err
		}
		if v != "" && v != f.current {
			*f.dst = &v
			changed = true
		}
	}

	if !changed {
		a.println("No changes made.")
		return nil
	}
	if a.book.EditContact(ctx, id, u) {
		a.println("Contact updated successfully!")
	} else {
		a.println("Error updating contact!")
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.id(args, "Contact ID to delete")
	if err != nil {
		return err
	}
	c := a.book.Contact(ctx, id)
	if c == nil {
		a.printf("Contact with ID %d not found or does not belong to you.\n", id)
		return nil
	}

	ok, err := GetConfirmation(a.reader, "Delete '"+c.FullName()+"'?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Delete operation cancelled.")
		return nil
	}

	if a.book.DeleteContact(ctx, id) {
		a.println("Contact deleted successfully!")
	} else {
		a.println("Error deleting contact!")
	}
	return nil
}

func (a *App) Favorite(ctx context.Context, args []string) error {
	id, err := a.id(args, "Contact ID to toggle favorite status")
	if err != nil {
		return err
	}

	fav := a.book.ToggleFavorite(ctx, id)
	switch {
	case fav == nil:
		a.printf("Contact with ID %d not found or does not belong to you.\n", id)
	case *fav:
		a.printf("Contact %d is now a favorite.\n", id)
	default:
		a.printf("Contact %d is no longer a favorite.\n", id)
	}
	return nil
}

func (a *App) Block(ctx context.Context, args []string) error {
	id, err := a.id(args, "Contact ID to block")
	if err != nil {
		return err
	}
	if a.book.BlockContact(ctx, id) {
		a.printf("Contact %d is now hidden.\n", id)
	} else {
		a.printf("Contact with ID %d not found or does not belong to you.\n", id)
	}
	return nil
}

func (a *App) Unblock(ctx context.Context, args []string) error {
	id, err := a.id(args, "Contact ID to unblock")
	if err != nil {
		return err
	}
	if a.book.UnblockContact(ctx, id) {
		a.printf("Contact %d is visible again.\n", id)
	} else {
		a.printf("Contact with ID %d not found or does not belong to you.\n", id)
	}
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	keyword, err := a.text(args, "Search keyword")
	if err != nil {
		return err
	}
	if keyword == "" {
		return ErrKeywordRequired
	}

	results := a.book.Search(ctx, keyword)
	if len(results) > 0 {
		a.printf("Found %d results:\n", len(results))
	}
	a.printContacts(results, "No contacts found matching your search.")
	return nil
}

func (a *App) Group(ctx context.Context, args []string) error {
	group, err := a.text(args, "Group")
	if err != nil {
		return err
	}
	a.printContacts(a.book.ListByGroup(ctx, group), "No contacts in group "+group+".")
	return nil
}

func (a *App) Favorites(ctx context.Context, _ []string) error {
	a.printContacts(a.book.ListFavorites(ctx), "No favorite contacts yet.")
	return nil
}
