package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/phonebook/internal/common"
	"github.com/dmitrijs2005/phonebook/internal/directory"
	"github.com/dmitrijs2005/phonebook/internal/models"
)

// Form errors. They are reported to the user and never reach the Book.
var (
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPhoneRequired    = errors.New("phone number is required")
	ErrKeywordRequired  = errors.New("search keyword is required")
	ErrInvalidID        = errors.New("id must be a positive number")
	ErrNoSuchFile       = errors.New("file does not exist")
)

const minPasswordLen = 6

// Book is the surface of phonebook.Book the front-end uses.
type Book interface {
	Register(ctx context.Context, username, email, password string, role models.Role) bool
	Login(ctx context.Context, email, password string) bool
	Logout(ctx context.Context)
	CurrentAccount(ctx context.Context) *models.Account
	UpdateProfile(ctx context.Context, u models.ProfileUpdate) bool
	RequestPasswordReset(ctx context.Context, email string) (string, bool)
	ValidateResetToken(ctx context.Context, token string) bool
	ResetPassword(ctx context.Context, token, newPassword string) bool

	AddContact(ctx context.Context, d models.ContactDetails) bool
	EditContact(ctx context.Context, id int64, u models.ContactUpdate) bool
	DeleteContact(ctx context.Context, id int64) bool
	ToggleFavorite(ctx context.Context, id int64) *bool
	BlockContact(ctx context.Context, id int64) bool
	UnblockContact(ctx context.Context, id int64) bool
	Contact(ctx context.Context, id int64) *models.Contact
	Contacts(ctx context.Context) []models.Contact
	Search(ctx context.Context, keyword string) []models.Contact
	ListByGroup(ctx context.Context, group string) []models.Contact
	ListFavorites(ctx context.Context) []models.Contact

	Export(ctx context.Context, path string) bool
	Import(ctx context.Context, path string) directory.ImportResult
	Backup(ctx context.Context) string

	ListAllAccounts(ctx context.Context) []models.Account
	Activate(ctx context.Context, id int64) bool
	Deactivate(ctx context.Context, id int64) bool
}

type App struct {
	book   Book
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(book Book, in io.Reader, out io.Writer) *App {
	return &App{book: book, reader: bufio.NewReader(in), out: out}
}

// Run prints the banner and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	printlnFn("Phonebook (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader)
	a.book.Logout(ctx)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	return a.book.CurrentAccount(ctx) != nil
}

func (a *App) isAdmin(ctx context.Context) bool {
	acc := a.book.CurrentAccount(ctx)
	return acc != nil && acc.IsAdmin()
}

func (a *App) status(ctx context.Context) string {
	acc := a.book.CurrentAccount(ctx)
	if acc == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", acc.Username, acc.Role)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// text returns the inline arguments joined by spaces, or prompts for a line
// when there are none.
func (a *App) text(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

func (a *App) id(args []string, prompt string) (int64, error) {
	s, err := a.text(args, prompt)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// newPassword reads a password and its confirmation.
func (a *App) newPassword(prompt string) (string, error) {
	pw, err := GetPassword(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)

	confirm, err := GetPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(confirm)

	if string(pw) != string(confirm) {
		return "", ErrPasswordMismatch
	}
	if len(pw) < minPasswordLen {
		return "", ErrPasswordTooShort
	}
	return string(pw), nil
}
