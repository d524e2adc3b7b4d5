package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for REPL output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

type access int

const (
	guest access = iota // listed while logged out, callable any time
	member
	admin
)

type command struct {
	name   string
	help   string
	access access
	run    func(ctx context.Context, args []string) error
}

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	isAdmin(ctx context.Context) bool
	commands() []command
}

// runREPL reads one command per line from reader and dispatches it. The
// first word names the command, the rest are passed to it as arguments.
// Commands that need a session or the admin role are refused before they
// run. The loop exits on EOF, when the user types "exit" or "quit", or once
// ctx is done; a line read after cancellation is not dispatched.
//
// Errors returned by commands are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	byName := make(map[string]command)
	for _, c := range a.commands() {
		byName[c.name] = c
	}

	for ctx.Err() == nil {
		prompt := "pb"
		if status := statusFn(); status != "" {
			prompt += " " + status
		}
		printFn(prompt + "> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			printlnFn()
			return
		}
		if ctx.Err() != nil {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(helpText(ctx, a))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := byName[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}

		switch {
		case c.access >= member && !a.isLoggedIn(ctx):
			printlnFn("Please login first.")
			continue
		case c.access == admin && !a.isAdmin(ctx):
			printlnFn("Access denied!")
			continue
		}

		if err := c.run(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}

func helpText(ctx context.Context, a execIface) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")

	loggedIn := a.isLoggedIn(ctx)
	isAdmin := loggedIn && a.isAdmin(ctx)
	for _, c := range a.commands() {
		switch {
		case c.access == guest && loggedIn:
			continue
		case c.access == member && !loggedIn:
			continue
		case c.access == admin && !isAdmin:
			continue
		}
		fmt.Fprintf(&b, "  %-12s %s\n", c.name, c.help)
	}
	fmt.Fprintf(&b, "  %-12s %s\n", "help", "show this list")
	fmt.Fprintf(&b, "  %-12s %s", "exit", "leave the program")
	return b.String()
}

func (a *App) commands() []command {
	return []command{
		{"register", "create an account", guest, a.Register},
		{"login", "log in with email and password", guest, a.Login},
		{"forgot", "request a password reset token", guest, a.Forgot},
		{"reset", "set a new password with a reset token", guest, a.Reset},

		{"list", "list your contacts", member, a.List},
		{"add", "add a contact", member, a.Add},
		{"edit", "edit a contact: edit [id]", member, a.Edit},
		{"delete", "delete a contact: delete [id]", member, a.Delete},
		{"fav", "toggle favorite: fav [id]", member, a.Favorite},
		{"block", "hide a contact: block [id]", member, a.Block},
		{"unblock", "show a hidden contact again: unblock [id]", member, a.Unblock},
		{"search", "search contacts: search [keyword]", member, a.Search},
		{"group", "list a group: group [name]", member, a.Group},
		{"favorites", "list favorite contacts", member, a.Favorites},
		{"export", "export contacts: export [file]", member, a.Export},
		{"import", "import contacts: import [file]", member, a.Import},
		{"profile", "update username or email", member, a.Profile},
		{"logout", "log out", member, a.Logout},

		{"users", "list all accounts", admin, a.Users},
		{"activate", "activate an account: activate [id]", admin, a.Activate},
		{"deactivate", "deactivate an account: deactivate [id]", admin, a.Deactivate},
		{"backup", "write a backup report", admin, a.Backup},
	}
}
