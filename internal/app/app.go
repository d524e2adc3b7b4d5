// Package app wires configuration, logging, storage and the directory
// service into a runnable phonebook, and makes sure an admin account exists.
package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dmitrijs2005/phonebook/internal/cli"
	"github.com/dmitrijs2005/phonebook/internal/config"
	"github.com/dmitrijs2005/phonebook/internal/cryptox"
	"github.com/dmitrijs2005/phonebook/internal/directory"
	"github.com/dmitrijs2005/phonebook/internal/filex"
	"github.com/dmitrijs2005/phonebook/internal/logging"
	"github.com/dmitrijs2005/phonebook/internal/models"
	"github.com/dmitrijs2005/phonebook/internal/phonebook"
	"github.com/dmitrijs2005/phonebook/internal/repositories"
	"github.com/dmitrijs2005/phonebook/internal/repositories/flatfile"
	"github.com/dmitrijs2005/phonebook/internal/repositories/sqlite"
	"github.com/dmitrijs2005/phonebook/internal/session"
)

// shutdownGrace bounds how long Run waits, after a signal, for the REPL to
// finish its current command. A REPL blocked reading input is abandoned.
var shutdownGrace = 2 * time.Second

// Default admin credentials, created on first start.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminEmail    = "admin@system.com"
	DefaultAdminPassword = "admin123"
)

type App struct {
	config *config.Config
	logger logging.Logger
	store  repositories.Store
	book   *phonebook.Book
	cli    *cli.App
	out    io.Writer
}

// NewApp builds the whole object graph. The REPL reads from in and writes
// to out; logs go to logOut.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	logger, err := logging.New(logging.Options{
		Backend: c.LogBackend,
		Format:  c.LogFormat,
		Level:   c.LogLevel,
		Output:  logOut,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	raw, err := openStore(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	store := repositories.Guard(raw)

	sessions, err := session.NewManager([]byte(c.SessionSecret), c.SessionTTL)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("session init error: %w", err)
	}

	svc := directory.New(ctx, store, sessions, logger,
		directory.WithHasher(cryptox.Hasher{Cost: c.BcryptCost}),
		directory.WithResetTokenTTL(c.ResetTokenTTL),
		directory.WithBackupDir(c.BackupDir()),
	)
	book := phonebook.New(svc, logger)

	return &App{
		config: c,
		logger: logger,
		store:  store,
		book:   book,
		cli:    cli.NewApp(book, in, out),
		out:    out,
	}, nil
}

func openStore(ctx context.Context, c *config.Config, logger logging.Logger) (repositories.Store, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	switch c.Storage {
	case config.StorageSQLite:
		s, err := sqlite.Open(ctx, filepath.Join(dir, sqlite.DBFile), logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return flatfile.New(dir, logger), nil
	}
}

// EnsureAdmin creates the default admin when no admin account exists and
// prints its credentials. It reports whether an account was created.
func (app *App) EnsureAdmin(ctx context.Context) bool {
	if app.book.HasAdmin() {
		return false
	}

	if !app.book.Register(ctx, DefaultAdminUsername, DefaultAdminEmail, DefaultAdminPassword, models.RoleAdmin) {
		fmt.Fprintln(app.out, "Could not create default admin account!")
		return false
	}

	fmt.Fprintln(app.out, "Default admin account created:")
	fmt.Fprintf(app.out, "Email: %s\nPassword: %s\n", DefaultAdminEmail, DefaultAdminPassword)
	fmt.Fprintln(app.out, "Please change password after login!")
	return true
}

// Run blocks in the REPL until the user exits, input ends or the process
// receives SIGINT or SIGTERM. Every change is already persisted when it
// returns, so an interrupted session loses nothing. On a signal the store is
// closed only after the REPL returns or shutdownGrace passes; a save still
// running then holds Close off, and later saves fail cleanly.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.logger.Info(ctx, "starting phonebook", "storage", app.config.Storage, "data_dir", app.config.DataDir)

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.cli.Run(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		app.logger.Info(ctx, "interrupted")
		select {
		case <-done:
		case <-time.After(shutdownGrace):
			app.logger.Warn(ctx, "repl still waiting for input, closing store")
		}
	}

	return app.Close()
}

// Close releases the store and flushes the logger.
func (app *App) Close() error {
	if s, ok := app.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return app.store.Close()
}
