package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Export writes the visible contacts to a file; ".txt" is appended when the
// name has no extension.
func (a *App) Export(ctx context.Context, args []string) error {
	path, err := a.text(args, "File to export to")
	if err != nil {
		return err
	}
	if filepath.Ext(path) == "" {
		path += ".txt"
	}

	if a.book.Export(ctx, path) {
		a.printf("Data exported successfully to: %s\n", path)
	} else {
		a.println("Error exporting data! There may be no contacts to export.")
	}
	return nil
}

func (a *App) Import(ctx context.Context, args []string) error {
	path, err := a.text(args, "File to import from")
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNoSuchFile, path)
	}

	res := a.book.Import(ctx, path)
	a.println("Import results:")
	a.printf("- Total records: %d\n- Successful: %d\n- Failed: %d\n", res.Total, res.Success, res.Failed)
	return nil
}

// Backup writes a report of all accounts and contacts.
func (a *App) Backup(ctx context.Context, _ []string) error {
	res := a.book.Backup(ctx)
	if strings.HasPrefix(res, "Backup failed") {
		a.println(res)
		return nil
	}
	a.println("Data backup successful!")
	a.printf("Backup file: %s\n", res)
	return nil
}
