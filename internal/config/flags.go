package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/phonebook/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-d string          data directory
//	-storage string    flatfile or sqlite
//	-session-ttl dur   session lifetime
//	-reset-ttl dur     password reset token lifetime
//	-log-backend, -log-format, -log-level string
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("phonebook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend (flatfile|sqlite)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "session lifetime")
	fs.DurationVar(&cfg.ResetTokenTTL, "reset-ttl", cfg.ResetTokenTTL, "password reset token lifetime")
	fs.StringVar(&cfg.LogBackend, "log-backend", cfg.LogBackend, "log backend (slog|zap)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (text|json)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	if err := flagx.ParseKnown(fs, args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
