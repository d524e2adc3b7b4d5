// Package config assembles the runtime settings of the phonebook.
//
// Sources are applied in order, later ones overriding earlier ones:
// defaults, environment (a .env file first, then real PHONEBOOK_* variables),
// a JSON or YAML file named by -c/-config, and command-line flags. The result
// is validated before use.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	StorageFlatFile = "flatfile"
	StorageSQLite   = "sqlite"
)

// Config holds runtime settings.
type Config struct {
	DataDir       string        `validate:"required"`
	Storage       string        `validate:"oneof=flatfile sqlite"`
	SessionSecret string        `validate:"omitempty,min=16"`
	SessionTTL    time.Duration `validate:"gt=0"`
	ResetTokenTTL time.Duration `validate:"gt=0"`
	BcryptCost    int           `validate:"min=4,max=31"`
	LogBackend    string        `validate:"oneof=slog zap"`
	LogFormat     string        `validate:"oneof=text json"`
	LogLevel      string        `validate:"oneof=debug info warn error"`
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = "data"
	c.Storage = StorageFlatFile
	c.SessionSecret = ""
	c.SessionTTL = 12 * time.Hour
	c.ResetTokenTTL = 24 * time.Hour
	c.BcryptCost = 10
	c.LogBackend = "slog"
	c.LogFormat = "text"
	c.LogLevel = "warn"
}

// BackupDir is where backup reports are written.
func (c *Config) BackupDir() string {
	return filepath.Join(c.DataDir, "backups")
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig builds a Config from defaults, dotEnvPath (skipped when the
// file does not exist), the process environment, the config file named in
// args and the flags in args.
func LoadConfig(args []string, dotEnvPath string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, dotEnvPath); err != nil {
		return nil, err
	}
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
