package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "PHONEBOOK_"

// parseEnv overlays cfg with PHONEBOOK_* variables. Values from the .env
// file are used only where the process environment has none.
func parseEnv(cfg *Config, dotEnvPath string) error {
	file := map[string]string{}
	if dotEnvPath != "" {
		values, err := godotenv.Read(dotEnvPath)
		switch {
		case err == nil:
			file = values
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("read %s: %w", dotEnvPath, err)
		}
	}

	lookup := func(name string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			return v, true
		}
		v, ok := file[envPrefix+name]
		return v, ok
	}

	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("DATA_DIR", &cfg.DataDir)
	str("STORAGE", &cfg.Storage)
	str("SESSION_SECRET", &cfg.SessionSecret)
	str("LOG_BACKEND", &cfg.LogBackend)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("LOG_LEVEL", &cfg.LogLevel)

	if err := dur("SESSION_TTL", &cfg.SessionTTL); err != nil {
		return err
	}
	if err := dur("RESET_TOKEN_TTL", &cfg.ResetTokenTTL); err != nil {
		return err
	}
	if v, ok := lookup("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sBCRYPT_COST: %w", envPrefix, err)
		}
		cfg.BcryptCost = n
	}
	return nil
}
