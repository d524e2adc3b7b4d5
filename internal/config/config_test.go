package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "data", c.DataDir)
	assert.Equal(t, StorageFlatFile, c.Storage)
	assert.Equal(t, 12*time.Hour, c.SessionTTL)
	assert.Equal(t, 24*time.Hour, c.ResetTokenTTL)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, filepath.Join("data", "backups"), c.BackupDir())
	require.NoError(t, c.Validate())
}

func TestLoadConfig_DefaultsOnly(t *testing.T) {
	cfg, err := LoadConfig(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "slog", cfg.LogBackend)
}

func TestParseEnv(t *testing.T) {
	dotenv := writeFile(t, ".env", "PHONEBOOK_DATA_DIR=/from/dotenv\nPHONEBOOK_LOG_LEVEL=debug\nPHONEBOOK_BCRYPT_COST=5\n")
	t.Setenv("PHONEBOOK_DATA_DIR", "/from/env")
	t.Setenv("PHONEBOOK_RESET_TOKEN_TTL", "90m")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg, dotenv))

	assert.Equal(t, "/from/env", cfg.DataDir, "process environment wins over .env")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.BcryptCost)
	assert.Equal(t, 90*time.Minute, cfg.ResetTokenTTL)
}

func TestParseEnv_MissingDotEnvIsIgnored(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg, filepath.Join(t.TempDir(), ".env")))
	assert.Equal(t, "data", cfg.DataDir)
}

func TestParseEnv_BadValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("PHONEBOOK_SESSION_TTL", "soon")
		cfg := &Config{}
		require.Error(t, parseEnv(cfg, ""))
	})
	t.Run("cost", func(t *testing.T) {
		t.Setenv("PHONEBOOK_BCRYPT_COST", "high")
		cfg := &Config{}
		require.Error(t, parseEnv(cfg, ""))
	})
}

func TestParseFile(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		path := writeFile(t, "cfg.json", `{"data_dir":"/srv/pb","storage":"sqlite","session_ttl":"30m","bcrypt_cost":6}`)

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseFile(cfg, []string{"-c", path}))

		assert.Equal(t, "/srv/pb", cfg.DataDir)
		assert.Equal(t, StorageSQLite, cfg.Storage)
		assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
		assert.Equal(t, 6, cfg.BcryptCost)
		assert.Equal(t, 24*time.Hour, cfg.ResetTokenTTL, "absent keys keep their value")
	})

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, "cfg.yaml", "log_backend: zap\nlog_format: json\nreset_token_ttl: 2h\n")

		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseFile(cfg, []string{"-config", path}))

		assert.Equal(t, "zap", cfg.LogBackend)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.Equal(t, 2*time.Hour, cfg.ResetTokenTTL)
		assert.Equal(t, "data", cfg.DataDir)
	})

	t.Run("no flag", func(t *testing.T) {
		cfg := &Config{DataDir: "keep"}
		require.NoError(t, parseFile(cfg, []string{"-d", "x"}))
		assert.Equal(t, "keep", cfg.DataDir)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeFile(t, "bad.json", `{ this is not valid json`)
		require.Error(t, parseFile(&Config{}, []string{"-c", path}))
	})

	t.Run("missing file", func(t *testing.T) {
		require.Error(t, parseFile(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")}))
	})
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	err := parseFlags(cfg, []string{"-c", "ignored.json", "-d", "/tmp/pb", "-storage", "sqlite", "--session-ttl=1h", "-log-level", "error"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pb", cfg.DataDir)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "error", cfg.LogLevel)

	require.Error(t, parseFlags(cfg, []string{"-reset-ttl", "tomorrow"}))
}

func TestLoadConfig_Precedence(t *testing.T) {
	t.Setenv("PHONEBOOK_DATA_DIR", "/env")
	t.Setenv("PHONEBOOK_STORAGE", "sqlite")
	path := writeFile(t, "cfg.json", `{"data_dir":"/file","log_level":"info"}`)

	cfg, err := LoadConfig([]string{"-c", path, "-d", "/flag"}, "")
	require.NoError(t, err)

	assert.Equal(t, "/flag", cfg.DataDir)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"storage", []string{"-storage", "postgres"}},
		{"backend", []string{"-log-backend", "logrus"}},
		{"level", []string{"-log-level", "trace"}},
		{"data dir", []string{"-d", ""}},
		{"session ttl", []string{"-session-ttl", "0s"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(tc.args, "")
			require.Error(t, err)
		})
	}

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("PHONEBOOK_SESSION_SECRET", "short")
		_, err := LoadConfig(nil, "")
		require.Error(t, err)
	})
}
