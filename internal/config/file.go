package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/phonebook/internal/flagx"
	"github.com/dmitrijs2005/phonebook/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of a config file. Absent keys leave the
// current value untouched.
type FileConfig struct {
	DataDir       *string         `json:"data_dir" yaml:"data_dir"`
	Storage       *string         `json:"storage" yaml:"storage"`
	SessionSecret *string         `json:"session_secret" yaml:"session_secret"`
	SessionTTL    *timex.Duration `json:"session_ttl" yaml:"session_ttl"`
	ResetTokenTTL *timex.Duration `json:"reset_token_ttl" yaml:"reset_token_ttl"`
	BcryptCost    *int            `json:"bcrypt_cost" yaml:"bcrypt_cost"`
	LogBackend    *string         `json:"log_backend" yaml:"log_backend"`
	LogFormat     *string         `json:"log_format" yaml:"log_format"`
	LogLevel      *string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are read as YAML, anything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.Storage, fc.Storage)
	setString(&cfg.SessionSecret, fc.SessionSecret)
	setString(&cfg.LogBackend, fc.LogBackend)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.SessionTTL != nil {
		cfg.SessionTTL = fc.SessionTTL.Duration
	}
	if fc.ResetTokenTTL != nil {
		cfg.ResetTokenTTL = fc.ResetTokenTTL.Duration
	}
	if fc.BcryptCost != nil {
		cfg.BcryptCost = *fc.BcryptCost
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
