// Package config loads daylog settings from defaults, an optional TOML file
// and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/pelletier/go-toml/v2"
	"github.com/terraincognita07/daylog/internal/db"
)

const (
	DefaultConfigPath = "daylog.toml"
	MinSecretLength   = 32
)

var insecureSecrets = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Slots   SlotsConfig   `toml:"slots"`
	Seed    SeedConfig    `toml:"seed"`
	I18n    I18nConfig    `toml:"i18n"`
}

type ServerConfig struct {
	Port         string `toml:"port"`
	SecretKey    string `toml:"secret_key"`
	CookieSecure bool   `toml:"cookie_secure"`
	Timezone     string `toml:"timezone"`
}

type StorageConfig struct {
	Backend      string `toml:"backend"` // "sqlite" or "workbook"
	DBPath       string `toml:"db_path"`
	WorkbookPath string `toml:"workbook_path"`
}

type SlotsConfig struct {
	Policy string `toml:"policy"` // "sequential" or "first_free"
}

type SeedConfig struct {
	Enabled    bool   `toml:"enabled"`
	RosterPath string `toml:"roster_path"` // optional YAML roster, built-in roster when empty
}

type I18nConfig struct {
	DefaultLanguage string `toml:"default_language"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     "8080",
			Timezone: "Asia/Jakarta",
		},
		Storage: StorageConfig{
			Backend:      db.BackendSQLite,
			DBPath:       filepath.Join("data", "daylog.db"),
			WorkbookPath: filepath.Join("data", "database_kegiatan.xlsx"),
		},
		Slots: SlotsConfig{
			Policy: "sequential",
		},
		Seed: SeedConfig{
			Enabled: true,
		},
		I18n: I18nConfig{
			DefaultLanguage: "id",
		},
	}
}

// LoadFrom starts with defaults, overlays the file at path when it exists and
// applies environment overrides last.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		cfg.Server.SecretKey = v
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE must be a boolean, got %q", v)
		}
		cfg.Server.CookieSecure = secure
	}
	if v := os.Getenv("TZ"); v != "" {
		cfg.Server.Timezone = v
	}

	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("WORKBOOK_PATH"); v != "" {
		cfg.Storage.WorkbookPath = v
	}

	if v := os.Getenv("SLOT_POLICY"); v != "" {
		cfg.Slots.Policy = v
	}

	if v := os.Getenv("SEED_ROSTER"); v != "" {
		switch strings.ToLower(v) {
		case "off", "false", "0":
			cfg.Seed.Enabled = false
		case "on", "true", "1":
			cfg.Seed.Enabled = true
		default:
			cfg.Seed.Enabled = true
			cfg.Seed.RosterPath = v
		}
	}

	if v := os.Getenv("DEFAULT_LANGUAGE"); v != "" {
		cfg.I18n.DefaultLanguage = v
	}
	return nil
}

func (c *Config) Validate() error {
	if err := ValidateSecretKey(c.Server.SecretKey); err != nil {
		return err
	}
	if err := ValidatePort(c.Server.Port); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Server.Timezone, err)
	}

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case db.BackendSQLite:
		if strings.TrimSpace(c.Storage.DBPath) == "" {
			return errors.New("db_path must be set for the sqlite backend")
		}
	case db.BackendWorkbook:
		if strings.TrimSpace(c.Storage.WorkbookPath) == "" {
			return errors.New("workbook_path must be set for the workbook backend")
		}
	default:
		return fmt.Errorf("invalid storage backend: %s", c.Storage.Backend)
	}

	c.Slots.Policy = strings.ToLower(strings.TrimSpace(c.Slots.Policy))
	switch c.Slots.Policy {
	case "", "sequential", "first_free":
	default:
		return fmt.Errorf("invalid slot policy: %s", c.Slots.Policy)
	}

	c.I18n.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.I18n.DefaultLanguage))
	switch c.I18n.DefaultLanguage {
	case "id", "en":
	default:
		return fmt.Errorf("unsupported default language: %s", c.I18n.DefaultLanguage)
	}
	return nil
}

// Location resolves the configured timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func ValidateSecretKey(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return errors.New("SECRET_KEY is required")
	}
	if _, insecure := insecureSecrets[secret]; insecure {
		return errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("SECRET_KEY must be at least %d characters", MinSecretLength)
	}
	return nil
}

func ValidatePort(raw string) error {
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid port %q", raw)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}
