// Package config provides configuration management for yoldosh.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
	"github.com/joeshaw/envdecode"
)

const (
	// DefaultProxyPort is the geocoding proxy listen port.
	DefaultProxyPort = 8790

	dataDirName  = ".yoldosh"
	dbFileName   = "yoldosh.db"
	settingsName = "settings.json"
)

// Config holds all runtime configuration. Values come from the settings
// file and can be overridden per-field from the environment. Provider API
// keys are environment-only and are never written to the settings file.
type Config struct {
	BackendURL string `json:"backend_url" env:"YOLDOSH_BACKEND_URL"`
	BackendKey string `json:"backend_key" env:"YOLDOSH_BACKEND_ANON_KEY"`

	ProxyPort int `json:"proxy_port" env:"YOLDOSH_PROXY_PORT"`

	GoogleMapsKey string `json:"-" env:"GOOGLE_MAPS_API_KEY"`
	YandexGeoKey  string `json:"-" env:"YANDEX_GEOCODER_API_KEY"`
	DGISKey       string `json:"-" env:"DGIS_API_KEY"`

	DBPath   string `json:"db_path" env:"YOLDOSH_DB_PATH"`
	MaxConns int    `json:"max_conns" env:"YOLDOSH_DB_MAX_CONNS"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		ProxyPort: DefaultProxyPort,
		DBPath:    DBPath(),
		MaxConns:  2,
	}
}

// DataDir returns the data directory path (~/.yoldosh).
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, dataDirName)
}

// DBPath returns the local database path.
func DBPath() string {
	return filepath.Join(DataDir(), dbFileName)
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), settingsName)
}

// EnsureDataDir creates the data directory if missing.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o755)
}

// EnsureSettings writes a default settings file if none exists.
func EnsureSettings() error {
	path := SettingsPath()
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := json.MarshalIndent(Default(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal default settings: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// EnsureAll creates the data directory and the settings file.
func EnsureAll() error {
	if err := EnsureDataDir(); err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}
	if err := EnsureSettings(); err != nil {
		return fmt.Errorf("ensure settings: %w", err)
	}
	return nil
}

// Load reads the settings file and applies environment overrides. A missing
// settings file is not an error; defaults are used.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse settings: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	// Environment overrides; absent variables leave fields untouched.
	if err := envdecode.Decode(cfg); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.ProxyPort <= 0 {
		cfg.ProxyPort = DefaultProxyPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DBPath()
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 2
	}
	return cfg, nil
}
