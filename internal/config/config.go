// Package config loads and saves the revdash TOML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DataFileEnv overrides the configured data file when set.
const DataFileEnv = "REVDASH_DATA"

// DefaultGeoJSONURL is the county boundary document used by the map.
const DefaultGeoJSONURL = "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json"

// Config holds all revdash configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Map        MapConfig        `toml:"map"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DataFile    string `toml:"data_file,omitempty"`
	DefaultView string `toml:"default_view"`
}

// MapConfig controls the county boundary download.
type MapConfig struct {
	Enabled    bool   `toml:"enabled"`
	GeoJSONURL string `toml:"geojson_url"`
	CacheHours int    `toml:"cache_hours"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig controls structured logging. An empty File logs to stderr, or to
// revdash.log in the cache directory while the dashboard owns the terminal.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
	JSON  bool   `toml:"json"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultView: "with",
		},
		Map: MapConfig{
			Enabled:    true,
			GeoJSONURL: DefaultGeoJSONURL,
			CacheHours: 24 * 7,
			TimeoutSec: 30,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8787",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "revdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "revdash")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.General.DefaultView) {
	case "", "with", "without":
	default:
		errs = append(errs, fmt.Errorf("general.default_view: %q is not with or without", c.General.DefaultView))
	}

	if c.Map.Enabled {
		u, err := url.Parse(c.Map.GeoJSONURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("map.geojson_url: %q is not an http(s) URL", c.Map.GeoJSONURL))
		}
	}
	if c.Map.CacheHours < 0 {
		errs = append(errs, fmt.Errorf("map.cache_hours: must not be negative, got %d", c.Map.CacheHours))
	}
	if c.Map.TimeoutSec < 0 {
		errs = append(errs, fmt.Errorf("map.timeout_sec: must not be negative, got %d", c.Map.TimeoutSec))
	}

	if c.Server.Addr != "" && !strings.Contains(c.Server.Addr, ":") {
		errs = append(errs, fmt.Errorf("server.addr: %q has no port", c.Server.Addr))
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: unknown level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}

// DataFile returns the data file from the environment or config, in that order.
func DataFile(cfg Config) string {
	if path := os.Getenv(DataFileEnv); path != "" {
		return path
	}
	return cfg.General.DataFile
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
