package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if Exists() {
		t.Fatal("Exists reported a config in an empty dir")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8787" || !cfg.Map.Enabled {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg := DefaultConfig()
	cfg.General.DataFile = "/srv/data/revenue.csv"
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Map.Enabled = false

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, "revdash", "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config mode = %o, want 600", perm)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.General.DataFile != cfg.General.DataFile || got.Appearance.Theme != "tokyo-night" || got.Map.Enabled {
		t.Errorf("round trip = %+v", got)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "revdash"), 0o755); err != nil {
		t.Fatal(err)
	}
	body := "[appearance]\ntheme = \"catppuccin-mocha\"\n"
	if err := os.WriteFile(Path(), []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Appearance.Theme != "catppuccin-mocha" {
		t.Errorf("theme = %q", cfg.Appearance.Theme)
	}
	if cfg.Map.GeoJSONURL != DefaultGeoJSONURL {
		t.Errorf("geojson_url default lost: %q", cfg.Map.GeoJSONURL)
	}
}

func TestLoad_BadTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, "revdash"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(Path(), []byte("[general\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("err = %v, want a parse error", err)
	}
}

func TestValidate_JoinsProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.DefaultView = "sideways"
	cfg.Map.GeoJSONURL = "counties.json"
	cfg.Server.Addr = "localhost"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, field := range []string{"default_view", "geojson_url", "server.addr", "log.level"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not mention %s", err, field)
		}
	}

	cfg.Map.Enabled = false
	cfg.General.DefaultView = "without"
	cfg.Server.Addr = ":9000"
	cfg.Log.Level = "debug"
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled map should skip URL check: %v", err)
	}
}

func TestDataFile_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.DataFile = "from-config.csv"

	t.Setenv(DataFileEnv, "")
	if got := DataFile(cfg); got != "from-config.csv" {
		t.Errorf("DataFile = %q, want config value", got)
	}
	t.Setenv(DataFileEnv, "from-env.csv")
	if got := DataFile(cfg); got != "from-env.csv" {
		t.Errorf("DataFile = %q, want env value", got)
	}
}
