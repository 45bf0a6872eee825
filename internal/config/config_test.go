package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[spotify]
client_id = "abc123"

[playback]
device = "Kitchen"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Spotify.ClientID != "abc123" {
		t.Errorf("ClientID = %q, want %q", cfg.Spotify.ClientID, "abc123")
	}
	if cfg.Playback.Device != "Kitchen" {
		t.Errorf("Device = %q, want %q", cfg.Playback.Device, "Kitchen")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q, want %q", cfg.Log.Level, "debug")
	}
	// Defaults fill untouched fields.
	if cfg.Web.Addr != ":5000" {
		t.Errorf("Web.Addr = %q, want %q", cfg.Web.Addr, ":5000")
	}
	if cfg.Spotify.RedirectURI == "" {
		t.Error("RedirectURI is empty, want default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CUEPLAY_SPOTIFY_CLIENT_ID", "from-env")
	t.Setenv("CUEPLAY_PLAYBACK_DEVICE", "Office")
	t.Setenv("CUEPLAY_WEB_ADDR", ":8080")
	t.Setenv("CUEPLAY_LOG_LEVEL", "warn")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.Spotify.ClientID != "from-env" {
		t.Errorf("ClientID = %q, want %q", cfg.Spotify.ClientID, "from-env")
	}
	if cfg.Playback.Device != "Office" {
		t.Errorf("Device = %q, want %q", cfg.Playback.Device, "Office")
	}
	if cfg.Web.Addr != ":8080" {
		t.Errorf("Web.Addr = %q, want %q", cfg.Web.Addr, ":8080")
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Level = %q, want %q", cfg.Log.Level, "warn")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}

	cfg.Log.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with bad log level = nil, want error")
	}

	cfg = Default()
	cfg.Schedule.Activate = filepath.Join(t.TempDir(), "missing.sh")
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() with missing activate script = nil, want error")
	}
}
