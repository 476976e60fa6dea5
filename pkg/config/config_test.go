package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so the host environment does not
// leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MUSICTOART_ADDR", "MUSICTOART_STATIC", "MUSICTOART_NO_AUTH",
		"SESSION_SECRET", "SESSION_BACKEND", "SESSION_DIR",
		"SPOTIFY_CLIENT_ID", "SPOTIFY_REDIRECT_URI", "ALLOWED_SCOPES",
		"STABILITY_API_KEY", "STABILITY_MODEL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	} {
		if old, ok := os.LookupEnv(k); ok {
			os.Unsetenv(k)
			t.Cleanup(func() { os.Setenv(k, old) })
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8000" || cfg.Spotify.RedirectURI != "http://localhost:8000/callback" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.InsecureSecret() {
		t.Error("default secret should be reported insecure")
	}
	if cfg.Stability.Model != "stable-diffusion-xl-1024-v1-0" {
		t.Errorf("model = %q", cfg.Stability.Model)
	}
	want := []string{"user-top-read", "user-read-recently-played", "playlist-read-private"}
	if !reflect.DeepEqual(cfg.Spotify.Scopes, want) {
		t.Errorf("scopes = %v", cfg.Spotify.Scopes)
	}
	if cfg.SpotifyEnabled() {
		t.Error("Spotify should be disabled without a client id")
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	file := filepath.Join(dir, "musictoart.toml")
	os.WriteFile(file, []byte(`
addr = ":9000"
session_ttl = "2h"

[spotify]
client_id = "from-file"

[cache]
ttl = "30m"
`), 0o644)

	env := filepath.Join(dir, ".env")
	os.WriteFile(env, []byte("SPOTIFY_CLIENT_ID=from-dotenv\nSTABILITY_API_KEY=sk-dotenv\n"), 0o644)
	t.Cleanup(func() {
		os.Unsetenv("SPOTIFY_CLIENT_ID")
		os.Unsetenv("STABILITY_API_KEY")
	})

	t.Setenv("MUSICTOART_ADDR", ":7000")
	t.Setenv("ALLOWED_SCOPES", "user-top-read  playlist-read-private")

	cfg, err := Load(file, env)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("Addr = %q, env should win", cfg.Addr)
	}
	if cfg.Spotify.ClientID != "from-dotenv" {
		t.Errorf("ClientID = %q, .env should override file", cfg.Spotify.ClientID)
	}
	if cfg.Stability.APIKey != "sk-dotenv" {
		t.Errorf("APIKey = %q", cfg.Stability.APIKey)
	}
	if cfg.SessionTTL != 2*time.Hour || cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("durations = %v, %v", cfg.SessionTTL, cfg.Cache.TTL)
	}
	if !reflect.DeepEqual(cfg.Spotify.Scopes, []string{"user-top-read", "playlist-read-private"}) {
		t.Errorf("scopes = %v", cfg.Spotify.Scopes)
	}
}

func TestLoadMissingDotEnv(t *testing.T) {
	clearEnv(t)
	if _, err := Load("", filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestLoadBadFile(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(file, []byte("addr = "), 0o644)
	if _, err := Load(file, ""); err == nil {
		t.Error("expected parse error")
	}
}

func TestRedisAddrSelectsBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := Load("", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Session.Backend != BackendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Session.Backend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"file backend", func(c *Config) { c.Session.Backend = BackendFile }, true},
		{"empty addr", func(c *Config) { c.Addr = "" }, false},
		{"empty secret", func(c *Config) { c.SessionSecret = "" }, false},
		{"zero ttl", func(c *Config) { c.SessionTTL = 0 }, false},
		{"redis without addr", func(c *Config) { c.Session.Backend = BackendRedis }, false},
		{"unknown backend", func(c *Config) { c.Session.Backend = "etcd" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, ok = %v", err, tt.ok)
			}
		})
	}
}

func TestApplyEnvBadInt(t *testing.T) {
	cfg := Default()
	lookup := func(k string) (string, bool) {
		if k == "REDIS_DB" {
			return "zero", true
		}
		return "", false
	}
	if err := cfg.applyEnv(lookup); err == nil {
		t.Error("expected REDIS_DB parse error")
	}
}
