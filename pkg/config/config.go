// Package config loads server settings from defaults, an optional TOML file,
// an optional .env file and the process environment, in that order of
// increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/justnchxn/musictoart/pkg/integrations/stability"
	"github.com/justnchxn/musictoart/pkg/integrations/spotify"
)

// DefaultSessionSecret is only suitable for local development.
const DefaultSessionSecret = "dev-secret"

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// Config holds every server setting.
type Config struct {
	Addr          string        `toml:"addr"`
	StaticDir     string        `toml:"static_dir"`
	SessionSecret string        `toml:"session_secret"`
	SessionTTL    time.Duration `toml:"session_ttl"`
	NoAuth        bool          `toml:"no_auth"`

	Spotify   SpotifyConfig   `toml:"spotify"`
	Stability StabilityConfig `toml:"stability"`
	Session   SessionConfig   `toml:"session"`
	Cache     CacheConfig     `toml:"cache"`
}

// SpotifyConfig configures the OAuth client.
type SpotifyConfig struct {
	ClientID    string   `toml:"client_id"`
	RedirectURI string   `toml:"redirect_uri"`
	Scopes      []string `toml:"scopes"`
}

// StabilityConfig configures /api/generate.
type StabilityConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// SessionConfig selects the session backend.
type SessionConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// CacheConfig configures the upstream response cache.
type CacheConfig struct {
	Dir string        `toml:"dir"`
	TTL time.Duration `toml:"ttl"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Addr:          ":8000",
		StaticDir:     "static",
		SessionSecret: DefaultSessionSecret,
		SessionTTL:    24 * time.Hour,
		Spotify: SpotifyConfig{
			RedirectURI: "http://localhost:8000/callback",
			Scopes:      append([]string(nil), spotify.DefaultScopes...),
		},
		Stability: StabilityConfig{Model: stability.DefaultModel},
		Session:   SessionConfig{Backend: BackendMemory},
		Cache:     CacheConfig{TTL: 10 * time.Minute},
	}
}

// Load builds a Config. path names an optional TOML file; dotenv names an
// optional .env file that is skipped when missing. Variables already in the
// environment win over the .env file.
func Load(path, dotenv string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return nil, fmt.Errorf("load %s: %w", dotenv, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if cfg.Session.RedisAddr != "" && cfg.Session.Backend == BackendMemory {
		cfg.Session.Backend = BackendRedis
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"MUSICTOART_ADDR":      &c.Addr,
		"MUSICTOART_STATIC":    &c.StaticDir,
		"SESSION_SECRET":       &c.SessionSecret,
		"SESSION_BACKEND":      &c.Session.Backend,
		"SESSION_DIR":          &c.Session.Dir,
		"SPOTIFY_CLIENT_ID":    &c.Spotify.ClientID,
		"SPOTIFY_REDIRECT_URI": &c.Spotify.RedirectURI,
		"STABILITY_API_KEY":    &c.Stability.APIKey,
		"STABILITY_MODEL":      &c.Stability.Model,
		"REDIS_ADDR":           &c.Session.RedisAddr,
		"REDIS_PASSWORD":       &c.Session.RedisPassword,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	if v, ok := lookup("ALLOWED_SCOPES"); ok {
		c.Spotify.Scopes = strings.Fields(v)
	}
	if v, ok := lookup("REDIS_DB"); ok {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Session.RedisDB = db
	}
	if v, ok := lookup("MUSICTOART_NO_AUTH"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MUSICTOART_NO_AUTH: %w", err)
		}
		c.NoAuth = b
	}
	return nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("config: addr is required")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("config: session secret is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: session_ttl must be positive")
	}
	switch c.Session.Backend {
	case BackendMemory, BackendFile:
	case BackendRedis:
		if c.Session.RedisAddr == "" {
			return fmt.Errorf("config: redis backend needs REDIS_ADDR")
		}
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}
	return nil
}

// InsecureSecret reports whether the development session secret is in use.
func (c *Config) InsecureSecret() bool {
	return c.SessionSecret == DefaultSessionSecret
}

// SpotifyEnabled reports whether OAuth can be offered.
func (c *Config) SpotifyEnabled() bool {
	return c.Spotify.ClientID != ""
}
