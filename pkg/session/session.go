// Package session provides session management for Spotify-authenticated users.
//
// This package defines interfaces for session storage and OAuth state
// management, with implementations for different backends:
//   - memory: in-process storage for development and tests
//   - redis: shared storage for multi-instance deployments
//   - file: JSON files on disk for a single long-running instance
//
// # Architecture
//
// Sessions hold the user's Spotify token and profile with an expiry. The
// browser only ever sees the session ID, signed with [Codec].
//
// OAuth state tokens bind a PKCE code verifier to one authorization round
// trip. They are short-lived and single-use: [StateStore.Consume] removes the
// token whether or not it is still valid.
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess, err := session.New(token, user, session.DefaultTTL)
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, sessionID)
//	if sess == nil {
//	    // not found or expired
//	}
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/justnchxn/musictoart/pkg/integrations/spotify"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an OAuth state token is unknown,
	// expired, or already used.
	ErrInvalidState = errors.New("invalid or expired state token")
)

// Session stores user session data.
type Session struct {
	ID        string        `json:"id"`
	Token     spotify.Token `json:"token"`
	User      *spotify.User `json:"user"`
	ExpiresAt time.Time     `json:"expires_at"`
	CreatedAt time.Time     `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// UserID returns the provider-namespaced user identifier used in cache keys
// and taste seeds. Empty for sessions without a profile.
func (s *Session) UserID() string {
	if s == nil || s.User == nil || s.User.ID == "" {
		return ""
	}
	return "spotify:" + s.User.ID
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op for Redis).
	Cleanup(ctx context.Context) error
}

// StateStore keeps PKCE code verifiers keyed by OAuth state token.
type StateStore interface {
	// Generate stores verifier under a fresh state token for ttl and returns
	// the token.
	Generate(ctx context.Context, verifier string, ttl time.Duration) (string, error)

	// Consume returns the verifier for state and removes it. Returns
	// ErrInvalidState if the token is unknown or expired.
	Consume(ctx context.Context, state string) (string, error)

	// Cleanup removes expired state tokens (may be a no-op for Redis).
	Cleanup(ctx context.Context) error
}

// Default durations.
const (
	// DefaultTTL is the default session duration.
	DefaultTTL = 24 * time.Hour

	// DefaultStateTTL matches the lifetime of the PKCE cookie.
	DefaultStateTTL = 10 * time.Minute
)

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateState creates a cryptographically secure random state token.
func GenerateState() (string, error) {
	return GenerateID()
}

// New creates a new session with the given token and user.
func New(token spotify.Token, user *spotify.User, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Session{
		ID:        id,
		Token:     token,
		User:      user,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// MockLocal creates a session for local development without Spotify. It has
// no access token, so the server serves default-taste parameters for it.
func MockLocal() *Session {
	now := time.Now()
	return &Session{
		ID:        "local-session",
		User:      &spotify.User{ID: "local", DisplayName: "Local User"},
		ExpiresAt: now.Add(365 * 24 * time.Hour),
		CreatedAt: now,
	}
}
