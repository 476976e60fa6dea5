package spotify

import "time"

// User is the subset of /v1/me the app uses.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Artist is a top-artist entry.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity *int     `json:"popularity,omitempty"`
}

// Album carries the release date used to bucket tracks by decade.
type Album struct {
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
}

// Track is a top-track entry.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Popularity *int     `json:"popularity,omitempty"`
	Explicit   bool     `json:"explicit"`
	DurationMs int      `json:"duration_ms"`
	Album      Album    `json:"album"`
	Artists    []Artist `json:"artists"`
}

// Top is a user's listening summary.
type Top struct {
	Artists []Artist `json:"artists"`
	Tracks  []Track  `json:"tracks"`
}

// Token is an OAuth token as issued by the accounts service.
type Token struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	Scope        string    `json:"scope"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is past its expiry.
func (t *Token) Expired() bool {
	return !t.ExpiresAt.IsZero() && !time.Now().Before(t.ExpiresAt)
}

type paging[T any] struct {
	Items []T `json:"items"`
}
