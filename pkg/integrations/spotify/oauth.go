package spotify

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/justnchxn/musictoart/pkg/integrations"
)

// Default accounts endpoints.
const (
	DefaultAuthURL  = "https://accounts.spotify.com/authorize"
	DefaultTokenURL = "https://accounts.spotify.com/api/token"
)

// DefaultScopes are requested when OAuthConfig.Scopes is empty.
var DefaultScopes = []string{"user-top-read", "user-read-recently-played", "playlist-read-private"}

// OAuthConfig configures the PKCE flow.
type OAuthConfig struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
	AuthURL     string // defaults to DefaultAuthURL
	TokenURL    string // defaults to DefaultTokenURL
}

// OAuthClient handles Spotify OAuth operations.
type OAuthClient struct {
	config OAuthConfig
	http   *integrations.Client
}

// NewOAuthClient creates a new OAuth client.
func NewOAuthClient(config OAuthConfig) *OAuthClient {
	if config.AuthURL == "" {
		config.AuthURL = DefaultAuthURL
	}
	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}
	if len(config.Scopes) == 0 {
		config.Scopes = DefaultScopes
	}
	return &OAuthClient{config: config, http: integrations.NewClient(nil, nil)}
}

// Client exposes the underlying HTTP client for test injection.
func (c *OAuthClient) Client() *integrations.Client { return c.http }

// NewPKCE returns a fresh code verifier and its S256 challenge.
func NewPKCE() (verifier, challenge string, err error) {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate verifier: %w", err)
	}
	verifier = base64.RawURLEncoding.EncodeToString(b)
	return verifier, Challenge(verifier), nil
}

// Challenge derives the S256 code challenge for a verifier.
func Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// AuthorizationURL returns the URL the user is redirected to.
func (c *OAuthClient) AuthorizationURL(challenge, state string) string {
	params := url.Values{
		"client_id":             {c.config.ClientID},
		"response_type":         {"code"},
		"redirect_uri":          {c.config.RedirectURI},
		"scope":                 {strings.Join(c.config.Scopes, " ")},
		"code_challenge_method": {"S256"},
		"code_challenge":        {challenge},
	}
	if state != "" {
		params.Set("state", state)
	}
	return c.config.AuthURL + "?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for a token.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code, verifier string) (*Token, error) {
	return c.token(ctx, url.Values{
		"client_id":     {c.config.ClientID},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {c.config.RedirectURI},
		"code_verifier": {verifier},
	})
}

// Refresh exchanges a refresh token for a new access token. The previous
// refresh token is kept when the response omits one.
func (c *OAuthClient) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	tok, err := c.token(ctx, url.Values{
		"client_id":     {c.config.ClientID},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	})
	if err != nil {
		return nil, err
	}
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	return tok, nil
}

func (c *OAuthClient) token(ctx context.Context, form url.Values) (*Token, error) {
	var tok Token
	if err := c.http.PostForm(ctx, c.config.TokenURL, form, &tok); err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token exchange: empty access token")
	}
	if tok.ExpiresIn > 0 {
		tok.ExpiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return &tok, nil
}
