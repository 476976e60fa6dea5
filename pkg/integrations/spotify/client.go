package spotify

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/justnchxn/musictoart/pkg/httputil"
	"github.com/justnchxn/musictoart/pkg/integrations"
)

// DefaultBaseURL is the Web API root.
const DefaultBaseURL = "https://api.spotify.com/v1"

// TopLimit is how many artists and tracks FetchTop requests.
const TopLimit = 20

// Client fetches listening data from the Web API.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a client. cache may be nil.
func NewClient(cache *httputil.Cache) *Client {
	var c *httputil.Cache
	if cache != nil {
		c = cache.Kind("spotify")
	}
	return &Client{Client: integrations.NewClient(c, nil), baseURL: DefaultBaseURL}
}

// WithBaseURL points the client at another API root (tests, proxies).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// CurrentUser returns the token owner's profile.
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.GetWithHeaders(ctx, c.baseURL+"/me", bearer(token), &u); err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	return &u, nil
}

// TopArtists returns the user's top artists.
func (c *Client) TopArtists(ctx context.Context, token string, limit int) ([]Artist, error) {
	var page paging[Artist]
	url := fmt.Sprintf("%s/me/top/artists?limit=%d", c.baseURL, limit)
	if err := c.GetWithHeaders(ctx, url, bearer(token), &page); err != nil {
		return nil, fmt.Errorf("fetch top artists: %w", err)
	}
	return page.Items, nil
}

// TopTracks returns the user's top tracks.
func (c *Client) TopTracks(ctx context.Context, token string, limit int) ([]Track, error) {
	var page paging[Track]
	url := fmt.Sprintf("%s/me/top/tracks?limit=%d", c.baseURL, limit)
	if err := c.GetWithHeaders(ctx, url, bearer(token), &page); err != nil {
		return nil, fmt.Errorf("fetch top tracks: %w", err)
	}
	return page.Items, nil
}

// FetchTop loads top artists and tracks concurrently. Results are cached
// under userID unless refresh is set; an empty userID is never cached.
// Either request failing fails the whole fetch.
func (c *Client) FetchTop(ctx context.Context, token, userID string, refresh bool) (*Top, error) {
	var top Top
	fetch := func() error {
		g, gctx := errgroup.WithContext(ctx)
		var artists []Artist
		var tracks []Track
		g.Go(func() error {
			var err error
			artists, err = c.TopArtists(gctx, token, TopLimit)
			return err
		})
		g.Go(func() error {
			var err error
			tracks, err = c.TopTracks(gctx, token, TopLimit)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		top = Top{Artists: artists, Tracks: tracks}
		return nil
	}

	var err error
	if userID == "" {
		err = httputil.RetryWithBackoff(ctx, fetch)
	} else {
		err = c.Cached(ctx, "top:"+userID, refresh, &top, fetch)
	}
	if err != nil {
		return nil, err
	}
	return &top, nil
}
