// Package integrations provides the HTTP clients for the upstream APIs the
// server talks to.
//
// # Overview
//
//   - [spotify]: PKCE OAuth and the top artists/tracks endpoints
//   - [stability]: text-to-image generation
//
// # Shared Infrastructure
//
// [Client] is embedded by every API client. It applies default headers,
// JSON-decodes responses, maps HTTP statuses onto [ErrNotFound],
// [ErrUnauthorized] and [ErrNetwork], marks transient failures retryable
// for [httputil.Retry], and reports request timings to the
// observability HTTP hooks.
//
//	c := integrations.NewClient(cache, map[string]string{"Accept": "application/json"})
//	err := c.Cached(ctx, "top:artists", false, &artists, func() error {
//	    return c.GetWithHeaders(ctx, url, auth, &artists)
//	})
package integrations
