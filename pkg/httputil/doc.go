// Package httputil provides HTTP utilities shared by the upstream API clients
// (Spotify, Stability) and the preview fetcher.
//
// # Overview
//
//   - [Cache]: file-based cache of JSON-marshalable responses with a TTL
//   - [Retry]: retry with exponential backoff for errors marked retryable
//
// # Caching
//
// The Spotify client caches each user's top artists and tracks for a few
// minutes so that repeated previews do not hit the API again:
//
//	cache, err := httputil.NewCache("", 10*time.Minute)
//	user := cache.Namespace("spotify:" + userID + ":")
//
// # Retry
//
// Only errors wrapped in [RetryableError] are retried (transport failures
// and 5xx responses). The preview fetch never retries: a failed preview is
// reported to the user instead.
package httputil
