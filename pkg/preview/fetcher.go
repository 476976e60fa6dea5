package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/justnchxn/musictoart/pkg/errors"
	"github.com/justnchxn/musictoart/pkg/integrations"
	"github.com/justnchxn/musictoart/pkg/params"
)

// Path is the preview endpoint relative to the server root.
const Path = "/api/preview"

// ErrNotAuthenticated covers every fetch failure: transport errors and any
// non-2xx response.
var ErrNotAuthenticated = errors.New("not authenticated")

// Fetcher supplies render parameters.
type Fetcher interface {
	Fetch(ctx context.Context) (params.RenderParams, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (params.RenderParams, error)

func (f FetcherFunc) Fetch(ctx context.Context) (params.RenderParams, error) { return f(ctx) }

// HTTPFetcher performs GET {BaseURL}/api/preview. It never retries.
type HTTPFetcher struct {
	client  *integrations.Client
	baseURL string
	cookie  string
}

// NewHTTPFetcher creates a fetcher for the server at baseURL. cookie is the
// raw "session" cookie value, or empty to fetch anonymously.
func NewHTTPFetcher(baseURL, cookie string) *HTTPFetcher {
	return &HTTPFetcher{
		client:  integrations.NewClient(nil, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
		cookie:  cookie,
	}
}

// SetHTTPClient replaces the underlying HTTP client.
func (f *HTTPFetcher) SetHTTPClient(h *http.Client) { f.client.SetHTTPClient(h) }

// Fetch returns the decoded parameters. Malformed bodies yield an
// INVALID_PARAMS error; every other failure wraps ErrNotAuthenticated.
func (f *HTTPFetcher) Fetch(ctx context.Context) (params.RenderParams, error) {
	var headers map[string]string
	if f.cookie != "" {
		headers = map[string]string{"Cookie": "session=" + f.cookie}
	}

	var raw json.RawMessage
	if err := f.client.GetWithHeaders(ctx, f.baseURL+Path, headers, &raw); err != nil {
		if errors.Is(err, integrations.ErrDecode) {
			return params.RenderParams{}, apperrors.Wrap(apperrors.ErrCodeInvalidParams, err, "decode preview response")
		}
		return params.RenderParams{}, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
	}
	return params.Decode(bytes.NewReader(raw))
}
