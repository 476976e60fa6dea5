// Package stability calls the Stability AI text-to-image endpoint.
package stability

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/justnchxn/musictoart/pkg/integrations"
)

// Defaults matching the generation request the app sends.
const (
	DefaultBaseURL = "https://api.stability.ai"
	DefaultModel   = "stable-diffusion-xl-1024-v1-0"

	Width    = 1536
	Height   = 640
	CFGScale = 7
	Steps    = 30
)

// generation can take a while; the shared 20s upstream timeout is too short.
const timeout = 60 * time.Second

// ErrNoArtifacts is returned when a 2xx response carries no image.
var ErrNoArtifacts = errors.New("stability: response has no artifacts")

type textPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type request struct {
	TextPrompts []textPrompt `json:"text_prompts"`
	CFGScale    float64      `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

type response struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// Client generates images for a single model.
type Client struct {
	*integrations.Client
	baseURL string
	model   string
}

// NewClient creates a client. An empty model selects DefaultModel.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	c := integrations.NewClient(nil, map[string]string{"Authorization": "Bearer " + apiKey})
	c.SetHTTPClient(&http.Client{Timeout: timeout})
	return &Client{Client: c, baseURL: DefaultBaseURL, model: model}
}

// WithBaseURL points the client at another API root.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Model returns the configured engine id.
func (c *Client) Model() string { return c.model }

// Generate renders prompt and returns the decoded PNG bytes of the first
// artifact. Upstream failures surface as *integrations.StatusError.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/generation/%s/text-to-image", c.baseURL, c.model)
	body := request{
		TextPrompts: []textPrompt{{Text: prompt, Weight: 1}},
		CFGScale:    CFGScale,
		Height:      Height,
		Width:       Width,
		Samples:     1,
		Steps:       Steps,
	}

	var out response
	if err := c.PostJSON(ctx, url, nil, body, &out); err != nil {
		return nil, fmt.Errorf("stability generate: %w", err)
	}
	if len(out.Artifacts) == 0 || out.Artifacts[0].Base64 == "" {
		return nil, ErrNoArtifacts
	}
	png, err := base64.StdEncoding.DecodeString(out.Artifacts[0].Base64)
	if err != nil {
		return nil, fmt.Errorf("stability: decode artifact: %w", err)
	}
	return png, nil
}
