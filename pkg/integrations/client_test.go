package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justnchxn/musictoart/pkg/httputil"
)

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(nil, nil)
	client.SetHTTPClient(server.Client())

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientHeadersMerge(t *testing.T) {
	var auth, ua string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		ua = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(nil, map[string]string{"Authorization": "Bearer default", "User-Agent": "musictoart"})
	client.SetHTTPClient(server.Client())

	var v map[string]any
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"Authorization": "Bearer override"}, &v)
	if err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer override" || ua != "musictoart" {
		t.Errorf("headers = %q, %q", auth, ua)
	}
}

func TestClientStatusMapping(t *testing.T) {
	tests := []struct {
		status    int
		want      error
		retryable bool
	}{
		{http.StatusNotFound, ErrNotFound, false},
		{http.StatusUnauthorized, ErrUnauthorized, false},
		{http.StatusForbidden, ErrUnauthorized, false},
		{http.StatusBadRequest, ErrNetwork, false},
		{http.StatusTooManyRequests, ErrNetwork, true},
		{http.StatusBadGateway, ErrNetwork, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("upstream says no"))
			}))
			defer server.Close()

			client := NewClient(nil, nil)
			client.SetHTTPClient(server.Client())

			var v any
			err := client.Get(context.Background(), server.URL, &v)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if httputil.IsRetryable(err) != tt.retryable {
				t.Errorf("retryable = %v, want %v", httputil.IsRetryable(err), tt.retryable)
			}
			var serr *StatusError
			if !errors.As(err, &serr) || serr.StatusCode != tt.status || serr.Body != "upstream says no" {
				t.Errorf("StatusError = %+v", serr)
			}
		})
	}
}

func TestClientNetworkErrorIsRetryable(t *testing.T) {
	client := NewClient(nil, nil)
	var v any
	err := client.Get(context.Background(), "http://127.0.0.1:1/unreachable", &v)
	if !errors.Is(err, ErrNetwork) || !httputil.IsRetryable(err) {
		t.Errorf("err = %v, want retryable ErrNetwork", err)
	}
}

func TestClientPostJSONAndForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		switch r.Header.Get("Content-Type") {
		case "application/json":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(map[string]string{"echo": body["text"]})
		case "application/x-www-form-urlencoded":
			r.ParseForm()
			json.NewEncoder(w).Encode(map[string]string{"echo": r.PostForm.Get("code")})
		default:
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
	}))
	defer server.Close()

	client := NewClient(nil, nil)
	client.SetHTTPClient(server.Client())
	ctx := context.Background()

	var out map[string]string
	if err := client.PostJSON(ctx, server.URL, nil, map[string]string{"text": "hi"}, &out); err != nil {
		t.Fatal(err)
	}
	if out["echo"] != "hi" {
		t.Errorf("PostJSON echo = %q", out["echo"])
	}

	if err := client.PostForm(ctx, server.URL, url.Values{"code": {"abc"}}, &out); err != nil {
		t.Fatal(err)
	}
	if out["echo"] != "abc" {
		t.Errorf("PostForm echo = %q", out["echo"])
	}
}

func TestClientCached(t *testing.T) {
	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(cache, nil)
	ctx := context.Background()

	var calls atomic.Int32
	fetch := func(v *string) func() error {
		return func() error {
			calls.Add(1)
			*v = "fresh"
			return nil
		}
	}

	var a string
	if err := client.Cached(ctx, "k", false, &a, fetch(&a)); err != nil {
		t.Fatal(err)
	}
	var b string
	if err := client.Cached(ctx, "k", false, &b, fetch(&b)); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 1 || b != "fresh" {
		t.Errorf("calls = %d, b = %q; want 1 fetch and cached value", calls.Load(), b)
	}

	var c string
	if err := client.Cached(ctx, "k", true, &c, fetch(&c)); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("refresh did not bypass cache: calls = %d", calls.Load())
	}
}
