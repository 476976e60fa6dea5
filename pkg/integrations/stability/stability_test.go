package stability

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/justnchxn/musictoart/pkg/integrations"
)

func TestGenerate(t *testing.T) {
	want := []byte("\x89PNG fake")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/generation/test-model/text-to-image" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("Authorization = %q", got)
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.TextPrompts) != 1 || req.TextPrompts[0].Text != "indie mainstream clean" {
			t.Errorf("prompts = %+v", req.TextPrompts)
		}
		if req.Width != 1536 || req.Height != 640 || req.Steps != 30 || req.CFGScale != 7 || req.Samples != 1 {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"artifacts": []map[string]string{{"base64": base64.StdEncoding.EncodeToString(want)}},
		})
	}))
	defer srv.Close()

	got, err := NewClient("key", "test-model").WithBaseURL(srv.URL).Generate(context.Background(), "indie mainstream clean")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Generate() = %q, want %q", got, want)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"bad request keeps body", http.StatusBadRequest, `{"message":"invalid prompt"}`, func(err error) bool {
			var se *integrations.StatusError
			return errors.As(err, &se) && se.StatusCode == 400 && se.Body == `{"message":"invalid prompt"}`
		}},
		{"unauthorized", http.StatusUnauthorized, `{}`, func(err error) bool {
			return errors.Is(err, integrations.ErrUnauthorized)
		}},
		{"no artifacts", http.StatusOK, `{"artifacts":[]}`, func(err error) bool {
			return errors.Is(err, ErrNoArtifacts)
		}},
		{"bad base64", http.StatusOK, `{"artifacts":[{"base64":"!!"}]}`, func(err error) bool {
			return err != nil && !errors.Is(err, ErrNoArtifacts)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient("key", "").WithBaseURL(srv.URL).Generate(context.Background(), "p")
			if !tt.check(err) {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewClientDefaultModel(t *testing.T) {
	if got := NewClient("k", "").Model(); got != DefaultModel {
		t.Errorf("Model() = %q, want %q", got, DefaultModel)
	}
}
