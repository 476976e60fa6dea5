package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPalette, "palette entry %d: %s", 2, "bad")

	if err.Code != ErrCodeInvalidPalette {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidPalette)
	}
	if err.Message != "palette entry 2: bad" {
		t.Errorf("Message = %v, want %v", err.Message, "palette entry 2: bad")
	}

	expected := "INVALID_PALETTE: palette entry 2: bad"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "fetch preview")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if want := "NETWORK_ERROR: fetch preview: connection refused"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidParams, "test"), ErrCodeInvalidParams, true},
		{"non-matching code", New(ErrCodeInvalidParams, "test"), ErrCodeNetwork, false},
		{"wrapped error", Wrap(ErrCodeNetwork, New(ErrCodeInvalidParams, "inner"), "outer"), ErrCodeNetwork, true},
		{"fmt wrapped", fmtWrap(New(ErrCodeUnauthorized, "inner")), ErrCodeUnauthorized, true},
		{"non-Error type", errors.New("plain error"), ErrCodeInvalidParams, false},
		{"nil error", nil, ErrCodeInvalidParams, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func fmtWrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ err error }

func (w *wrapped) Error() string { return "context: " + w.err.Error() }
func (w *wrapped) Unwrap() error { return w.err }

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidColor, "x")); got != ErrCodeInvalidColor {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInvalidColor)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidPalette, "palette must not be empty"), "palette must not be empty"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidPalette, "x"), 400},
		{New(ErrCodeInvalidSize, "x"), 400},
		{New(ErrCodeUnauthorized, "x"), 401},
		{New(ErrCodeNotFound, "x"), 404},
		{New(ErrCodeRateLimited, "x"), 429},
		{New(ErrCodeNetwork, "x"), 502},
		{New(ErrCodeGenerationFailed, "x"), 500},
		{errors.New("plain"), 500},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
