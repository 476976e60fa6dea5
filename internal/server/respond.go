package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/justnchxn/musictoart/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the status mapped from err's code and a body of
// {"error": CODE, "message": text}.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeJSON(w, apperrors.HTTPStatus(err), map[string]string{
		"error":   string(code),
		"message": apperrors.UserMessage(err),
	})
}

func writeNotAuthed(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not_authed"})
}
