package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateUnit checks that v is a finite number in [0, 1].
func ValidateUnit(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidParams, "%s must be within [0, 1], got %g", field, v)
	}
	return nil
}

// ValidateFinite rejects NaN and infinities, which JSON decoding never
// produces but programmatic callers can.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidParams, "%s must be a finite number", field)
	}
	return nil
}

// ValidateSize checks a canvas dimension.
func ValidateSize(field string, v, max int) error {
	if v <= 0 {
		return New(ErrCodeInvalidSize, "%s must be positive, got %d", field, v)
	}
	if v > max {
		return New(ErrCodeInvalidSize, "%s too large (max %d), got %d", field, max, v)
	}
	return nil
}

// ValidateFilename validates a generated-image filename for safety.
// It ensures the name is a plain basename without path components.
//
// Validation rules:
//   - Name cannot be empty
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - No hidden files
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "filename cannot contain path components")
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidInput, "filename cannot be a hidden file")
	}
	return nil
}
