// Package validation implements the field rules applied to decoded JSON
// request bodies before anything reaches a store. Each check returns the
// first violation it finds, so callers can chain them in order and stop at
// the first failure.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/inkwell/blog-api/internal/apperr"
)

// Body is a decoded JSON object.
type Body map[string]any

// FieldSize bounds the length of a string field, counted in code points.
// A zero Max means unbounded.
type FieldSize struct {
	Field string
	Min   int
	Max   int
}

// FirstMissing returns the first field not present in body, or "".
func FirstMissing(body Body, fields ...string) string {
	for _, field := range fields {
		if _, ok := body[field]; !ok {
			return field
		}
	}
	return ""
}

// RequirePresent fails when any of fields is absent from body.
func RequirePresent(body Body, fields ...string) error {
	if field := FirstMissing(body, fields...); field != "" {
		return apperr.NewValidationError(field, "Missing field")
	}
	return nil
}

// RequireStrings fails when a present field is not a JSON string.
// Absent fields are ignored.
func RequireStrings(body Body, fields ...string) error {
	for _, field := range fields {
		v, ok := body[field]
		if !ok {
			continue
		}
		if _, isString := v.(string); !isString {
			return apperr.NewValidationError(field, "Incorrect field type: expected string")
		}
	}
	return nil
}

// RequireTrimmed fails when a present string field has leading or trailing
// whitespace.
func RequireTrimmed(body Body, fields ...string) error {
	for _, field := range fields {
		s, ok := body[field].(string)
		if !ok {
			continue
		}
		if strings.TrimSpace(s) != s {
			return apperr.NewValidationError(field, "Cannot start or end with space")
		}
	}
	return nil
}

// RequireSizes checks every lower bound before any upper bound, so a body
// with one field too short and another too long reports the short one.
func RequireSizes(values map[string]string, sizes ...FieldSize) error {
	for _, size := range sizes {
		if size.Min > 0 && length(values[size.Field]) < size.Min {
			return apperr.NewValidationError(size.Field,
				fmt.Sprintf("Must be at least %d characters long", size.Min))
		}
	}
	for _, size := range sizes {
		if size.Max > 0 && length(values[size.Field]) > size.Max {
			return apperr.NewValidationError(size.Field,
				fmt.Sprintf("Cannot exceed %d characters", size.Max))
		}
	}
	return nil
}

// String returns body[field] as a string and whether it was one.
func String(body Body, field string) (string, bool) {
	s, ok := body[field].(string)
	return s, ok
}

func length(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
