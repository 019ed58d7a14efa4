package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkwell/blog-api/internal/apperr"
	"github.com/inkwell/blog-api/internal/auth"
	"github.com/inkwell/blog-api/internal/validation"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Code: status, Message: message})
}

// writeServiceError maps a store or auth error onto a response. Anything
// unrecognised is logged and collapsed into a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if vErr, ok := apperr.AsValidation(err); ok {
		writeJSON(w, vErr.Code, vErr)
		return
	}
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, apperr.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden")
	default:
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeBody reads a JSON object from the request body.
func decodeBody(w http.ResponseWriter, r *http.Request) (validation.Body, bool) {
	var body validation.Body
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil || body == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	return body, true
}

// requireIdentity returns the caller attached by the bearer middleware.
func requireIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		auth.Unauthorized(w)
		return auth.Identity{}, false
	}
	return identity, true
}
