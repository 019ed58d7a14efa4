package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkwell/blog-api/internal/auth"
	"github.com/inkwell/blog-api/internal/metrics"
	"github.com/rs/zerolog/log"
)

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	AuthToken string `json:"authToken"`
}

// AuthHandler issues and refreshes bearer tokens.
type AuthHandler struct {
	local   *auth.LocalStrategy
	tokens  *auth.TokenService
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(local *auth.LocalStrategy, tokens *auth.TokenService, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{local: local, tokens: tokens, metrics: m}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges a username and password for a token. Credentials come from
// the JSON body, falling back to HTTP basic auth.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := readCredentials(w, r)
	if !ok {
		h.metrics.RecordAuth("local", "rejected")
		writeError(w, http.StatusBadRequest, "Bad credentials")
		return
	}

	identity, err := h.local.Authenticate(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			h.metrics.RecordAuth("local", "rejected")
			log.Warn().Str("username", creds.Username).Msg("Failed authentication attempt")
			writeError(w, http.StatusBadRequest, "Bad credentials")
			return
		}
		h.metrics.RecordAuth("local", "error")
		writeServiceError(w, r, err, "")
		return
	}

	token, err := h.tokens.Issue(identity)
	if err != nil {
		log.Error().Err(err).Str("user_id", identity.ID).Msg("Failed to generate JWT")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.metrics.RecordAuth("local", "success")
	writeJSON(w, http.StatusOK, TokenResponse{AuthToken: token})
}

// Refresh re-issues the caller's still-valid token with a new expiry.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	tokenStr, ok := auth.BearerToken(r)
	if !ok {
		auth.Unauthorized(w)
		return
	}

	token, err := h.tokens.Refresh(tokenStr)
	if err != nil {
		h.metrics.RecordAuth("refresh", "rejected")
		log.Debug().Err(err).Msg("Refusing token refresh")
		auth.Unauthorized(w)
		return
	}

	h.metrics.RecordAuth("refresh", "success")
	writeJSON(w, http.StatusOK, TokenResponse{AuthToken: token})
}

func readCredentials(w http.ResponseWriter, r *http.Request) (loginPayload, bool) {
	var payload loginPayload
	if r.Body != nil && r.ContentLength != 0 {
		// A malformed body falls through to basic auth.
		_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload)
	}
	if payload.Username == "" && payload.Password == "" {
		if user, pass, ok := r.BasicAuth(); ok {
			payload = loginPayload{Username: user, Password: pass}
		}
	}
	return payload, payload.Username != "" && payload.Password != ""
}
