package handlers

import (
	"net/http"

	"github.com/inkwell/blog-api/internal/metrics"
	"github.com/inkwell/blog-api/internal/services"
	"github.com/inkwell/blog-api/internal/validation"
	"github.com/rs/zerolog/log"
)

var registrationFields = []string{"username", "password", "email"}

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
	metrics *metrics.Metrics
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, m *metrics.Metrics) *UserHandler {
	return &UserHandler{service: service, metrics: m}
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	if err := validation.RequirePresent(body, registrationFields...); err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	if err := validation.RequireStrings(body, registrationFields...); err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	username, _ := validation.String(body, "username")
	password, _ := validation.String(body, "password")
	email, _ := validation.String(body, "email")

	user, err := h.service.CreateUser(r.Context(), username, password, email)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Failed to register user")
		writeServiceError(w, r, err, "")
		return
	}

	h.metrics.UsersRegisteredTotal.Inc()
	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	writeJSON(w, http.StatusCreated, user.Public())
}

// GetMe retrieves the currently authenticated user.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUserByID(r.Context(), identity.ID)
	if err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
