package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/inkwell/blog-api/internal/apperr"
	"github.com/inkwell/blog-api/internal/models"
	"github.com/rs/zerolog/log"
)

// CredentialStore is the part of the user store the local strategy needs.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (models.User, error)
	VerifyPassword(user models.User, candidate string) bool
}

// LocalStrategy authenticates a username and password pair.
type LocalStrategy struct {
	store CredentialStore
}

// NewLocalStrategy creates a LocalStrategy backed by store.
func NewLocalStrategy(store CredentialStore) *LocalStrategy {
	return &LocalStrategy{store: store}
}

// Authenticate returns the identity for valid credentials. An unknown user
// and a wrong password both yield ErrBadCredentials.
func (s *LocalStrategy) Authenticate(ctx context.Context, username, password string) (Identity, error) {
	user, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Identity{}, ErrBadCredentials
		}
		return Identity{}, fmt.Errorf("local auth: %w", err)
	}
	if !s.store.VerifyPassword(user, password) {
		return Identity{}, ErrBadCredentials
	}
	return IdentityOf(user), nil
}

// BearerStrategy authenticates requests carrying "Authorization: Bearer <token>".
type BearerStrategy struct {
	tokens *TokenService
}

// NewBearerStrategy creates a BearerStrategy verifying with tokens.
func NewBearerStrategy(tokens *TokenService) *BearerStrategy {
	return &BearerStrategy{tokens: tokens}
}

// Authenticate extracts and verifies the bearer token of r.
func (s *BearerStrategy) Authenticate(r *http.Request) (Identity, error) {
	tokenStr, ok := BearerToken(r)
	if !ok {
		return Identity{}, ErrMissingToken
	}
	claims, err := s.tokens.Verify(tokenStr)
	if err != nil {
		return Identity{}, err
	}
	return claims.User, nil
}

// Middleware rejects unauthenticated requests with 401 and otherwise
// attaches the decoded identity to the request context.
func (s *BearerStrategy) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := s.Authenticate(r)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer authentication")
				Unauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// BearerToken returns the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Unauthorized writes the plain-text 401 response.
func Unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte("Unauthorized"))
}
