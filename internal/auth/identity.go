// Package auth holds the token service, the two request authentication
// strategies and the resource owner check.
package auth

import (
	"context"
	"errors"

	"github.com/inkwell/blog-api/internal/apperr"
	"github.com/inkwell/blog-api/internal/models"
)

var (
	ErrBadCredentials = errors.New("bad credentials")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrMissingToken   = errors.New("missing bearer token")
)

// Identity is the minimal user claim carried by a token.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// IdentityOf builds the claim for user.
func IdentityOf(user models.User) Identity {
	return Identity{ID: user.ID, Username: user.Username, Email: user.Email}
}

type contextKey string

const identityKey = contextKey("identity")

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity attached by the bearer strategy.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// RequireOwner permits access only when identity owns the resource.
func RequireOwner(identity Identity, ownerID string) error {
	if identity.ID == "" || identity.ID != ownerID {
		return apperr.ErrForbidden
	}
	return nil
}
