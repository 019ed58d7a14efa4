package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkwell/blog-api/internal/apperr"
	"github.com/inkwell/blog-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	users map[string]models.User
	err   error
}

func (f *fakeStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	user, ok := f.users[username]
	if !ok {
		return models.User{}, apperr.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) VerifyPassword(user models.User, candidate string) bool {
	return user.PasswordHash == "hash:"+candidate
}

func TestLocalStrategy_Authenticate(t *testing.T) {
	store := &fakeStore{users: map[string]models.User{
		"alice": {ID: "u1", Username: "alice", Email: "a@example.com", PasswordHash: "hash:password1"},
	}}
	s := NewLocalStrategy(store)
	ctx := context.Background()

	identity, err := s.Authenticate(ctx, "alice", "password1")
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: "u1", Username: "alice", Email: "a@example.com"}, identity)

	_, err = s.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = s.Authenticate(ctx, "nobody", "password1")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestLocalStrategy_StoreFailure(t *testing.T) {
	boom := errors.New("db down")
	s := NewLocalStrategy(&fakeStore{err: boom})

	_, err := s.Authenticate(context.Background(), "alice", "password1")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrBadCredentials)
}

func TestBearerStrategy_Middleware(t *testing.T) {
	tokens := NewTokenService([]byte("secret"), time.Hour)
	strategy := NewBearerStrategy(tokens)
	identity := Identity{ID: "u1", Username: "alice"}
	valid, err := tokens.Issue(identity)
	require.NoError(t, err)

	foreign, err := NewTokenService([]byte("other"), time.Hour).Issue(identity)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"garbage token", "Bearer IamAuthorized", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := strategy.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				got, ok := IdentityFromContext(r.Context())
				require.True(t, ok)
				assert.Equal(t, identity, got)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.False(t, called, "handler must not run")
				assert.Equal(t, "Unauthorized", rec.Body.String())
			} else {
				assert.True(t, called)
			}
		})
	}
}

func TestIdentityFromContext_Missing(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}

func TestRequireOwner(t *testing.T) {
	alice := Identity{ID: "u1", Username: "alice"}

	assert.NoError(t, RequireOwner(alice, "u1"))
	assert.ErrorIs(t, RequireOwner(alice, "u2"), apperr.ErrForbidden)
	assert.ErrorIs(t, RequireOwner(Identity{}, ""), apperr.ErrForbidden)
}
