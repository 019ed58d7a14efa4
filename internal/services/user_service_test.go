package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/inkwell/blog-api/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidation(t *testing.T, err error, location, message string) {
	t.Helper()
	vErr, ok := apperr.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, location, vErr.Location)
	assert.Equal(t, message, vErr.Message)
}

func TestCreateUser_Success(t *testing.T) {
	db := setupDB(t)
	s := newTestUserService(db)
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "alice", "password1", "alice@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	var hash string
	require.NoError(t, db.QueryRow(`SELECT password_hash FROM users WHERE id = ?`, user.ID).Scan(&hash))
	assert.NotEqual(t, "password1", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))
}

func TestCreateUser_UsernameBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		username string
		message  string
	}{
		{"four characters", "abcd", "Must be at least 5 characters long"},
		{"five characters", "abcde", ""},
		{"fifteen characters", "abcdefghijklmno", ""},
		{"sixteen characters", "abcdefghijklmnop", "Cannot exceed 15 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestUserService(setupDB(t))
			_, err := s.CreateUser(context.Background(), tt.username, "password1", "e@example.com")
			if tt.message == "" {
				require.NoError(t, err)
				return
			}
			requireValidation(t, err, "username", tt.message)
		})
	}
}

func TestCreateUser_PasswordBounds(t *testing.T) {
	s := newTestUserService(setupDB(t))
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "alice", "123456", "e@example.com")
	requireValidation(t, err, "password", "Must be at least 7 characters long")

	_, err = s.CreateUser(ctx, "alice", strings.Repeat("p", 73), "e@example.com")
	requireValidation(t, err, "password", "Cannot exceed 72 characters")

	_, err = s.CreateUser(ctx, "alice", strings.Repeat("p", 72), "e@example.com")
	require.NoError(t, err)
}

func TestCreateUser_RejectsUntrimmed(t *testing.T) {
	s := newTestUserService(setupDB(t))
	ctx := context.Background()

	_, err := s.CreateUser(ctx, " alice", "password1", "e@example.com")
	requireValidation(t, err, "username", "Cannot start or end with space")

	_, err = s.CreateUser(ctx, "alice", "password1 ", "e@example.com")
	requireValidation(t, err, "password", "Cannot start or end with space")

	_, err = s.CreateUser(ctx, "alice", "password1", " e@example.com")
	requireValidation(t, err, "email", "Cannot start or end with space")

	_, err = s.CreateUser(ctx, "alice", "password1", "e@example.com")
	require.NoError(t, err)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestUserService(setupDB(t))
	ctx := context.Background()

	_, err := s.CreateUser(ctx, "alice", "password1", "a@example.com")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "alice", "password2", "b@example.com")
	requireValidation(t, err, "username", "Username unavailable")
}

func TestCreateUser_CountFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").WithArgs("alice").WillReturnError(errors.New("db down"))

	_, err = NewUserService(db).CreateUser(context.Background(), "alice", "password1", "a@example.com")
	require.Error(t, err)
	_, isValidation := apperr.AsValidation(err)
	assert.False(t, isValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUsernameAndVerifyPassword(t *testing.T) {
	s := newTestUserService(setupDB(t))
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "alice", "password1", "a@example.com")
	require.NoError(t, err)

	user, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, "a@example.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)

	assert.True(t, s.VerifyPassword(user, "password1"))
	assert.False(t, s.VerifyPassword(user, "password2"))

	_, err = s.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGetUserByID(t *testing.T) {
	s := newTestUserService(setupDB(t))
	ctx := context.Background()

	created, err := s.CreateUser(ctx, "alice", "password1", "a@example.com")
	require.NoError(t, err)

	user, err := s.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = s.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestFindByUsername_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, username, email, password_hash").WithArgs("alice").
		WillReturnError(errors.New("connection reset"))

	_, err = NewUserService(db).FindByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
