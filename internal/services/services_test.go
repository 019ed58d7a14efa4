package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/inkwell/blog-api/internal/database"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := database.New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db))
	return db
}

func newTestUserService(db *sql.DB) *UserService {
	s := NewUserService(db)
	s.cost = bcrypt.MinCost
	return s
}
