package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/inkwell/blog-api/internal/database/migrations"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(ctx context.Context, dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", withForeignKeys(dataSourceName))
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; an in-memory database also only exists
	// on the connection that created it.
	db.SetMaxOpenConns(1)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func withForeignKeys(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// gooseUp is a seam for testing goose.UpContext.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Debug().Msgf(strings.TrimSpace(format), v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatal().Msgf(strings.TrimSpace(format), v...)
}
