package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/inkwell/blog-api/internal/apperr"
	"github.com/inkwell/blog-api/internal/models"
	"github.com/inkwell/blog-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Registration field sizes, in characters.
var credentialSizes = []validation.FieldSize{
	{Field: "username", Min: 5, Max: 15},
	{Field: "password", Min: 7, Max: 72},
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	CreateUser(ctx context.Context, username, password, email string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	VerifyPassword(user models.User, candidate string) bool
}

// UserService stores credentials and verifies passwords.
type UserService struct {
	db   *sql.DB
	cost int
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db, cost: bcrypt.DefaultCost}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT id, username, email, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.ErrNotFound
		}
		return models.User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return user, nil
}

// FindByUsername retrieves a single user by username, including the password hash.
func (s *UserService) FindByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, apperr.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user %q: %w", username, err)
	}
	return user, nil
}

// CreateUser validates the credentials, hashes the password and persists a
// new user. The returned user never carries the hash.
func (s *UserService) CreateUser(ctx context.Context, username, password, email string) (models.User, error) {
	fields := validation.Body{"username": username, "password": password, "email": email}
	if err := validation.RequireTrimmed(fields, "username", "password", "email"); err != nil {
		return models.User{}, err
	}
	if err := validation.RequireSizes(map[string]string{"username": username, "password": password}, credentialSizes...); err != nil {
		return models.User{}, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE username = ?", username).Scan(&count); err != nil {
		return models.User{}, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return models.User{}, usernameUnavailable()
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return models.User{}, apperr.NewValidationError("password", "Cannot exceed 72 characters")
		}
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users(id, username, email, password_hash) VALUES(?, ?, ?, ?)",
		user.ID, user.Username, user.Email, user.PasswordHash)
	if err != nil {
		// Lost the race against a concurrent registration.
		if isUniqueViolation(err) {
			return models.User{}, usernameUnavailable()
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

// VerifyPassword reports whether candidate matches the user's stored hash.
func (s *UserService) VerifyPassword(user models.User, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(candidate)) == nil
}

func usernameUnavailable() error {
	return apperr.NewValidationError("username", "Username unavailable")
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
