package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	ClientOrigins []string
	DatabaseURL   string
	JWTSecret     []byte
	JWTExpiry     time.Duration
	LogLevel      string
	AppEnv        string
}

// Production reports whether the service runs with APP_ENV=production.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// ErrMissingSecret is returned when JWT_SECRET is unset or empty.
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrMissingSecret
	}

	expiryStr := getEnv("JWT_EXPIRY", "7d")
	expiry, err := ParseExpiry(expiryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY %q: %w", expiryStr, err)
	}

	return &Config{
		ServerPort:    port,
		ClientOrigins: splitList(getEnv("CLIENT_ORIGIN", "http://localhost:3000")),
		DatabaseURL:   getEnv("DATABASE_URL", "./inkwell.db"),
		JWTSecret:     []byte(secret),
		JWTExpiry:     expiry,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AppEnv:        getEnv("APP_ENV", "development"),
	}, nil
}

// ParseExpiry parses a Go duration, additionally accepting a whole number of
// days such as "7d".
func ParseExpiry(s string) (time.Duration, error) {
	var d time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		if n <= 0 {
			return 0, errors.New("must be positive")
		}
		if int64(n) > math.MaxInt64/int64(24*time.Hour) {
			return 0, errors.New("too large")
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return 0, err
		}
	}
	if d <= 0 {
		return 0, errors.New("must be positive")
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
