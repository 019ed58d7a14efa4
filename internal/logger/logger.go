// internal/logger/logger.go
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global logger. Production gets JSON lines on stderr,
// everything else a colorized console writer.
func Init(level string, production bool) {
	var out io.Writer = os.Stderr
	if !production {
		// Use ConsoleWriter for human-readable, colorized output in development
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}
	zerolog.TimeFieldFormat = time.RFC3339

	// Add a hook to include the caller's file and line number
	log.Logger = zerolog.New(out).With().Timestamp().Caller().Logger()

	zerolog.SetGlobalLevel(ParseLevel(level))
}

// ParseLevel maps a level name onto a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
