package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger: JSON on stdout, or a console writer with
// debug level in development.
func New(environment string) zerolog.Logger {
	return newLogger(os.Stdout, environment)
}

func newLogger(out io.Writer, environment string) zerolog.Logger {
	level := zerolog.InfoLevel
	if environment == "development" {
		level = zerolog.DebugLevel
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "style-preset-backend").
		Logger()
}
