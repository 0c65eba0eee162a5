// Package trace carries the debug logger shared by the library packages.
// It is silent unless KYBER_DEBUG=1 and only ever receives public values:
// parameter names, sizes and step labels.
package trace

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the library debug logger.
var Log = New(os.Getenv("KYBER_DEBUG") == "1")

// New returns a console debug logger writing to stderr, or a no-op logger
// when enabled is false.
func New(enabled bool) zerolog.Logger {
	if !enabled {
		return zerolog.Nop()
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}
