// Package logging builds the zerolog logger used by the command-line tools.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = time.DateTime
}

// Config controls the logger output.
type Config struct {
	Level  string // trace, debug, info, warn, error (default: info)
	JSON   bool   // emit JSON lines instead of console output
	Output io.Writer
}

// New returns a logger for c.  Unknown levels fall back to info.
func New(c Config) zerolog.Logger {
	w := c.Output
	if w == nil {
		w = os.Stderr
	}
	if !c.JSON {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
