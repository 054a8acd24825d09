package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the root logger for the process. "json" emits structured
// records suitable for shipping; any other value gets a human console log.
func Setup(format string) zerolog.Logger {
	return New(os.Stderr, format)
}

// New builds a logger writing to w. Split from Setup so tests can capture
// output.
func New(w io.Writer, format string) zerolog.Logger {
	var l zerolog.Logger
	if format == "json" {
		l = zerolog.New(w)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		})
	}
	return l.With().Timestamp().Str("app", "opsdash").Logger()
}
