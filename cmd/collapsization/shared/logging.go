package shared

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// SetupLogger configures the process logger. Console output is the default;
// structured gets plain JSON with nanosecond timestamps for log shippers.
func SetupLogger(level string, structured bool) zerolog.Logger {
	var out zerolog.Logger
	if structured {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		out = zerolog.New(os.Stderr)
	} else {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return out.Level(parseLevel(level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}
