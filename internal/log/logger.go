package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger. Production writes uncoloured output at info
// level; other environments log at debug. A non-empty level overrides both.
func New(environment, level string) zerolog.Logger {
	return NewWithWriter(os.Stdout, environment, level)
}

func NewWithWriter(out io.Writer, environment, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    environment == "production",
	}

	lvl := zerolog.DebugLevel
	if environment == "production" {
		lvl = zerolog.InfoLevel
	}
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}

	return zerolog.New(output).Level(lvl).With().
		Timestamp().
		Str("env", environment).
		Logger()
}
