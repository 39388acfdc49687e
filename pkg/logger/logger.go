// pkg/logger/logger.go
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Log is the global logger instance
var Log zerolog.Logger

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	// Console output during development; Setup switches to JSON in release mode.
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
	}

	Log = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Setup configures the global logger for the given server mode. Release mode
// emits structured JSON; anything else keeps the console writer and enables
// debug logging.
func Setup(mode string) {
	if mode == "release" {
		Log = zerolog.New(os.Stdout).
			Level(zerolog.InfoLevel).
			With().
			Timestamp().
			Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	Log = Log.Level(zerolog.DebugLevel)
}
