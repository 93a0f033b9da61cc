// Package logging routes the global zerolog logger to a state file.
// The TUI owns the terminal, so logs can never go to stdout or stderr.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup opens the log file and installs it as the global logger output.
// The returned closer must be called on shutdown. When the file cannot
// be opened, logging is disabled rather than failing startup.
func Setup() io.Closer {
	zerolog.SetGlobalLevel(levelFromEnv())

	path, err := xdg.StateFile("glance/glance.log")
	if err != nil {
		log.Logger = zerolog.Nop()
		return io.NopCloser(nil)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Logger = zerolog.Nop()
		return io.NopCloser(nil)
	}

	log.Logger = zerolog.New(f).With().Timestamp().Logger()
	return f
}

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(os.Getenv("GLANCE_LOG")) {
	case "debug":
		return zerolog.DebugLevel
	case "trace":
		return zerolog.TraceLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
