package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger creates the root logger. debug wins over level; an unknown
// level falls back to info.
func SetupLogger(level string, debug bool) *log.Logger {
	return NewLogger(os.Stderr, level, debug)
}

// NewLogger is SetupLogger for an arbitrary writer.
func NewLogger(w io.Writer, level string, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if debug {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}
