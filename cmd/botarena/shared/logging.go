package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures console logging for the CLI.
func SetupLogger(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}
