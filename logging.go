package nativeload

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// EnvLogLevel names the environment variable holding the default logger's level
// ("trace", "debug", "info", "warn", "error").
const EnvLogLevel = "NATIVELOAD_LOG_LEVEL"

// NewLogger returns the logger used when Options carry none. It writes to stderr
// at the level named by NATIVELOAD_LOG_LEVEL, or only errors if that is unset.
func NewLogger() hclog.Logger {
	level := hclog.LevelFromString(os.Getenv(EnvLogLevel))
	if level == hclog.NoLevel {
		level = hclog.Error
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "nativeload",
		Level:  level,
		Output: os.Stderr,
	})
}
