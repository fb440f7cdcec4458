package internal

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// DefaultAppName is used for the config directory and the usage banner
	DefaultAppName          = "shatag"
	DefaultConfigPath       = filepath.Join(getHomeDir(), ".config", DefaultAppName)
	DefaultSystemConfigPath = filepath.Join("/etc", DefaultAppName)
	DefaultGlobalConfigFile = filepath.Join(DefaultConfigPath, "config.yaml")

	// Version is overridden at build time with -ldflags "-X ...".
	Version = "(version unknown)"

	// Default hashing settings
	DefaultHashAlgorithm = "sha256"
	DefaultChunkSize     = 64 * 1024
	MinChunkSize         = 4 * 1024

	// Extended attribute namespace shared with cshatag
	DefaultAttrPrefix = "user.shatag"

	DefaultLogLevel = "warn"
)

func getHomeDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current working directory if home directory is unavailable
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			log.Printf("Unable to get home or working directory, using /tmp: %v", err)
			return "/tmp"
		}
		log.Printf("Unable to get home directory, using current working directory: %v", err)
		return cwd
	}
	return homeDir
}

// GetLogger returns a properly configured zerolog logger instance
func GetLogger() zerolog.Logger {
	return NewLogger(os.Stderr, zerolog.WarnLevel)
}

// NewLogger returns a human readable logger writing to w. Every line carries
// the id of the current run so interleaved invocations can be told apart.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("run", uuid.NewString()).
		Logger()
}
