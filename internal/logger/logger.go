package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // trace, debug, info, warn, error, fatal, panic
	Format     string // json, console
	TimeFormat string // RFC3339, Unix, or custom format
	Output     string // stdout, stderr, or file path

	// Rotation settings, used only when Output is a file path
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
}

// DefaultConfig returns a sensible default logging configuration.
// Logs go to stderr so that command output on stdout stays machine readable.
func DefaultConfig() LogConfig {
	return LogConfig{
		Level:      "warn",
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     "stderr",
		MaxSizeMB:  10,
		MaxAgeDays: 7,
		MaxBackups: 3,
	}
}

// Setup initializes the global logger with the provided configuration
func Setup(config LogConfig) error {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	output, isFile := openOutput(config)

	switch strings.ToLower(config.Format) {
	case "json":
		// JSON format is the default for zerolog
	default:
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: config.TimeFormat,
			NoColor:    isFile,
		}
	}

	log.Logger = zerolog.New(output).With().
		Timestamp().
		Caller().
		Logger()

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	return nil
}

// openOutput resolves the configured output. File paths are rotated by lumberjack.
func openOutput(config LogConfig) (io.Writer, bool) {
	switch config.Output {
	case "stdout":
		return os.Stdout, false
	case "", "stderr":
		return os.Stderr, false
	default:
		return &lumberjack.Logger{
			Filename:   config.Output,
			MaxSize:    config.MaxSizeMB,
			MaxAge:     config.MaxAgeDays,
			MaxBackups: config.MaxBackups,
			LocalTime:  true,
			Compress:   true,
		}, true
	}
}

// WithComponent returns a logger with a component field
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

// WithUser returns a logger with the signed in user's email
func WithUser(email string) zerolog.Logger {
	return log.Logger.With().Str("user", email).Logger()
}
