package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var defaultLogger zerolog.Logger

// LogLevel represents the log level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// Config represents logger configuration
type Config struct {
	// Level is the minimum level that gets emitted
	Level LogLevel
	// Pretty enables the human-readable console writer
	Pretty bool
	// Output is the output writer (defaults to os.Stdout)
	Output io.Writer
}

// Configure sets up the package-level logger and the zerolog global.
func Configure(config Config) {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	switch config.Level {
	case DebugLevel:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case InfoLevel:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case WarnLevel:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case ErrorLevel:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case FatalLevel:
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var writer io.Writer = config.Output
	if config.Pretty {
		writer = zerolog.ConsoleWriter{
			Out:        config.Output,
			TimeFormat: time.RFC3339,
		}
	}

	defaultLogger = zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = defaultLogger
}

// Debug logs a debug message
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info logs an informational message
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn logs a warning message
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error logs an error message
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// Fatal logs a fatal message and exits
func Fatal() *zerolog.Event {
	return defaultLogger.Fatal()
}

func init() {
	Configure(Config{
		Level:  InfoLevel,
		Pretty: true,
		Output: os.Stdout,
	})
}
