package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

var (
	mu sync.RWMutex
	// Library code stays quiet until the embedding program opts in.
	base = zerolog.New(io.Discard)
)

// SetupLogger configures the package logger based on verbosity level
// It sets up dual output to both console and a log file
func SetupLogger(verbosity int) {
	// Configure zerolog based on verbosity
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 2:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}

	var writers []io.Writer
	writers = append(writers, consoleWriter)

	logFile, err := getLogFilePath()
	var logFileHandle *os.File
	if err == nil {
		logFileHandle, err = openLogFile(logFile)
	}
	if err == nil {
		writers = append(writers, logFileHandle)
	}

	logger := zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if verbosity >= 2 {
		logger = logger.With().Caller().Logger()
	}
	SetLogger(logger)

	// If we couldn't create the log file, log the error now with the new logger
	if err != nil {
		logger.Warn().Err(err).Str("path", logFile).Msg("Failed to create log file, logging to console only")
	}

	logger.Debug().Int("verbosity", verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

// SetLogger replaces the logger every component logger derives from.
// Component loggers are captured when a session opens, so call this first.
func SetLogger(logger zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = logger
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", name).Logger()
}

// getLogFilePath returns the path to the log file under XDG_STATE_HOME,
// creating its parent directory.
func getLogFilePath() (string, error) {
	path, err := xdg.StateFile(filepath.Join("fileop", "fileop.log"))
	if err != nil {
		return "", fmt.Errorf("failed to resolve log file path: %w", err)
	}
	return path, nil
}

func openLogFile(logPath string) (*os.File, error) {
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// LogDuration logs the duration of an operation
func LogDuration(logger zerolog.Logger, start time.Time, operation string) {
	logger.Debug().
		Str("operation", operation).
		Dur("duration", time.Since(start)).
		Msg("Operation completed")
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		LogDuration(logger, start, operation)
	}
}
