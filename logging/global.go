// Package logging wires slog to the console and to weekly rotating files
// under the server's log directory. The package-level helpers stay usable
// before InitLogger runs; they fall back to a plain console logger so early
// startup failures are never swallowed.
package logging

import (
	"log/slog"
	"os"
)

type LoggingService struct {
	Logger *slog.Logger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger with default rotation settings.
func InitLogger(logDir string) {
	InitLoggerWithRotation(logDir, 4, defaultMaxFileSize)
}

// InitLoggerWithRotation initializes the global logger with explicit
// retention and file size limits, typically taken from configuration.
func InitLoggerWithRotation(logDir string, retentionWeeks int, maxFileSize int64) {
	DefaultLoggingService = &LoggingService{
		Logger: setupLogger(logDir, retentionWeeks, maxFileSize),
	}
	slog.SetDefault(DefaultLoggingService.Logger)
}

// active returns the configured logger, or a console fallback when something
// logs before InitLogger has run.
func active() *slog.Logger {
	if DefaultLoggingService != nil && DefaultLoggingService.Logger != nil {
		return DefaultLoggingService.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func Info(msg string, args ...any)  { active().Info(msg, args...) }
func Warn(msg string, args ...any)  { active().Warn(msg, args...) }
func Error(msg string, args ...any) { active().Error(msg, args...) }
func Debug(msg string, args ...any) { active().Debug(msg, args...) }
