// Package log provides the structured logging used across the
// interpreter: one zerolog.Logger per process, with per-subsystem child
// loggers carrying a "module" field the way the original slog-based
// wrapper carried it.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with the module/field conventions the rest
// of the tree expects.
type Logger struct {
	inner zerolog.Logger
}

// defaultLogger is the process-wide logger used by the package-level
// convenience functions.
var defaultLogger *Logger

func init() {
	defaultLogger = New(zerolog.InfoLevel)
}

// New creates a Logger that writes JSON to stderr at the given level.
func New(level zerolog.Level) *Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a Logger backed by the supplied writer. This is
// useful for testing or for writing to a custom destination.
func NewWithWriter(w io.Writer, level zerolog.Level) *Logger {
	return &Logger{inner: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// SetDefault replaces the package-level default logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// Module returns a child logger with an additional "module" field. This
// is the primary way subsystems (vm, state, cmd) obtain their own
// contextual logger.
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.With().Str("module", name).Logger()}
}

// With returns a child logger with one additional string field.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{inner: l.inner.With().Str(key, value).Logger()}
}

func fields(e *zerolog.Event, args ...any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, _ := args[i].(string)
		e.Interface(key, args[i+1])
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) {
	e := l.inner.Debug()
	fields(e, args...)
	e.Msg(msg)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) {
	e := l.inner.Info()
	fields(e, args...)
	e.Msg(msg)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) {
	e := l.inner.Warn()
	fields(e, args...)
	e.Msg(msg)
}

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) {
	e := l.inner.Error()
	fields(e, args...)
	e.Msg(msg)
}

// ---------------------------------------------------------------------------
// Package-level convenience functions -- delegate to defaultLogger.
// ---------------------------------------------------------------------------

// Debug logs at debug level using the default logger.
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }

// Info logs at info level using the default logger.
func Info(msg string, args ...any) { defaultLogger.Info(msg, args...) }

// Warn logs at warn level using the default logger.
func Warn(msg string, args ...any) { defaultLogger.Warn(msg, args...) }

// Error logs at error level using the default logger.
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
