package common

import (
	"io"
	"log/slog"
	"os"
)

// LogLevel represents logging verbosity levels
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "error"
	case LogLevelWarn:
		return "warn"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return "warn"
	}
}

// ToSlogLevel converts LogLevel to slog.Level
func (l LogLevel) ToSlogLevel() slog.Level {
	switch l {
	case LogLevelError:
		return slog.LevelError
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelDebug:
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}

// Logger wraps slog.Logger with the level it was built for.
// All loggers write to stderr unless told otherwise: stdout carries the
// node client's response and must stay untouched.
type Logger struct {
	*slog.Logger
	level LogLevel
}

// NewLogger creates a text logger writing to stderr.
func NewLogger(level LogLevel) *Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a text logger writing to w.
func NewLoggerTo(w io.Writer, level LogLevel) *Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.ToSlogLevel()})
	return &Logger{Logger: slog.New(handler), level: level}
}

// NewJSONLogger creates a structured logger with JSON output on stderr
func NewJSONLogger(level LogLevel) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level.ToSlogLevel()})
	return &Logger{Logger: slog.New(handler), level: level}
}

// NewColorLogger creates a logger using the ColorHandler on stderr
func NewColorLogger(level LogLevel) *Logger {
	handler := NewColorHandler(os.Stderr, &slog.HandlerOptions{Level: level.ToSlogLevel()})
	return &Logger{Logger: slog.New(handler), level: level}
}

// Level returns the current log level
func (l *Logger) Level() LogLevel {
	return l.level
}

// WithComponent returns a logger with component context
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component), level: l.level}
}

// WithContract returns a logger tagged with the queried contract address
func (l *Logger) WithContract(contract string) *Logger {
	return &Logger{Logger: l.Logger.With("contract", contract), level: l.level}
}

// WithNetwork returns a logger tagged with the target chain
func (l *Logger) WithNetwork(chainID, node string) *Logger {
	return &Logger{
		Logger: l.Logger.With("chain_id", chainID, "node", globalMasker.MaskURL(node)),
		level:  l.level,
	}
}

var defaultLogger = NewLogger(LogLevelWarn)

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger *Logger) {
	defaultLogger = logger
}

// GetLogger returns the default logger
func GetLogger() *Logger {
	return defaultLogger
}

// LogWarn logs warning message
func LogWarn(msg string, attrs ...any) {
	defaultLogger.Warn(msg, attrs...)
}

// ParseLogLevel maps a config string to a LogLevel. Empty means warn.
func ParseLogLevel(s string) (LogLevel, bool) {
	switch s {
	case "error":
		return LogLevelError, true
	case "warn", "warning", "":
		return LogLevelWarn, true
	case "info":
		return LogLevelInfo, true
	case "debug":
		return LogLevelDebug, true
	default:
		return LogLevelWarn, false
	}
}
