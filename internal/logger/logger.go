package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// countingHandler wraps another handler and counts warnings and errors so
// they can be reported once the terminal is released.
type countingHandler struct {
	inner  slog.Handler
	counts *counts
}

type counts struct {
	warn atomic.Int64
	err  atomic.Int64
}

func (h *countingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *countingHandler) Handle(ctx context.Context, r slog.Record) error {
	switch {
	case r.Level >= slog.LevelError:
		h.counts.err.Add(1)
	case r.Level >= slog.LevelWarn:
		h.counts.warn.Add(1)
	}
	return h.inner.Handle(ctx, r)
}

func (h *countingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &countingHandler{
		inner:  h.inner.WithAttrs(attrs),
		counts: h.counts,
	}
}

func (h *countingHandler) WithGroup(name string) slog.Handler {
	return &countingHandler{
		inner:  h.inner.WithGroup(name),
		counts: h.counts,
	}
}

var (
	// Log is the global structured logger
	Log *slog.Logger
	// logWriter is the rotating log writer, nil when logging is discarded
	logWriter *lumberjack.Logger
	// LogPath is the path to the current log file
	LogPath string
	// logCounts tracks warnings and errors since InitLogger
	logCounts = &counts{}
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a level name from the config file.
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToLower(name) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// InitLogger initializes the global logger with the specified level and path.
// The terminal belongs to the editor, so an empty logPath discards all
// output instead of writing to stderr.
func InitLogger(level LogLevel, logPath string) error {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelInfo:
		slogLevel = slog.LevelInfo
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	Close()
	LogPath = logPath

	var writer io.Writer = io.Discard
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		// Use lumberjack for log rotation
		logWriter = &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		}
		writer = logWriter
	}

	logCounts = &counts{}
	handler := &countingHandler{
		inner:  slog.NewJSONHandler(writer, opts),
		counts: logCounts,
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
	return nil
}

// Close closes the log file
func Close() {
	if logWriter != nil {
		logWriter.Close()
		logWriter = nil
	}
}

// getLogger returns the global logger, or the default slog logger if not initialized.
func getLogger() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// With creates a new logger with additional attributes
func With(args ...any) *slog.Logger {
	return getLogger().With(args...)
}

// GetCounts returns the number of warnings and errors logged since
// InitLogger.
func GetCounts() (warn, err int) {
	return int(logCounts.warn.Load()), int(logCounts.err.Load())
}
