package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Config holds logging configuration
type Config struct {
	Level  string
	Format string
	Output string
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:  "warn",
		Format: "text",
		Output: "stderr",
	}
}

// WritesToTerminal reports whether the output is one of the standard streams.
func (c *Config) WritesToTerminal() bool {
	switch strings.ToLower(c.Output) {
	case "stdout", "stderr", "":
		return true
	}
	return false
}

// Logger wraps slog.Logger with additional context methods
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// NewLogger creates a new structured logger from configuration.
// Output may be stdout, stderr, discard or a file path (opened for append).
func NewLogger(cfg *Config) (*Logger, error) {
	var writer io.Writer
	var closer io.Closer

	switch strings.ToLower(cfg.Output) {
	case "stderr", "":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	case "discard", "none":
		writer = io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		writer, closer = f, f
	}

	l := New(writer, cfg)
	l.closer = closer
	return l, nil
}

// New builds a logger writing to w, ignoring cfg.Output.
func New(w io.Writer, cfg *Config) *Logger {
	handlerOpts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("timestamp", a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return New(io.Discard, DefaultConfig())
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning", "":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// WithComponent adds component context to logger
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}

// Request logs one outbound call to the collection service.
func (l *Logger) Request(method, url string, status int, duration time.Duration, err error) {
	args := []any{
		"subsystem", "http",
		"method", method,
		"url", url,
		"status", status,
		"duration_ms", duration.Milliseconds(),
	}
	if err != nil {
		l.Logger.Warn("request failed", append(args, "error", err.Error())...)
		return
	}
	l.Logger.Debug("request", args...)
}

// Mirror logs a change to the local item mirror.
func (l *Logger) Mirror(msg string, args ...any) {
	finalArgs := []any{"subsystem", "mirror"}
	finalArgs = append(finalArgs, args...)
	l.Logger.Info(msg, finalArgs...)
}

var defaultLogger *Logger

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the default logger instance
func Default() *Logger {
	if defaultLogger == nil {
		defaultLogger = New(os.Stderr, DefaultConfig())
	}
	return defaultLogger
}
