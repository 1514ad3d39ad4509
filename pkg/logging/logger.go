// Package logging provides structured logging for the vectorspace simulation.
// It wraps Go's standard slog package with JSON output, per-session IDs
// carried in the context, component sub-loggers, and float formatting that
// keeps physics values readable and valid JSON.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
)

// Logger wraps slog.Logger to provide application-specific logging functionality
// with session ID support.
type Logger struct {
	*slog.Logger
}

// LevelEnv names the environment variable holding the log level
const LevelEnv = "VECTORSPACE_LOG_LEVEL"

// floatDigits is how many decimals float attributes keep
const floatDigits = 3

// NewLogger creates a new Logger instance with JSON output and configurable level.
// The log level can be controlled via the VECTORSPACE_LOG_LEVEL environment variable.
// Valid levels: DEBUG, INFO, WARN, ERROR. Defaults to INFO.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout)
}

// NewLoggerTo creates a Logger writing JSON to w. Interactive front ends that
// own the terminal use it to log to a file instead of stdout.
func NewLoggerTo(w io.Writer) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       getLogLevelFromEnv(),
		ReplaceAttr: formatFloats,
	})
	return &Logger{slog.New(handler)}
}

// Component returns a logger that tags every entry with the component name
func (l *Logger) Component(name string) *Logger {
	return &Logger{l.Logger.With("component", name)}
}

// LogWithContext logs a message, adding the session ID from ctx when present
func (l *Logger) LogWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := SessionID(ctx); id != "" {
		args = append(args, "session", id)
	}
	l.Log(ctx, level, msg, args...)
}

// Info logs an informational message with context.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning message with context.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs an error message with context and proper error formatting.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.LogWithContext(ctx, slog.LevelError, msg, args...)
}

// Debug logs a debug message with context.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelDebug, msg, args...)
}

type sessionKey struct{}

// WithSession returns a context carrying a session ID. An empty id gets a
// fresh random one.
func WithSession(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewSessionID()
	}
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the session ID stored in ctx, or "" when there is none
func SessionID(ctx context.Context) string {
	if id, ok := ctx.Value(sessionKey{}).(string); ok {
		return id
	}
	return ""
}

// NewSessionID returns a random 16 hex digit session ID
func NewSessionID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// ParseLevel converts a level name. WARNING is accepted for WARN.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func getLogLevelFromEnv() slog.Level {
	level, _ := ParseLevel(os.Getenv(LevelEnv))
	return level
}

// formatFloats rounds float attributes and turns NaN and infinities into
// strings, which encoding/json would otherwise refuse
func formatFloats(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindFloat64 {
		return a
	}

	f := a.Value.Float64()
	switch {
	case math.IsNaN(f):
		return slog.String(a.Key, "NaN")
	case math.IsInf(f, 1):
		return slog.String(a.Key, "+Inf")
	case math.IsInf(f, -1):
		return slog.String(a.Key, "-Inf")
	}

	scale := math.Pow10(floatDigits)
	return slog.Float64(a.Key, math.Round(f*scale)/scale)
}

// WrapError wraps an error with additional context information.
// This preserves the original error while adding descriptive context.
func WrapError(err error, context string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return fmt.Errorf("%s: %w", context, err)
}
