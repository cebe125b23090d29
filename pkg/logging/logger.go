// pkg/logging/logger.go

// Package logging provides structured JSON logging for go-roller. Log calls
// take a context; a run ID and frame number stored on it are added to every
// entry so lines from one simulation run can be grepped together.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevelEnv names the environment variable holding the log level.
const LogLevelEnv = "ROLLER_LOG_LEVEL"

// Logger wraps slog.Logger with ctx-first helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger writing JSON to stdout at the level named by
// ROLLER_LOG_LEVEL.
func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout)
}

// NewLoggerWithWriter creates a Logger writing JSON to w. The terminal host
// uses it to keep log lines off the screen it draws on.
func NewLoggerWithWriter(w io.Writer) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       ParseLevel(os.Getenv(LogLevelEnv)),
		ReplaceAttr: sanitizeAttributes,
	})
	return &Logger{slog.New(handler)}
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

// LogWithContext logs msg at level, adding run_id and frame when ctx
// carries them.
func (l *Logger) LogWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := RunID(ctx); id != "" {
		args = append(args, "run_id", id)
	}
	if frame, ok := Frame(ctx); ok {
		args = append(args, "frame", frame)
	}
	l.Log(ctx, level, msg, args...)
}

// Info logs msg at info level with the context fields of LogWithContext.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs msg at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs msg with err flattened to its message under "error".
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.LogWithContext(ctx, slog.LevelError, msg, args...)
}

// Debug logs msg at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelDebug, msg, args...)
}

type runIDKey struct{}

type frameKey struct{}

// WithRunID tags ctx with a simulation run ID. An empty id generates one.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewRunID()
	}
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunID returns the run ID on ctx, or "".
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(string); ok {
		return id
	}
	return ""
}

// NewRunID returns 16 random hex characters.
func NewRunID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// WithFrame tags ctx with the frame being processed.
func WithFrame(ctx context.Context, frame uint64) context.Context {
	return context.WithValue(ctx, frameKey{}, frame)
}

// Frame returns the frame on ctx and whether one was set.
func Frame(ctx context.Context) (uint64, bool) {
	f, ok := ctx.Value(frameKey{}).(uint64)
	return f, ok
}

// ParseLevel maps DEBUG, INFO, WARN/WARNING and ERROR, in any case, to a
// slog level. Anything else is INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redactedKeys are attribute key fragments whose values never reach the log.
// "key" is deliberately absent: input events log key codes.
var redactedKeys = []string{"password", "token", "secret", "auth"}

func sanitizeAttributes(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, s := range redactedKeys {
		if strings.Contains(key, s) {
			return slog.String(a.Key, "[REDACTED]")
		}
	}
	return a
}

// WrapError prefixes err with a formatted description, keeping it
// reachable through errors.Is and errors.As. A nil err stays nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		format = fmt.Sprintf(format, args...)
	}
	return fmt.Errorf("%s: %w", format, err)
}
