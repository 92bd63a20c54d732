// Package log is a thin slog wrapper shared by the CLI and the Terraform provider.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var logger *slog.Logger

// Options configures the logger.
type Options struct {
	// Verbose enables debug/info output; otherwise only warnings and errors are shown.
	Verbose bool
	// JSONFormat switches stderr output to JSON.
	JSONFormat bool
	// Stderr is the writer for log output (defaults to os.Stderr).
	Stderr io.Writer
}

// Init initializes the global logger with the given options.
func Init(opts Options) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactAttr,
	}

	var h slog.Handler
	if opts.JSONFormat {
		h = slog.NewJSONHandler(stderr, hopts)
	} else {
		h = slog.NewTextHandler(stderr, hopts)
	}
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// With returns a logger with additional context.
func With(args ...any) *slog.Logger {
	return logger.With(args...)
}

// Enabled reports whether the level would be emitted.
func Enabled(level slog.Level) bool {
	return logger.Enabled(context.Background(), level)
}

// SetOutput sets the output writer (for testing).
func SetOutput(w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		ReplaceAttr: redactAttr,
	})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// sensitiveKeys are substrings of attribute keys whose values are never logged.
var sensitiveKeys = []string{
	"token",
	"password",
	"secret",
	"key",
	"authorization",
	"bearer",
}

// IsSensitive reports whether an attribute key looks like it carries secret material.
func IsSensitive(key string) bool {
	k := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// Redacted is the placeholder written instead of sensitive values.
const Redacted = "[REDACTED]"

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString && IsSensitive(a.Key) && a.Value.String() != "" {
		return slog.String(a.Key, Redacted)
	}
	return a
}

// Redact returns a copy of m with sensitive values masked, recursing into
// nested maps.
func Redact(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch {
		case IsSensitive(k):
			out[k] = Redacted
		default:
			if nested, ok := v.(map[string]any); ok {
				out[k] = Redact(nested)
			} else {
				out[k] = v
			}
		}
	}
	return out
}

func init() {
	// Default logger until Init is called
	logger = slog.Default()
}
