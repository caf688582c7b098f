package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

// newTestLogger returns a secure logger writing to the given builder at
// debug level.
func newTestLogger(buf *strings.Builder) *slog.Logger {
	textHandler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewSecureHandler(textHandler))
}

// TestSecureHandlerMasksSensitiveKeys tests key-based masking.
func TestSecureHandlerMasksSensitiveKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{"password key", "password"},
		{"authorization header", "Authorization"},
		{"api key", "api_key"},
		{"cookie", "cookie"},
		{"keyword inside key", "db_password"},
		{"token keyword", "sessionToken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf strings.Builder
			logger := newTestLogger(&buf)

			logger.Info("request", tt.key, "hunter2")

			out := buf.String()
			if strings.Contains(out, "hunter2") {
				t.Errorf("sensitive value leaked: %s", out)
			}
			if !strings.Contains(out, MaskValue) {
				t.Errorf("expected mask value in: %s", out)
			}
		})
	}
}

// TestSecureHandlerMasksSensitiveValues tests value-pattern masking.
func TestSecureHandlerMasksSensitiveValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{"jwt", "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.abc123"},
		{"bearer", "Bearer abc123"},
		{"basic auth", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf strings.Builder
			logger := newTestLogger(&buf)

			logger.Info("request", "header", tt.value)

			if !strings.Contains(buf.String(), MaskValue) {
				t.Errorf("expected masked value in: %s", buf.String())
			}
		})
	}
}

// TestSecureHandlerKeepsOrdinaryAttrs tests that scan attributes survive.
func TestSecureHandlerKeepsOrdinaryAttrs(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	logger := newTestLogger(&buf)

	logger.Info("target state changed", "target", "https://victim.example/", "state", "fetching")

	out := buf.String()
	if !strings.Contains(out, "https://victim.example/") {
		t.Errorf("ordinary attribute was lost: %s", out)
	}
	if strings.Contains(out, MaskValue) {
		t.Errorf("ordinary attribute was masked: %s", out)
	}
}

// TestSecureHandlerSanitizesGroups tests recursive group masking.
func TestSecureHandlerSanitizesGroups(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	logger := newTestLogger(&buf)

	logger.Info("request",
		slog.Group("http",
			slog.String("url", "https://victim.example/"),
			slog.String("authorization", "Bearer abc123"),
		),
	)

	out := buf.String()
	if strings.Contains(out, "abc123") {
		t.Errorf("group attribute leaked: %s", out)
	}
	if !strings.Contains(out, "https://victim.example/") {
		t.Errorf("ordinary group attribute was lost: %s", out)
	}
}

// TestSecureHandlerWithAttrs tests masking of pre-bound attributes.
func TestSecureHandlerWithAttrs(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	logger := newTestLogger(&buf).With("token", "abc123")

	logger.Info("bound")

	if strings.Contains(buf.String(), "abc123") {
		t.Errorf("pre-bound attribute leaked: %s", buf.String())
	}
}

// TestNewSecureLogger tests the level selection.
func TestNewSecureLogger(t *testing.T) {
	t.Parallel()

	t.Run("default level suppresses debug", func(t *testing.T) {
		t.Parallel()
		var buf strings.Builder
		logger := NewSecureLogger(&buf, false)

		logger.Debug("noise")
		logger.Warn("important")

		out := buf.String()
		if strings.Contains(out, "noise") {
			t.Error("debug output must be suppressed without verbose")
		}
		if !strings.Contains(out, "important") {
			t.Error("warnings must always appear")
		}
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		t.Parallel()
		var buf strings.Builder
		logger := NewSecureLogger(&buf, true)

		logger.Debug("detail")
		if !strings.Contains(buf.String(), "detail") {
			t.Error("debug output must appear with verbose")
		}
	})
}

// TestSecureHandlerEnabled tests level delegation.
func TestSecureHandlerEnabled(t *testing.T) {
	t.Parallel()

	var buf strings.Builder
	h := NewSecureHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug must be disabled at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("error must be enabled at warn level")
	}
}
