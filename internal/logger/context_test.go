package logger_test

import (
	"context"
	"testing"

	"github.com/raagahub/moderation/internal/logger"
)

func TestWithContext_RoundTrip(t *testing.T) {
	t.Parallel()

	nop := logger.NewNop()
	ctx := logger.WithContext(context.Background(), nop)

	if got := logger.FromContext(ctx); got != nop {
		t.Errorf("FromContext returned %v, want the stored logger", got)
	}
}

func TestFromContext_EmptyContextFallsBack(t *testing.T) {
	t.Parallel()

	got := logger.FromContext(context.Background())
	if got == nil {
		t.Fatal("FromContext on empty context returned nil, want fallback logger")
	}

	// The fallback is warn-level; all calls must be safe regardless.
	got.Debug("debug message")
	got.Info("info message")
	got.Warn("warn message", logger.String("key", "value"))
	got.Error("error message")
}

func TestFromContext_FallbackIsSingleton(t *testing.T) {
	t.Parallel()

	a := logger.FromContext(context.Background())
	b := logger.FromContext(context.Background())

	if a != b {
		t.Error("FromContext returned different fallback instances, want one shared instance")
	}
}

func TestWithContext_LatestWins(t *testing.T) {
	t.Parallel()

	// Real loggers so each allocation has a distinct pointer; NewNop
	// returns a zero-size struct that may share an address.
	first := newTestLogger(t)
	second := newTestLogger(t)

	ctx := logger.WithContext(context.Background(), first)
	ctx = logger.WithContext(ctx, second)

	if got := logger.FromContext(ctx); got != second {
		t.Error("FromContext returned an earlier logger, want the most recently stored one")
	}
}

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()

	l, err := logger.New(logger.Config{
		Level:       "warn",
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return l
}
