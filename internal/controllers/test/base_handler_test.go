package controllers_test

import (
	"context"
	"testing"
	"time"

	"github.com/bionicotaku/lingo-services-greeting/internal/controllers"
)

func remaining(ctx context.Context, t *testing.T) time.Duration {
	t.Helper()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatalf("expected deadline to be set")
	}
	return time.Until(deadline)
}

func TestBaseHandlerWithCommandTimeout(t *testing.T) {
	handler := controllers.NewBaseHandler(controllers.HandlerTimeouts{Command: 200 * time.Millisecond})
	ctx, cancel := handler.WithCommandTimeout(context.Background())
	defer cancel()

	if got := remaining(ctx, t); got < 150*time.Millisecond || got > 250*time.Millisecond {
		t.Fatalf("expected timeout near 200ms, got %v", got)
	}
}

func TestBaseHandlerCommandFallsBackToDefault(t *testing.T) {
	handler := controllers.NewBaseHandler(controllers.HandlerTimeouts{Default: 300 * time.Millisecond})
	ctx, cancel := handler.WithCommandTimeout(context.Background())
	defer cancel()

	if got := remaining(ctx, t); got < 250*time.Millisecond || got > 350*time.Millisecond {
		t.Fatalf("expected command to inherit default 300ms, got %v", got)
	}
}

func TestBaseHandlerZeroConfigUsesFallback(t *testing.T) {
	ctx, cancel := controllers.NewBaseHandler(controllers.HandlerTimeouts{}).WithCommandTimeout(context.Background())
	defer cancel()

	if got := remaining(ctx, t); got < 4*time.Second || got > 5*time.Second {
		t.Fatalf("expected fallback near 5s, got %v", got)
	}
}

func TestBaseHandlerNilSafe(t *testing.T) {
	var handler *controllers.BaseHandler
	ctx, cancel := handler.WithCommandTimeout(context.Background())
	defer cancel()
	if got := remaining(ctx, t); got <= 0 {
		t.Fatalf("expected fallback deadline for nil handler, got %v", got)
	}
}
