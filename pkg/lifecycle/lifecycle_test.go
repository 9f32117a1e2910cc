package lifecycle_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JaimeStill/cold/pkg/lifecycle"
)

func TestNotReadyBeforeStartup(t *testing.T) {
	lc := lifecycle.New()
	if lc.Ready() {
		t.Error("should not be ready before WaitForStartup")
	}
}

func TestReadyAfterStartup(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	if !lc.Ready() {
		t.Error("should be ready after WaitForStartup")
	}
}

func TestStartupHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var count atomic.Int32
	for range 3 {
		lc.OnStartup(func() {
			count.Add(1)
		})
	}

	lc.WaitForStartup()

	if got := count.Load(); got != 3 {
		t.Errorf("startup hooks: got %d, want 3", got)
	}
}

func TestShutdownHooksExecute(t *testing.T) {
	lc := lifecycle.New()

	var cleaned atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		cleaned.Store(true)
	})

	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	if !cleaned.Load() {
		t.Error("shutdown hook did not execute")
	}
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		time.Sleep(500 * time.Millisecond)
	})

	lc.WaitForStartup()

	err := lc.Shutdown(50 * time.Millisecond)
	if err == nil {
		t.Error("expected timeout error, got nil")
	}
}

func TestContextCancelledOnShutdown(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	if err := lc.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	select {
	case <-lc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}
}

func TestProbe(t *testing.T) {
	lc := lifecycle.New()

	if failures := lc.Probe(t.Context()); len(failures) != 0 {
		t.Fatalf("no checks registered: got %v", failures)
	}

	errDown := errors.New("connection refused")
	lc.AddCheck("database", func(context.Context) error { return nil })
	lc.AddCheck("storage", func(context.Context) error { return errDown })

	failures := lc.Probe(t.Context())
	if len(failures) != 1 {
		t.Fatalf("failures: got %v, want only storage", failures)
	}
	if !errors.Is(failures["storage"], errDown) {
		t.Errorf("storage failure: got %v, want %v", failures["storage"], errDown)
	}

	lc.AddCheck("storage", func(context.Context) error { return nil })
	if failures := lc.Probe(t.Context()); len(failures) != 0 {
		t.Errorf("replaced check should pass: got %v", failures)
	}
}

func TestProbePassesContext(t *testing.T) {
	lc := lifecycle.New()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	lc.AddCheck("database", func(ctx context.Context) error { return ctx.Err() })

	failures := lc.Probe(ctx)
	if !errors.Is(failures["database"], context.Canceled) {
		t.Errorf("database failure: got %v, want context.Canceled", failures["database"])
	}
}
