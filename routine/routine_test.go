package routine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dailyyoga/cachekit/logger"
)

func newTestLogger(t *testing.T) logger.Logger {
	log, err := logger.New(&logger.Config{
		Level:    "debug",
		Encoding: "console",
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return log
}

func TestRunner_Go(t *testing.T) {
	runner := New(newTestLogger(t))

	var executed atomic.Bool
	runner.Go(func() {
		executed.Store(true)
	})

	runner.Wait()

	if !executed.Load() {
		t.Error("expected function to be executed")
	}
}

func TestRunner_Go_WithPanic(t *testing.T) {
	runner := New(newTestLogger(t))

	var beforePanic, afterPanic atomic.Bool
	runner.Go(func() {
		beforePanic.Store(true)
		panic("test panic")
	})

	// Start another goroutine to verify runner still works after panic
	runner.Go(func() {
		afterPanic.Store(true)
	})

	runner.Wait()

	if !beforePanic.Load() {
		t.Error("expected code before panic to execute")
	}
	if !afterPanic.Load() {
		t.Error("expected runner to survive a panic")
	}
}

func TestRunner_GoNamedWithContext(t *testing.T) {
	runner := New(newTestLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	var observed atomic.Bool
	runner.GoNamedWithContext(ctx, "ctx-routine", func(ctx context.Context) {
		<-ctx.Done()
		observed.Store(true)
	})

	cancel()
	runner.Wait()

	if !observed.Load() {
		t.Error("expected routine to observe cancellation")
	}
}

func TestGoNamed_RecoversPanic(t *testing.T) {
	log := newTestLogger(t)

	done := make(chan struct{})
	GoNamed(log, "panicky", func() {
		defer close(done)
		panic("test panic")
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("routine never ran")
	}
}
