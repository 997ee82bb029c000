package cache

import (
	"sync"
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

func TestAsyncInstrumentation_DeliversAll(t *testing.T) {
	var delivered atomic.Int64
	a, err := NewAsyncInstrumentation(newTestLogger(t), 8, func(CacheLookupResult) {
		delivered.Add(1)
	})
	if err != nil {
		t.Fatalf("failed to create instrumentation: %v", err)
	}

	const emitted = 500
	for i := 0; i < emitted; i++ {
		a.Emit(Hit)
	}

	a.Close()
	if got := delivered.Load(); got != emitted {
		t.Errorf("expected %d delivered outcomes, got %d", emitted, got)
	}
}

func TestAsyncInstrumentation_PreservesOrder(t *testing.T) {
	var mu sync.Mutex
	var seen []CacheLookupResult

	a, err := NewAsyncInstrumentation(newTestLogger(t), 8, func(result CacheLookupResult) {
		mu.Lock()
		seen = append(seen, result)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("failed to create instrumentation: %v", err)
	}

	sequence := []CacheLookupResult{Miss, Hit, Refresh, Stale, NotFound, NotValid}
	for _, result := range sequence {
		a.Emit(result)
	}
	a.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != len(sequence) {
		t.Fatalf("expected %d outcomes, got %d", len(sequence), len(seen))
	}
	for i, want := range sequence {
		if seen[i] != want {
			t.Errorf("outcome %d = %s, want %s", i, seen[i], want)
		}
	}
}

func TestAsyncInstrumentation_SlowObserverDoesNotBlockEmit(t *testing.T) {
	release := make(chan struct{})
	a, err := NewAsyncInstrumentation(newTestLogger(t), 1, func(CacheLookupResult) {
		<-release
	})
	if err != nil {
		t.Fatalf("failed to create instrumentation: %v", err)
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			a.Emit(Hit)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("emit blocked on a slow observer")
	}

	close(release)
	a.Close()
}

func TestAsyncInstrumentation_CloseIsIdempotent(t *testing.T) {
	a, err := NewAsyncInstrumentation(newTestLogger(t), 8, func(CacheLookupResult) {})
	if err != nil {
		t.Fatalf("failed to create instrumentation: %v", err)
	}
	a.Close()
	a.Close()
}

func TestAsyncInstrumentation_NilCallback(t *testing.T) {
	if _, err := NewAsyncInstrumentation(newTestLogger(t), 8, nil); err == nil {
		t.Error("expected error for nil callback")
	}
}
