package hydrate

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestPollingTask_RunsRepeatedly(t *testing.T) {
	var runs atomic.Int64
	task, err := NewPollingTask(newTestLogger(t), "test-task", 5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	defer task.Stop()

	time.Sleep(200 * time.Millisecond)
	if got := runs.Load(); got < 5 {
		t.Errorf("expected at least 5 runs, got %d", got)
	}
}

func TestPollingTask_StopHaltsBody(t *testing.T) {
	var runs atomic.Int64
	task, err := NewPollingTask(newTestLogger(t), "test-task", time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("task never ran")
		}
		time.Sleep(time.Millisecond)
	}

	task.Stop()
	before := runs.Load()
	time.Sleep(50 * time.Millisecond)
	if after := runs.Load(); after != before {
		t.Errorf("body ran %d more times after stop", after-before)
	}

	// Stop is idempotent.
	task.Stop()
}

func TestPollingTask_StopDuringSleepIsFast(t *testing.T) {
	task, err := NewPollingTask(newTestLogger(t), "test-task", time.Hour, func(ctx context.Context) {})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	start := time.Now()
	task.Stop()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("stop of a sleeping task took %v", elapsed)
	}
}

func TestPollingTask_BodySeesCancellation(t *testing.T) {
	entered := make(chan struct{}, 1)
	canceled := make(chan struct{}, 1)

	task, err := NewPollingTask(newTestLogger(t), "test-task", time.Millisecond, func(ctx context.Context) {
		select {
		case entered <- struct{}{}:
		default:
		}
		select {
		case <-ctx.Done():
			select {
			case canceled <- struct{}{}:
			default:
			}
		case <-time.After(2 * time.Second):
		}
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	<-entered
	task.Stop()

	select {
	case <-canceled:
	default:
		t.Error("body should observe cancellation mid-iteration")
	}
}

func TestPollingTask_SetPollingRate(t *testing.T) {
	var runs atomic.Int64
	task, err := NewPollingTask(newTestLogger(t), "test-task", time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	defer task.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 5 {
		if time.Now().After(deadline) {
			t.Fatal("task never ran")
		}
		time.Sleep(time.Millisecond)
	}

	task.SetPollingRate(5 * time.Second)
	time.Sleep(30 * time.Millisecond)

	before := runs.Load()
	time.Sleep(100 * time.Millisecond)
	if after := runs.Load(); after-before > 1 {
		t.Errorf("expected quiescence after slowing the rate, got %d extra runs", after-before)
	}
}

func TestPollingTask_InvalidArguments(t *testing.T) {
	log := newTestLogger(t)

	if _, err := NewPollingTask(log, "t", time.Second, nil); err == nil {
		t.Error("expected error for nil body")
	}
	if _, err := NewPollingTask(log, "t", 0, func(ctx context.Context) {}); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestSelfUpdatingPollingTask_AdjustsOwnRate(t *testing.T) {
	var runs atomic.Int64
	task, err := NewSelfUpdatingPollingTask(newTestLogger(t), "test-task", time.Millisecond,
		func(ctx context.Context, setRate func(time.Duration)) {
			if runs.Add(1) == 3 {
				setRate(time.Hour)
			}
		})
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	defer task.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("task never reached the third run")
		}
		time.Sleep(time.Millisecond)
	}

	time.Sleep(30 * time.Millisecond)
	before := runs.Load()
	time.Sleep(100 * time.Millisecond)
	if after := runs.Load(); after != before {
		t.Errorf("task kept running after backing itself off, %d extra runs", after-before)
	}
}
