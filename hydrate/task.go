package hydrate

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dailyyoga/cachekit/logger"
	"github.com/dailyyoga/cachekit/routine"
)

// TaskFunc is the body a background task invokes on each tick. The context
// is canceled on Stop; bodies that iterate over many items should check it
// between items so shutdown does not wait for a full pass.
type TaskFunc func(ctx context.Context)

// PollingTask invokes a task body at a fixed, adjustable interval from a
// dedicated background goroutine. The worker starts at construction and the
// interval wait is interruptible, so Stop never waits for a pending tick.
// An in-flight body call is not aborted; Stop blocks until it returns.
type PollingTask struct {
	logger   logger.Logger
	name     string
	interval atomic.Int64
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// NewPollingTask starts a worker that invokes body every interval
func NewPollingTask(log logger.Logger, name string, interval time.Duration, body TaskFunc) (*PollingTask, error) {
	if body == nil {
		return nil, ErrNilTask
	}
	t, err := newPollingTask(log, name, interval)
	if err != nil {
		return nil, err
	}
	t.start(body)
	return t, nil
}

func newPollingTask(log logger.Logger, name string, interval time.Duration) (*PollingTask, error) {
	if interval <= 0 {
		return nil, ErrInvalidConfig("interval must be positive")
	}
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &PollingTask{
		logger: log,
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	t.interval.Store(int64(interval))
	t.ctx = ctx
	return t, nil
}

func (t *PollingTask) start(body TaskFunc) {
	routine.GoNamed(t.logger, t.name, func() {
		defer close(t.done)
		t.run(body)
	})
}

func (t *PollingTask) run(body TaskFunc) {
	timer := time.NewTimer(t.currentInterval())
	defer timer.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-timer.C:
			body(t.ctx)
			timer.Reset(t.currentInterval())
		}
	}
}

func (t *PollingTask) currentInterval() time.Duration {
	return time.Duration(t.interval.Load())
}

// SetPollingRate updates the interval. It takes effect on the next wait; a
// wait already in progress completes at the old rate.
func (t *PollingTask) SetPollingRate(interval time.Duration) {
	if interval <= 0 {
		return
	}
	t.interval.Store(int64(interval))
}

// Stop cancels the worker, wakes a pending interval wait and joins the
// worker. Safe to call more than once. If the body is inside a data source
// call, Stop waits out that call's own latency.
func (t *PollingTask) Stop() {
	t.stopOnce.Do(func() {
		t.cancel()
		<-t.done
	})
}

// SelfUpdatingTaskFunc is a task body that can drive its own cadence
// through the supplied rate setter.
type SelfUpdatingTaskFunc func(ctx context.Context, setRate func(time.Duration))

// SelfUpdatingPollingTask is a PollingTask whose body adjusts the polling
// rate itself, for workloads that back off or speed up based on what a pass
// observed.
type SelfUpdatingPollingTask struct {
	*PollingTask
}

// NewSelfUpdatingPollingTask starts a worker that invokes body every
// interval, handing it the task's own rate setter.
func NewSelfUpdatingPollingTask(log logger.Logger, name string, interval time.Duration, body SelfUpdatingTaskFunc) (*SelfUpdatingPollingTask, error) {
	if body == nil {
		return nil, ErrNilTask
	}
	t, err := newPollingTask(log, name, interval)
	if err != nil {
		return nil, err
	}
	t.start(func(ctx context.Context) {
		body(ctx, t.SetPollingRate)
	})
	return &SelfUpdatingPollingTask{PollingTask: t}, nil
}
