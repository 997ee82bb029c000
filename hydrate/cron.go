package hydrate

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/dailyyoga/cachekit/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronTask invokes a task body on a cron schedule instead of a fixed
// interval, for deployments whose refresh cadence is calendar-based. It
// keeps the PollingTask contract: the schedule starts at construction, the
// body's context is canceled on Stop, and Stop joins any running
// invocation.
//
// The spec follows the standard cron format with a seconds field (6
// fields), e.g. "0 */5 * * * *" for every five minutes.
type CronTask struct {
	logger   logger.Logger
	name     string
	cron     *cron.Cron
	cancel   context.CancelFunc
	stopOnce sync.Once
}

// NewCronTask schedules body per spec and starts the scheduler
func NewCronTask(log logger.Logger, name, spec string, body TaskFunc) (*CronTask, error) {
	if body == nil {
		return nil, ErrNilTask
	}
	if log == nil {
		log = logger.Nop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &CronTask{
		logger: log,
		name:   name,
		cron:   cron.New(cron.WithSeconds()),
		cancel: cancel,
	}

	_, err := t.cron.AddFunc(spec, func() {
		if ctx.Err() != nil {
			return
		}
		defer t.recover()
		body(ctx)
	})
	if err != nil {
		cancel()
		return nil, ErrInvalidSchedule(err)
	}

	t.cron.Start()
	log.Info("refresh scheduled",
		zap.String("task", name),
		zap.String("spec", spec),
	)
	return t, nil
}

// Stop cancels the body's context, stops the scheduler and waits for any
// running invocation to complete. Safe to call more than once.
func (t *CronTask) Stop() {
	t.stopOnce.Do(func() {
		t.cancel()
		<-t.cron.Stop().Done()
	})
}

func (t *CronTask) recover() {
	if rec := recover(); rec != nil {
		t.logger.Error("scheduled task panicked",
			zap.String("task", t.name),
			zap.Any("panic", rec),
			zap.String("stack", string(debug.Stack())),
		)
	}
}
