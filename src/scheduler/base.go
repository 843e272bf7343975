package scheduler

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
)

// ScheduledTask runs a job on its own cron runner. A tick that fires while the
// previous run is still going is skipped.
type ScheduledTask struct {
	cronID cron.EntryID
	cron   *cron.Cron
	cancel context.CancelFunc

	stopOnce sync.Once
	stopped  context.Context
}

// NewScheduledTask starts the runner. The context passed to taskFunc is
// cancelled once the task is stopped.
func NewScheduledTask(cronSpec string, taskFunc func(ctx context.Context)) (*ScheduledTask, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	ctx, cancel := context.WithCancel(context.Background())
	task := &ScheduledTask{
		cron:   c,
		cancel: cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		if ctx.Err() != nil {
			return
		}
		taskFunc(ctx)
	})
	if err != nil {
		cancel()
		return nil, err
	}

	task.cronID = id
	c.Start()
	return task, nil
}

// Stop removes the schedule, shuts the runner down and cancels the context of
// a run in progress. It then waits for that run to return or for ctx to end.
// Calling it again only waits.
func (s *ScheduledTask) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.cron.Remove(s.cronID)
		s.cancel()
		s.stopped = s.cron.Stop()
	})

	select {
	case <-s.stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel stops the task and blocks until a run in progress has returned.
func (s *ScheduledTask) Cancel() {
	_ = s.Stop(context.Background())
}
