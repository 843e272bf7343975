package controllers

import (
	"context"
	"sync"
	"time"

	"mfportal/src/config"
	"mfportal/src/scheduler"
	"mfportal/src/services"
	"mfportal/src/utils"

	"github.com/sirupsen/logrus"
)

const (
	JobNAVSync   = "nav_sync"
	JobSnapshots = "snapshots"
)

// jobTimeout bounds a single scheduled run.
const jobTimeout = 5 * time.Minute

type IController interface {
	RunNAVSync(ctx context.Context) (*services.NAVSyncResult, error)
	RunSnapshots(ctx context.Context, day time.Time) (*SnapshotRun, error)
}

type Controller struct {
	NAVSync        services.NAVSyncServiceI
	Snapshots      services.SnapshotServiceI
	Logger         logrus.FieldLogger
	SchedulerMutex sync.Mutex
	Schedulers     map[string]*scheduler.ScheduledTask
}

func NewController(navSync services.NAVSyncServiceI, snapshots services.SnapshotServiceI, logger logrus.FieldLogger) *Controller {
	return &Controller{
		NAVSync:        navSync,
		Snapshots:      snapshots,
		Logger:         logger,
		SchedulerMutex: sync.Mutex{},
		Schedulers:     map[string]*scheduler.ScheduledTask{},
	}
}

func (c *Controller) GetSchedulers() map[string]*scheduler.ScheduledTask {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()

	schedulers := make(map[string]*scheduler.ScheduledTask, len(c.Schedulers))
	for name, task := range c.Schedulers {
		schedulers[name] = task
	}
	return schedulers
}

// ScheduleJobs registers the periodic jobs configured for the worker. An empty
// cron expression leaves that job unscheduled.
func (c *Controller) ScheduleJobs(cfg config.WorkerConfig) error {
	if cfg.NAVSyncCron != "" {
		if err := c.ScheduleJob(JobNAVSync, cfg.NAVSyncCron, func(ctx context.Context) error {
			_, err := c.NAVSync.Sync(ctx)
			return err
		}); err != nil {
			return err
		}
	}
	if cfg.SnapshotCron != "" {
		if err := c.ScheduleJob(JobSnapshots, cfg.SnapshotCron, func(ctx context.Context) error {
			_, err := c.Snapshots.TakeSnapshots(ctx, time.Now().UTC())
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleJob handles the scheduling and re-scheduling of a named job.
func (c *Controller) ScheduleJob(name string, cronSpec string, job func(ctx context.Context) error) error {
	logger := c.Logger.WithField("job", name)

	// Cancel the existing schedule for this job
	c.SchedulerMutex.Lock()
	if existingTask, exists := c.Schedulers[name]; exists {
		existingTask.Cancel()
		delete(c.Schedulers, name)
	}
	c.SchedulerMutex.Unlock()

	newTask, err := scheduler.NewScheduledTask(cronSpec, func(taskCtx context.Context) {
		ctx, cancel := context.WithTimeout(taskCtx, jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job(utils.WithLogger(ctx, logger)); err != nil {
			logger.WithError(err).Error("scheduled job failed")
			return
		}
		logger.WithField("duration", time.Since(start).String()).Info("scheduled job finished")
	})
	if err != nil {
		return err
	}

	c.SchedulerMutex.Lock()
	c.Schedulers[name] = newTask
	c.SchedulerMutex.Unlock()

	logger.WithField("cron", cronSpec).Info("job scheduled")
	return nil
}

// StopJobs cancels every scheduled job and waits for runs in progress to
// return, so the stores they use can be closed afterwards.
func (c *Controller) StopJobs() {
	c.SchedulerMutex.Lock()
	tasks := make([]*scheduler.ScheduledTask, 0, len(c.Schedulers))
	for name, task := range c.Schedulers {
		tasks = append(tasks, task)
		delete(c.Schedulers, name)
	}
	c.SchedulerMutex.Unlock()

	for _, task := range tasks {
		task.Cancel()
	}
}
