package controllers_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"mfportal/src/config"
	"mfportal/src/models"
	"mfportal/src/policy"
	"mfportal/src/services"
	"mfportal/src/utils"
	"mfportal/src/worker/controllers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSync struct {
	runs chan struct{}
}

func (s *countingSync) Sync(ctx context.Context) (*services.NAVSyncResult, error) {
	select {
	case s.runs <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &services.NAVSyncResult{}, nil
}

// slowSync blocks until its context ends.
type slowSync struct {
	started chan struct{}
	done    atomic.Bool
}

func (s *slowSync) Sync(ctx context.Context) (*services.NAVSyncResult, error) {
	select {
	case s.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	s.done.Store(true)
	return nil, ctx.Err()
}

type noSnapshots struct{}

func (noSnapshots) TakeSnapshots(_ context.Context, _ time.Time) (int, error) { return 0, nil }

func (noSnapshots) History(_ context.Context, _ uint) ([]models.PortfolioSnapshot, error) {
	return nil, nil
}

func newController() (*controllers.Controller, *countingSync) {
	sync := &countingSync{runs: make(chan struct{}, 10)}
	return controllers.NewController(sync, noSnapshots{}, utils.NewDiscardLogger()), sync
}

func TestScheduleJobs(t *testing.T) {
	c, _ := newController()
	defer c.StopJobs()

	require.NoError(t, c.ScheduleJobs(config.WorkerConfig{NAVSyncCron: "0 22 * * *", SnapshotCron: "30 23 * * *"}))
	assert.Len(t, c.GetSchedulers(), 2)

	// rescheduling replaces the existing entry
	require.NoError(t, c.ScheduleJobs(config.WorkerConfig{NAVSyncCron: "0 21 * * *"}))
	assert.Len(t, c.GetSchedulers(), 2)

	c.StopJobs()
	assert.Empty(t, c.GetSchedulers())
}

func TestScheduleJobsSkipsEmptyCron(t *testing.T) {
	c, _ := newController()
	defer c.StopJobs()

	require.NoError(t, c.ScheduleJobs(config.WorkerConfig{SnapshotCron: "@daily"}))
	schedulers := c.GetSchedulers()
	assert.Len(t, schedulers, 1)
	assert.Contains(t, schedulers, controllers.JobSnapshots)
}

func TestScheduleJobInvalidCron(t *testing.T) {
	c, _ := newController()
	err := c.ScheduleJobs(config.WorkerConfig{NAVSyncCron: "every now and then"})
	assert.Error(t, err)
	assert.Empty(t, c.GetSchedulers())
}

func TestScheduledJobRuns(t *testing.T) {
	c, sync := newController()
	defer c.StopJobs()

	require.NoError(t, c.ScheduleJobs(config.WorkerConfig{NAVSyncCron: "@every 1s"}))
	select {
	case <-sync.runs:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled nav sync never ran")
	}
}

func TestStopJobsWaitsForRunningJob(t *testing.T) {
	nav := &slowSync{started: make(chan struct{}, 1)}
	c := controllers.NewController(nav, noSnapshots{}, utils.NewDiscardLogger())

	require.NoError(t, c.ScheduleJobs(config.WorkerConfig{NAVSyncCron: "@every 1s"}))
	select {
	case <-nav.started:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled nav sync never ran")
	}

	c.StopJobs()
	assert.True(t, nav.done.Load())
	assert.Empty(t, c.GetSchedulers())
}

func TestRunJobsRequiresAdmin(t *testing.T) {
	c, _ := newController()
	ctx := context.Background()

	_, err := c.RunNAVSync(ctx)
	assert.Error(t, err)

	customer := policy.WithPrincipal(ctx, policy.Principal{UserID: 2, Role: models.RoleCustomer})
	_, err = c.RunSnapshots(customer, time.Now())
	assert.Equal(t, services.KindForbidden, services.KindOf(err))

	admin := policy.WithPrincipal(ctx, policy.Principal{UserID: 1, Role: models.RoleAdmin})
	run, err := c.RunSnapshots(admin, time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2026-01-02", run.Date)
}
