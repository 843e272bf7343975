package controllers

import (
	"context"
	"time"

	"mfportal/src/policy"
	"mfportal/src/services"
	"mfportal/src/utils"
)

type SnapshotRun struct {
	Date      string `json:"date"`
	Snapshots int    `json:"snapshots"`
}

var errUnauthenticated = utils.Unauthorized("Authentication credentials were not provided.")

func authorizeJobs(ctx context.Context) error {
	p, ok := policy.PrincipalFromContext(ctx)
	if !ok || p.UserID == 0 {
		return errUnauthenticated
	}
	if decision := policy.Authorize(p, policy.RunJobs, nil); !decision.Allowed {
		utils.LoggerFromContext(ctx).WithField("reason", decision.Reason).Info("access denied")
		return services.ForbiddenError("You do not have permission to perform this action.")
	}
	return nil
}

// RunNAVSync pulls the NAV feed now instead of waiting for the schedule.
func (c *Controller) RunNAVSync(ctx context.Context) (*services.NAVSyncResult, error) {
	if err := authorizeJobs(ctx); err != nil {
		return nil, err
	}
	return c.NAVSync.Sync(ctx)
}

// RunSnapshots records the portfolio snapshots of day. Running it twice for
// the same day overwrites the earlier values.
func (c *Controller) RunSnapshots(ctx context.Context, day time.Time) (*SnapshotRun, error) {
	if err := authorizeJobs(ctx); err != nil {
		return nil, err
	}
	count, err := c.Snapshots.TakeSnapshots(ctx, day)
	if err != nil {
		return nil, err
	}
	return &SnapshotRun{Date: day.UTC().Format(time.DateOnly), Snapshots: count}, nil
}
