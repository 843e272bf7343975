package services

import (
	"context"
	"time"

	"mfportal/src/models"
	"mfportal/src/repositories"
	"mfportal/src/utils"
)

type SnapshotServiceI interface {
	TakeSnapshots(ctx context.Context, day time.Time) (int, error)
	History(ctx context.Context, userID uint) ([]models.PortfolioSnapshot, error)
}

// SnapshotService records one valuation per user and day, which is what the
// portfolio history endpoint serves.
type SnapshotService struct {
	portfolioRepo repositories.PortfolioRepository
	snapshotRepo  repositories.SnapshotRepository
}

func NewSnapshotService(portfolioRepo repositories.PortfolioRepository, snapshotRepo repositories.SnapshotRepository) *SnapshotService {
	return &SnapshotService{portfolioRepo: portfolioRepo, snapshotRepo: snapshotRepo}
}

// TakeSnapshots values every user holding positions at the current NAVs and
// stores the totals under day. It returns how many snapshots were written.
// A failure for one user is logged and does not stop the others.
func (s *SnapshotService) TakeSnapshots(ctx context.Context, day time.Time) (int, error) {
	logger := utils.LoggerFromContext(ctx)
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	userIDs, err := s.portfolioRepo.ListUserIDs(ctx)
	if err != nil {
		return 0, InternalError(err)
	}

	written := 0
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		positions, err := s.portfolioRepo.ListByUser(ctx, userID)
		if err != nil {
			logger.WithError(err).WithField("user_id", userID).Error("snapshot: listing positions failed")
			continue
		}
		summary := Summarize(positions)
		snapshot := &models.PortfolioSnapshot{
			UserID:            userID,
			SnapshotDate:      date,
			TotalInvested:     summary.TotalInvested,
			TotalCurrentValue: summary.TotalCurrentValue,
			TotalProfitLoss:   summary.TotalProfitLoss,
		}
		if err := s.snapshotRepo.Upsert(ctx, snapshot); err != nil {
			logger.WithError(err).WithField("user_id", userID).Error("snapshot: upsert failed")
			continue
		}
		written++
	}
	logger.WithField("snapshots", written).WithField("date", date.Format("2006-01-02")).Info("portfolio snapshots taken")
	return written, nil
}

func (s *SnapshotService) History(ctx context.Context, userID uint) ([]models.PortfolioSnapshot, error) {
	snapshots, err := s.snapshotRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, InternalError(err)
	}
	return snapshots, nil
}
