package services

import (
	"context"

	"mfportal/src/clients/navfeed"
	"mfportal/src/repositories"
	"mfportal/src/utils"

	"github.com/sirupsen/logrus"
)

type NAVSyncResult struct {
	Schemes   int `json:"schemes"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Missing   int `json:"missing"`
	Failed    int `json:"failed"`
}

type NAVSyncServiceI interface {
	Sync(ctx context.Context) (*NAVSyncResult, error)
}

// NAVSyncService pulls the latest NAVs from the feed and applies them to the
// schemes whose scheme code appears in it.
type NAVSyncService struct {
	feed       navfeed.NAVFeedClientI
	schemeRepo repositories.SchemeRepository
	schemes    *SchemeService
}

func NewNAVSyncService(feed navfeed.NAVFeedClientI, schemeRepo repositories.SchemeRepository, schemes *SchemeService) *NAVSyncService {
	return &NAVSyncService{feed: feed, schemeRepo: schemeRepo, schemes: schemes}
}

func (s *NAVSyncService) Sync(ctx context.Context) (*NAVSyncResult, error) {
	logger := utils.LoggerFromContext(ctx)

	feed, err := s.feed.GetLatestNAVs(ctx)
	if err != nil {
		logger.WithError(err).Error("nav sync: feed unavailable")
		return nil, InternalError(err)
	}
	quotes := feed.ByCode()

	schemes, err := s.schemeRepo.List(ctx, false)
	if err != nil {
		return nil, InternalError(err)
	}

	result := &NAVSyncResult{Schemes: len(schemes)}
	for _, scheme := range schemes {
		quote, ok := quotes[scheme.SchemeCode]
		if !ok {
			result.Missing++
			continue
		}
		if quote.NAV.Equal(scheme.NAV) {
			result.Unchanged++
			continue
		}
		if _, err := s.schemes.SetNAV(ctx, scheme.ID, quote.NAV); err != nil {
			logger.WithError(err).WithField("scheme_code", scheme.SchemeCode).Error("nav sync: update failed")
			result.Failed++
			continue
		}
		result.Updated++
	}

	logger.WithFields(logrus.Fields{
		"schemes":      result.Schemes,
		"updated":      result.Updated,
		"missing":      result.Missing,
		"failed":       result.Failed,
		"feed_skipped": feed.Skipped,
	}).Info("nav sync finished")
	return result, nil
}
