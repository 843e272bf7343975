package services

import (
	"context"
	"errors"

	"mfportal/src/models"
	"mfportal/src/repositories"
	"mfportal/src/schemas"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValuePosition marks a position to the live NAV of its scheme. The value and
// profit are exact (units * nav); only the percentage is rounded, to 2 places.
func ValuePosition(p models.PortfolioWithScheme) schemas.PortfolioPosition {
	current := p.Units.Mul(p.CurrentNAV)
	profit := current.Sub(p.InvestedAmount)
	percentage := decimal.Zero
	if p.InvestedAmount.IsPositive() {
		percentage = profit.Div(p.InvestedAmount).Mul(hundred).Round(2)
	}
	return schemas.PortfolioPosition{
		ID:                   p.ID,
		UserID:               p.UserID,
		SchemeID:             p.SchemeID,
		SchemeName:           p.SchemeName,
		SchemeCode:           p.SchemeCode,
		Units:                p.Units,
		InvestedAmount:       p.InvestedAmount,
		CurrentNAV:           p.CurrentNAV,
		CurrentValue:         current,
		ProfitLoss:           profit,
		ProfitLossPercentage: percentage,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// Summarize totals a user's positions from their exact values and rounds the
// totals to 2 decimal places once. No positions yields zero totals.
func Summarize(positions []models.PortfolioWithScheme) schemas.PortfolioSummary {
	summary := schemas.PortfolioSummary{
		Portfolios:        make([]schemas.PortfolioPosition, 0, len(positions)),
		TotalInvested:     decimal.Zero,
		TotalCurrentValue: decimal.Zero,
		TotalProfitLoss:   decimal.Zero,
	}
	for _, p := range positions {
		valued := ValuePosition(p)
		summary.Portfolios = append(summary.Portfolios, valued)
		summary.TotalInvested = summary.TotalInvested.Add(valued.InvestedAmount)
		summary.TotalCurrentValue = summary.TotalCurrentValue.Add(valued.CurrentValue)
	}
	summary.TotalCurrentValue = summary.TotalCurrentValue.Round(2)
	summary.TotalInvested = summary.TotalInvested.Round(2)
	summary.TotalProfitLoss = summary.TotalCurrentValue.Sub(summary.TotalInvested)
	return summary
}

type ValuationServiceI interface {
	ListPositions(ctx context.Context, userID *uint) ([]schemas.PortfolioPosition, error)
	GetPosition(ctx context.Context, id uint) (*schemas.PortfolioPosition, error)
	Summary(ctx context.Context, userID uint) (*schemas.PortfolioSummary, error)
	UserSummary(ctx context.Context, userID uint) (*schemas.PortfolioSummary, error)
}

type ValuationService struct {
	portfolioRepo repositories.PortfolioRepository
	userRepo      repositories.UserRepository
}

func NewValuationService(portfolioRepo repositories.PortfolioRepository, userRepo repositories.UserRepository) *ValuationService {
	return &ValuationService{portfolioRepo: portfolioRepo, userRepo: userRepo}
}

// ListPositions values the positions of one user, or of everyone when userID
// is nil.
func (s *ValuationService) ListPositions(ctx context.Context, userID *uint) ([]schemas.PortfolioPosition, error) {
	var (
		positions []models.PortfolioWithScheme
		err       error
	)
	if userID == nil {
		positions, err = s.portfolioRepo.List(ctx)
	} else {
		positions, err = s.portfolioRepo.ListByUser(ctx, *userID)
	}
	if err != nil {
		return nil, InternalError(err)
	}
	valued := make([]schemas.PortfolioPosition, 0, len(positions))
	for _, p := range positions {
		valued = append(valued, ValuePosition(p))
	}
	return valued, nil
}

func (s *ValuationService) GetPosition(ctx context.Context, id uint) (*schemas.PortfolioPosition, error) {
	p, err := s.portfolioRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundError(ReasonPortfolioNotFound, "Portfolio not found.")
	}
	if err != nil {
		return nil, InternalError(err)
	}
	valued := ValuePosition(*p)
	return &valued, nil
}

// Summary is the caller's own portfolio summary.
func (s *ValuationService) Summary(ctx context.Context, userID uint) (*schemas.PortfolioSummary, error) {
	positions, err := s.portfolioRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, InternalError(err)
	}
	summary := Summarize(positions)
	return &summary, nil
}

// UserSummary is the admin view of any user's portfolio, including the user.
func (s *ValuationService) UserSummary(ctx context.Context, userID uint) (*schemas.PortfolioSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundError(ReasonUserNotFound, "User not found.")
	}
	if err != nil {
		return nil, InternalError(err)
	}
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary.User = user
	return summary, nil
}
