package controllers

import (
	"context"

	"mfportal/src/models"
	"mfportal/src/policy"
	"mfportal/src/schemas"
	"mfportal/src/services"
)

type PortfolioControllerI interface {
	GetAllPortfolios(ctx context.Context) ([]schemas.PortfolioPosition, error)
	GetPortfolioByID(ctx context.Context, id uint) (*schemas.PortfolioPosition, error)
	GetPortfolioSummary(ctx context.Context) (*schemas.PortfolioSummary, error)
	GetPortfolioHistory(ctx context.Context) ([]models.PortfolioSnapshot, error)
}

var errPortfolioNotFound = services.NotFoundError(services.ReasonPortfolioNotFound, "Portfolio not found.")

func (c *Controller) GetAllPortfolios(ctx context.Context) ([]schemas.PortfolioPosition, error) {
	p, err := authorize(ctx, policy.ViewPortfolio, nil)
	if err != nil {
		return nil, err
	}
	return c.Valuation.ListPositions(ctx, scope(p))
}

func (c *Controller) GetPortfolioByID(ctx context.Context, id uint) (*schemas.PortfolioPosition, error) {
	p, err := authorize(ctx, policy.ViewPortfolio, nil)
	if err != nil {
		return nil, err
	}
	position, err := c.Valuation.GetPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwned(ctx, p, policy.ViewPortfolio, position.UserID, errPortfolioNotFound); err != nil {
		return nil, err
	}
	return position, nil
}

// GetPortfolioSummary is always the caller's own summary, admins included.
func (c *Controller) GetPortfolioSummary(ctx context.Context) (*schemas.PortfolioSummary, error) {
	p, err := authorize(ctx, policy.ViewPortfolio, nil)
	if err != nil {
		return nil, err
	}
	return c.Valuation.UserSummary(ctx, p.UserID)
}

func (c *Controller) GetPortfolioHistory(ctx context.Context) ([]models.PortfolioSnapshot, error) {
	p, err := authorize(ctx, policy.ViewSnapshots, nil)
	if err != nil {
		return nil, err
	}
	return c.Snapshots.History(ctx, p.UserID)
}
