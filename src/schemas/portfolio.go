package schemas

import (
	"time"

	"mfportal/src/models"

	"github.com/shopspring/decimal"
)

// PortfolioPosition is a holding valued at the live NAV of its scheme.
type PortfolioPosition struct {
	ID                   uint            `json:"id"`
	UserID               uint            `json:"user"`
	SchemeID             uint            `json:"scheme"`
	SchemeName           string          `json:"scheme_name"`
	SchemeCode           string          `json:"scheme_code"`
	Units                decimal.Decimal `json:"units"`
	InvestedAmount       decimal.Decimal `json:"invested_amount"`
	CurrentNAV           decimal.Decimal `json:"current_nav"`
	CurrentValue         decimal.Decimal `json:"current_value"`
	ProfitLoss           decimal.Decimal `json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal `json:"profit_loss_percentage"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

type PortfolioSummary struct {
	User              *models.User        `json:"user,omitempty"`
	Portfolios        []PortfolioPosition `json:"portfolios"`
	TotalInvested     decimal.Decimal     `json:"total_invested"`
	TotalCurrentValue decimal.Decimal     `json:"total_current_value"`
	TotalProfitLoss   decimal.Decimal     `json:"total_profit_loss"`
}
