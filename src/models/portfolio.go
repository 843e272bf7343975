package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Portfolio struct {
	ID             uint            `db:"id"`
	UserID         uint            `db:"user_id"`
	SchemeID       uint            `db:"scheme_id"`
	Units          decimal.Decimal `db:"units"`
	InvestedAmount decimal.Decimal `db:"invested_amount"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// PortfolioWithScheme is a position joined with the live state of its scheme.
type PortfolioWithScheme struct {
	Portfolio
	SchemeName string          `db:"scheme_name"`
	SchemeCode string          `db:"scheme_code"`
	CurrentNAV decimal.Decimal `db:"current_nav"`
}

type PortfolioSnapshot struct {
	ID                uint            `db:"id" json:"id"`
	UserID            uint            `db:"user_id" json:"user"`
	SnapshotDate      time.Time       `db:"snapshot_date" json:"snapshot_date"`
	TotalInvested     decimal.Decimal `db:"total_invested" json:"total_invested"`
	TotalCurrentValue decimal.Decimal `db:"total_current_value" json:"total_current_value"`
	TotalProfitLoss   decimal.Decimal `db:"total_profit_loss" json:"total_profit_loss"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
}
