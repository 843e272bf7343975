package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MutualFundScheme struct {
	ID          uint            `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	SchemeCode  string          `db:"scheme_code" json:"scheme_code"`
	Description string          `db:"description" json:"description"`
	Category    string          `db:"category" json:"category"`
	NAV         decimal.Decimal `db:"nav" json:"nav"`
	IsActive    bool            `db:"is_active" json:"is_active"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
