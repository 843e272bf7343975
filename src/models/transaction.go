package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// MFTransaction is append-only. NAVAtTransaction is the price the units were
// computed with and never follows later NAV updates.
type MFTransaction struct {
	ID               uint            `db:"id" json:"id"`
	Reference        uuid.UUID       `db:"reference" json:"reference"`
	UserID           uint            `db:"user_id" json:"user"`
	SchemeID         uint            `db:"scheme_id" json:"scheme"`
	TransactionType  TransactionType `db:"transaction_type" json:"transaction_type"`
	Units            decimal.Decimal `db:"units" json:"units"`
	NAVAtTransaction decimal.Decimal `db:"nav_at_transaction" json:"nav_at_transaction"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	TransactionDate  time.Time       `db:"transaction_date" json:"transaction_date"`
}

type TransactionWithDetails struct {
	MFTransaction
	Username   string `db:"username" json:"user_username"`
	SchemeName string `db:"scheme_name" json:"scheme_name"`
}
