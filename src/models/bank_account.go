package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankAccount struct {
	ID            uint            `db:"id" json:"id"`
	UserID        uint            `db:"user_id" json:"user"`
	Username      string          `db:"username" json:"user_username"`
	AccountNumber string          `db:"account_number" json:"account_number"`
	IFSCCode      string          `db:"ifsc_code" json:"ifsc_code"`
	BankName      string          `db:"bank_name" json:"bank_name"`
	Balance       decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

type BalanceOperation string

const (
	BalanceAdd BalanceOperation = "ADD"
	BalanceSet BalanceOperation = "SET"
)
