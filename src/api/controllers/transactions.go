package controllers

import (
	"context"

	"mfportal/src/models"
	"mfportal/src/policy"
	"mfportal/src/services"

	"github.com/xuri/excelize/v2"
)

type TransactionsControllerI interface {
	GetAllTransactions(ctx context.Context) ([]models.TransactionWithDetails, error)
	GetTransactionByID(ctx context.Context, id uint) (*models.TransactionWithDetails, error)
	ExportTransactions(ctx context.Context) (*excelize.File, error)
}

var errTransactionNotFound = services.NotFoundError(services.ReasonTxNotFound, "Transaction not found.")

func (c *Controller) GetAllTransactions(ctx context.Context) ([]models.TransactionWithDetails, error) {
	p, err := authorize(ctx, policy.ViewTransactions, nil)
	if err != nil {
		return nil, err
	}
	return c.Transactions.List(ctx, scope(p))
}

func (c *Controller) GetTransactionByID(ctx context.Context, id uint) (*models.TransactionWithDetails, error) {
	p, err := authorize(ctx, policy.ViewTransactions, nil)
	if err != nil {
		return nil, err
	}
	transaction, err := c.Transactions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwned(ctx, p, policy.ViewTransactions, transaction.UserID, errTransactionNotFound); err != nil {
		return nil, err
	}
	return transaction, nil
}

// ExportTransactions returns the history visible to the caller as a workbook.
func (c *Controller) ExportTransactions(ctx context.Context) (*excelize.File, error) {
	p, err := authorize(ctx, policy.ExportTransactions, nil)
	if err != nil {
		return nil, err
	}
	return c.Transactions.ExportXLSX(ctx, scope(p))
}
