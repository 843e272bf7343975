package services

import (
	"context"
	"errors"
	"fmt"

	"mfportal/src/models"
	"mfportal/src/repositories"

	"github.com/xuri/excelize/v2"
)

type TransactionServiceI interface {
	List(ctx context.Context, userID *uint) ([]models.TransactionWithDetails, error)
	Get(ctx context.Context, id uint) (*models.TransactionWithDetails, error)
	ExportXLSX(ctx context.Context, userID *uint) (*excelize.File, error)
}

type TransactionService struct {
	transactionRepo repositories.TransactionRepository
}

func NewTransactionService(transactionRepo repositories.TransactionRepository) *TransactionService {
	return &TransactionService{transactionRepo: transactionRepo}
}

// List returns the history of userID, or of everyone when userID is nil,
// newest first.
func (s *TransactionService) List(ctx context.Context, userID *uint) ([]models.TransactionWithDetails, error) {
	var (
		transactions []models.TransactionWithDetails
		err          error
	)
	if userID == nil {
		transactions, err = s.transactionRepo.List(ctx)
	} else {
		transactions, err = s.transactionRepo.ListByUser(ctx, *userID)
	}
	if err != nil {
		return nil, InternalError(err)
	}
	return transactions, nil
}

func (s *TransactionService) Get(ctx context.Context, id uint) (*models.TransactionWithDetails, error) {
	t, err := s.transactionRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, NotFoundError(ReasonTxNotFound, "Transaction not found.")
	}
	if err != nil {
		return nil, InternalError(err)
	}
	return t, nil
}

const transactionsSheet = "Transactions"

var transactionHeaders = []interface{}{
	"Date", "Reference", "User", "Scheme", "Type", "Units", "NAV", "Amount",
}

// ExportXLSX writes the same history List returns into a single sheet
// workbook. Decimals are written as text so no precision is lost.
func (s *TransactionService) ExportXLSX(ctx context.Context, userID *uint) (*excelize.File, error) {
	transactions, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, InternalError(err)
	}
	if err := f.SetSheetRow(transactionsSheet, "A1", &transactionHeaders); err != nil {
		return nil, InternalError(err)
	}

	for i, t := range transactions {
		row := []interface{}{
			t.TransactionDate.UTC().Format("2006-01-02 15:04:05"),
			t.Reference.String(),
			t.Username,
			t.SchemeName,
			string(t.TransactionType),
			t.Units.StringFixed(4),
			t.NAVAtTransaction.StringFixed(4),
			t.Amount.StringFixed(2),
		}
		if err := f.SetSheetRow(transactionsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, InternalError(err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return nil, InternalError(err)
	}
	if err := f.SetCellStyle(transactionsSheet, "A1", "H1", headerStyle); err != nil {
		return nil, InternalError(err)
	}
	if err := f.SetColWidth(transactionsSheet, "A", "H", 20); err != nil {
		return nil, InternalError(err)
	}
	return f, nil
}
