package services

import (
	"context"
	"errors"

	"mfportal/src/models"
	"mfportal/src/repositories"
	"mfportal/src/schemas"
	"mfportal/src/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// UnitPlaces is the precision units are allotted with.
const UnitPlaces = 4

// AllotUnits converts amount into units at nav, truncated to UnitPlaces so a
// purchase never receives more units than it paid for.
func AllotUnits(amount, nav decimal.Decimal) decimal.Decimal {
	units, _ := amount.QuoRem(nav, UnitPlaces)
	return units
}

type PurchaseServiceI interface {
	Purchase(ctx context.Context, userID uint, req schemas.PurchaseRequest) (*schemas.PurchaseResponse, error)
}

type PurchaseService struct {
	store   repositories.LedgerStore
	minimum decimal.Decimal
}

func NewPurchaseService(store repositories.LedgerStore, minimum decimal.Decimal) *PurchaseService {
	return &PurchaseService{store: store, minimum: minimum}
}

// Purchase buys units of a scheme for userID. The account row stays locked
// from the balance check until the debit, the transaction and the portfolio
// change are committed together, so concurrent purchases of the same user
// run one after the other.
func (s *PurchaseService) Purchase(ctx context.Context, userID uint, req schemas.PurchaseRequest) (*schemas.PurchaseResponse, error) {
	logger := utils.LoggerFromContext(ctx).WithField("user_id", userID)

	valid, ferr := req.Validate(s.minimum)
	if ferr != nil {
		logger.WithField("reason", ferr.Reason).Info("purchase rejected")
		return nil, FromFieldError(ferr)
	}
	logger = logger.WithFields(logrus.Fields{"scheme_id": valid.SchemeID, "amount": valid.Amount.StringFixed(2)})

	var response *schemas.PurchaseResponse
	err := s.store.WithTx(ctx, func(tx repositories.LedgerTx) error {
		account, err := tx.GetBankAccountByUserForUpdate(ctx, userID)
		if errors.Is(err, repositories.ErrNotFound) {
			return NotFoundError(ReasonAccountNotFound, "Bank account not found. Please add a bank account first.")
		}
		if err != nil {
			return err
		}
		if account.Balance.LessThan(valid.Amount) {
			return InsufficientFundsError("Insufficient balance in bank account.")
		}

		scheme, err := tx.GetActiveScheme(ctx, valid.SchemeID)
		if errors.Is(err, repositories.ErrNotFound) {
			return NotFoundError(ReasonSchemeNotFound, "Mutual fund scheme not found or inactive.")
		}
		if err != nil {
			return err
		}

		nav := scheme.NAV
		units := AllotUnits(valid.Amount, nav)

		account.Balance = account.Balance.Sub(valid.Amount)
		if err := tx.UpdateBankAccountBalance(ctx, account); err != nil {
			return err
		}

		transaction := &models.MFTransaction{
			UserID:           userID,
			SchemeID:         scheme.ID,
			TransactionType:  models.TransactionBuy,
			Units:            units,
			NAVAtTransaction: nav,
			Amount:           valid.Amount,
		}
		if err := tx.CreateTransaction(ctx, transaction); err != nil {
			return err
		}

		position, err := tx.AddToPortfolio(ctx, userID, scheme.ID, units, valid.Amount)
		if err != nil {
			return err
		}

		response = &schemas.PurchaseResponse{
			Message:          "Purchase successful",
			UnitsAllotted:    units,
			RemainingBalance: account.Balance,
			Transaction:      *transaction,
			Portfolio: ValuePosition(models.PortfolioWithScheme{
				Portfolio:  *position,
				SchemeName: scheme.Name,
				SchemeCode: scheme.SchemeCode,
				CurrentNAV: nav,
			}),
		}
		return nil
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			logger.WithField("reason", svcErr.Reason).Info("purchase rejected")
			return nil, svcErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			logger.WithError(err).Warn("purchase timed out")
			return nil, err
		}
		logger.WithError(err).Error("purchase failed")
		return nil, InternalError(err)
	}

	logger.WithFields(logrus.Fields{
		"units":     response.UnitsAllotted.String(),
		"reference": response.Transaction.Reference.String(),
	}).Info("purchase completed")
	return response, nil
}
