package services

import (
	"context"
	"errors"

	"mfportal/src/models"
	"mfportal/src/repositories"
	"mfportal/src/schemas"
	"mfportal/src/utils"

	"github.com/sirupsen/logrus"
)

type BankAccountServiceI interface {
	List(ctx context.Context, userID *uint) ([]models.BankAccount, error)
	Get(ctx context.Context, id uint) (*models.BankAccount, error)
	Create(ctx context.Context, userID uint, req schemas.CreateBankAccountRequest) (*models.BankAccount, error)
	UpdateDetails(ctx context.Context, id uint, req schemas.UpdateBankAccountRequest) (*models.BankAccount, error)
	UpdateBalance(ctx context.Context, id uint, req schemas.BalanceUpdateRequest) (*models.BankAccount, error)
}

type BankAccountService struct {
	accountRepo repositories.BankAccountRepository
	store       repositories.LedgerStore
}

func NewBankAccountService(accountRepo repositories.BankAccountRepository, store repositories.LedgerStore) *BankAccountService {
	return &BankAccountService{accountRepo: accountRepo, store: store}
}

func accountNotFound() *Error {
	return NotFoundError(ReasonAccountNotFound, "Bank account not found.")
}

// List returns the account of userID, or every account when userID is nil.
func (s *BankAccountService) List(ctx context.Context, userID *uint) ([]models.BankAccount, error) {
	if userID == nil {
		accounts, err := s.accountRepo.List(ctx)
		if err != nil {
			return nil, InternalError(err)
		}
		if accounts == nil {
			accounts = []models.BankAccount{}
		}
		return accounts, nil
	}
	account, err := s.accountRepo.GetByUserID(ctx, *userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return []models.BankAccount{}, nil
	}
	if err != nil {
		return nil, InternalError(err)
	}
	return []models.BankAccount{*account}, nil
}

func (s *BankAccountService) Get(ctx context.Context, id uint) (*models.BankAccount, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, accountNotFound()
	}
	if err != nil {
		return nil, InternalError(err)
	}
	return account, nil
}

// Create links a bank account to userID. A user holds at most one account.
func (s *BankAccountService) Create(ctx context.Context, userID uint, req schemas.CreateBankAccountRequest) (*models.BankAccount, error) {
	account, ferr := req.Validate()
	if ferr != nil {
		return nil, FromFieldError(ferr)
	}
	account.UserID = userID

	_, err := s.accountRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		return nil, ConflictError("You already have a bank account linked.")
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, InternalError(err)
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ConflictError("A bank account with this account number already exists.")
		}
		return nil, InternalError(err)
	}
	// reload for the owner's username
	return s.Get(ctx, account.ID)
}

func (s *BankAccountService) UpdateDetails(ctx context.Context, id uint, req schemas.UpdateBankAccountRequest) (*models.BankAccount, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ferr := req.ApplyTo(account); ferr != nil {
		return nil, FromFieldError(ferr)
	}
	if err := s.accountRepo.UpdateDetails(ctx, account); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, accountNotFound()
		case errors.Is(err, repositories.ErrConflict):
			return nil, ConflictError("A bank account with this account number already exists.")
		}
		return nil, InternalError(err)
	}
	return account, nil
}

// UpdateBalance deposits into (ADD) or overwrites (SET) the balance while
// holding the same row lock purchases take.
func (s *BankAccountService) UpdateBalance(ctx context.Context, id uint, req schemas.BalanceUpdateRequest) (*models.BankAccount, error) {
	logger := utils.LoggerFromContext(ctx).WithField("bank_account_id", id)

	update, ferr := req.Validate()
	if ferr != nil {
		return nil, FromFieldError(ferr)
	}

	var updated *models.BankAccount
	err := s.store.WithTx(ctx, func(tx repositories.LedgerTx) error {
		account, err := tx.GetBankAccountByIDForUpdate(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			return accountNotFound()
		}
		if err != nil {
			return err
		}
		switch update.Operation {
		case models.BalanceAdd:
			account.Balance = account.Balance.Add(update.Amount)
		case models.BalanceSet:
			account.Balance = update.Amount
		}
		if err := tx.UpdateBankAccountBalance(ctx, account); err != nil {
			return err
		}
		updated = account
		return nil
	})
	if err != nil {
		var svcErr *Error
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		logger.WithError(err).Error("balance update failed")
		return nil, InternalError(err)
	}

	logger.WithFields(logrus.Fields{
		"operation": update.Operation,
		"balance":   updated.Balance.StringFixed(2),
	}).Info("balance updated")
	return updated, nil
}
