package controllers

import (
	"context"

	"mfportal/src/models"
	"mfportal/src/policy"
	"mfportal/src/schemas"
	"mfportal/src/services"
)

type BankAccountsControllerI interface {
	GetAllBankAccounts(ctx context.Context) ([]models.BankAccount, error)
	GetBankAccountByID(ctx context.Context, id uint) (*models.BankAccount, error)
	CreateBankAccount(ctx context.Context, req schemas.CreateBankAccountRequest) (*models.BankAccount, error)
	UpdateBankAccount(ctx context.Context, id uint, req schemas.UpdateBankAccountRequest) (*models.BankAccount, error)
	UpdateBankAccountBalance(ctx context.Context, id uint, req schemas.BalanceUpdateRequest) (*models.BankAccount, error)
}

var errBankAccountNotFound = services.NotFoundError(services.ReasonAccountNotFound, "Bank account not found.")

func (c *Controller) GetAllBankAccounts(ctx context.Context) ([]models.BankAccount, error) {
	p, err := authorize(ctx, policy.ViewBankAccount, nil)
	if err != nil {
		return nil, err
	}
	return c.BankAccounts.List(ctx, scope(p))
}

func (c *Controller) GetBankAccountByID(ctx context.Context, id uint) (*models.BankAccount, error) {
	return c.ownedBankAccount(ctx, policy.ViewBankAccount, id)
}

// CreateBankAccount links a new account to the caller.
func (c *Controller) CreateBankAccount(ctx context.Context, req schemas.CreateBankAccountRequest) (*models.BankAccount, error) {
	p, err := authorize(ctx, policy.ManageBankAccount, nil)
	if err != nil {
		return nil, err
	}
	return c.BankAccounts.Create(ctx, p.UserID, req)
}

func (c *Controller) UpdateBankAccount(ctx context.Context, id uint, req schemas.UpdateBankAccountRequest) (*models.BankAccount, error) {
	if _, err := c.ownedBankAccount(ctx, policy.ManageBankAccount, id); err != nil {
		return nil, err
	}
	return c.BankAccounts.UpdateDetails(ctx, id, req)
}

func (c *Controller) UpdateBankAccountBalance(ctx context.Context, id uint, req schemas.BalanceUpdateRequest) (*models.BankAccount, error) {
	if _, err := c.ownedBankAccount(ctx, policy.UpdateBalance, id); err != nil {
		return nil, err
	}
	return c.BankAccounts.UpdateBalance(ctx, id, req)
}

func (c *Controller) ownedBankAccount(ctx context.Context, action policy.Action, id uint) (*models.BankAccount, error) {
	p, err := authorize(ctx, action, nil)
	if err != nil {
		return nil, err
	}
	account, err := c.BankAccounts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwned(ctx, p, action, account.UserID, errBankAccountNotFound); err != nil {
		return nil, err
	}
	return account, nil
}
