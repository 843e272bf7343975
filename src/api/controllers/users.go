package controllers

import (
	"context"

	"mfportal/src/models"
	"mfportal/src/policy"
	"mfportal/src/schemas"
)

type UsersControllerI interface {
	GetCurrentUser(ctx context.Context) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	CreateUser(ctx context.Context, req schemas.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, id uint, req schemas.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id uint) error
	GetUserPortfolio(ctx context.Context, id uint) (*schemas.PortfolioSummary, error)
}

func (c *Controller) GetCurrentUser(ctx context.Context) (*models.User, error) {
	p, err := authorize(ctx, policy.ViewSelf, nil)
	if err != nil {
		return nil, err
	}
	return c.Users.Get(ctx, p.UserID)
}

func (c *Controller) GetAllUsers(ctx context.Context) ([]models.User, error) {
	if _, err := authorize(ctx, policy.ViewUsers, nil); err != nil {
		return nil, err
	}
	return c.Users.List(ctx)
}

func (c *Controller) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	if _, err := authorize(ctx, policy.ViewUsers, nil); err != nil {
		return nil, err
	}
	return c.Users.Get(ctx, id)
}

func (c *Controller) CreateUser(ctx context.Context, req schemas.CreateUserRequest) (*models.User, error) {
	if _, err := authorize(ctx, policy.ManageUsers, nil); err != nil {
		return nil, err
	}
	return c.Users.Create(ctx, req)
}

func (c *Controller) UpdateUser(ctx context.Context, id uint, req schemas.UpdateUserRequest) (*models.User, error) {
	if _, err := authorize(ctx, policy.ManageUsers, nil); err != nil {
		return nil, err
	}
	return c.Users.Update(ctx, id, req)
}

func (c *Controller) DeleteUser(ctx context.Context, id uint) error {
	if _, err := authorize(ctx, policy.ManageUsers, nil); err != nil {
		return err
	}
	return c.Users.Delete(ctx, id)
}

// GetUserPortfolio is the admin view of another user's holdings.
func (c *Controller) GetUserPortfolio(ctx context.Context, id uint) (*schemas.PortfolioSummary, error) {
	if _, err := authorize(ctx, policy.ViewUsers, nil); err != nil {
		return nil, err
	}
	return c.Valuation.UserSummary(ctx, id)
}
