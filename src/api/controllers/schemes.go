package controllers

import (
	"context"

	"mfportal/src/models"
	"mfportal/src/policy"
	"mfportal/src/schemas"
)

type SchemesControllerI interface {
	GetAllSchemes(ctx context.Context) ([]models.MutualFundScheme, error)
	GetSchemeByID(ctx context.Context, id uint) (*models.MutualFundScheme, error)
	CreateScheme(ctx context.Context, req schemas.CreateSchemeRequest) (*models.MutualFundScheme, error)
	UpdateScheme(ctx context.Context, id uint, req schemas.UpdateSchemeRequest) (*models.MutualFundScheme, error)
	UpdateSchemeNAV(ctx context.Context, id uint, req schemas.NAVUpdateRequest) (*models.MutualFundScheme, error)
	DeleteScheme(ctx context.Context, id uint) error
}

// GetAllSchemes hides inactive schemes from customers.
func (c *Controller) GetAllSchemes(ctx context.Context) ([]models.MutualFundScheme, error) {
	p, err := authorize(ctx, policy.ViewSchemes, nil)
	if err != nil {
		return nil, err
	}
	return c.Schemes.List(ctx, p.IsAdmin())
}

func (c *Controller) GetSchemeByID(ctx context.Context, id uint) (*models.MutualFundScheme, error) {
	p, err := authorize(ctx, policy.ViewSchemes, nil)
	if err != nil {
		return nil, err
	}
	return c.Schemes.Get(ctx, id, p.IsAdmin())
}

func (c *Controller) CreateScheme(ctx context.Context, req schemas.CreateSchemeRequest) (*models.MutualFundScheme, error) {
	if _, err := authorize(ctx, policy.ManageSchemes, nil); err != nil {
		return nil, err
	}
	return c.Schemes.Create(ctx, req)
}

func (c *Controller) UpdateScheme(ctx context.Context, id uint, req schemas.UpdateSchemeRequest) (*models.MutualFundScheme, error) {
	if _, err := authorize(ctx, policy.ManageSchemes, nil); err != nil {
		return nil, err
	}
	return c.Schemes.Update(ctx, id, req)
}

func (c *Controller) UpdateSchemeNAV(ctx context.Context, id uint, req schemas.NAVUpdateRequest) (*models.MutualFundScheme, error) {
	if _, err := authorize(ctx, policy.UpdateNAV, nil); err != nil {
		return nil, err
	}
	return c.Schemes.UpdateNAV(ctx, id, req)
}

func (c *Controller) DeleteScheme(ctx context.Context, id uint) error {
	if _, err := authorize(ctx, policy.ManageSchemes, nil); err != nil {
		return err
	}
	return c.Schemes.Delete(ctx, id)
}
