package controllers

import (
	"context"

	"mfportal/src/policy"
	"mfportal/src/schemas"
)

type PurchasesControllerI interface {
	PurchaseMutualFund(ctx context.Context, req schemas.PurchaseRequest) (*schemas.PurchaseResponse, error)
}

// PurchaseMutualFund buys for the caller, always against the caller's own
// bank account.
func (c *Controller) PurchaseMutualFund(ctx context.Context, req schemas.PurchaseRequest) (*schemas.PurchaseResponse, error) {
	p, ok := policy.PrincipalFromContext(ctx)
	if !ok {
		return nil, errUnauthenticated
	}
	if _, err := authorize(ctx, policy.Purchase, policy.Owner(p.UserID)); err != nil {
		return nil, err
	}
	return c.Purchases.Purchase(ctx, p.UserID, req)
}
