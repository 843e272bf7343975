package controllers

import (
	"context"

	"mfportal/src/policy"
	"mfportal/src/services"
	"mfportal/src/utils"
)

type IController interface {
	UsersControllerI
	BankAccountsControllerI
	SchemesControllerI
	PurchasesControllerI
	PortfolioControllerI
	TransactionsControllerI
}

// Services groups what the API controller delegates to.
type Services struct {
	Users        services.UserServiceI
	BankAccounts services.BankAccountServiceI
	Schemes      services.SchemeServiceI
	Purchases    services.PurchaseServiceI
	Valuation    services.ValuationServiceI
	Transactions services.TransactionServiceI
	Snapshots    services.SnapshotServiceI
}

type Controller struct {
	Services
}

func NewController(svc Services) *Controller {
	return &Controller{Services: svc}
}

var errUnauthenticated = utils.Unauthorized("Authentication credentials were not provided.")

// authorize is the first step of every operation. owner is the user the
// target belongs to, nil for the caller's own collection.
func authorize(ctx context.Context, action policy.Action, owner *uint) (policy.Principal, error) {
	p, ok := policy.PrincipalFromContext(ctx)
	if !ok || p.UserID == 0 {
		return p, errUnauthenticated
	}
	decision := policy.Authorize(p, action, owner)
	if !decision.Allowed {
		utils.LoggerFromContext(ctx).
			WithField("action", action).
			WithField("reason", decision.Reason).
			Info("access denied")
		return p, services.ForbiddenError("You do not have permission to perform this action.")
	}
	return p, nil
}

// authorizeOwned checks access to a single loaded resource. Customers get
// notFound for resources of other users, the same answer as for resources
// that do not exist.
func authorizeOwned(ctx context.Context, p policy.Principal, action policy.Action, owner uint, notFound error) error {
	decision := policy.Authorize(p, action, &owner)
	if !decision.Allowed {
		utils.LoggerFromContext(ctx).
			WithField("action", action).
			WithField("reason", decision.Reason).
			Info("access denied")
		return notFound
	}
	return nil
}

// scope is the user filter for list operations: everyone for admins, the
// caller otherwise.
func scope(p policy.Principal) *uint {
	if p.IsAdmin() {
		return nil
	}
	id := p.UserID
	return &id
}
