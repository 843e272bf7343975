package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"mfportal/src/models"
	"mfportal/src/repositories/memory"
	"mfportal/src/schemas"
	"mfportal/src/services"
	"mfportal/src/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var minimum = decimal.RequireFromString("100.00")

func testContext() context.Context {
	return utils.WithLogger(context.Background(), utils.NewDiscardLogger())
}

type fixture struct {
	store     *memory.Store
	purchases *services.PurchaseService
	schemes   *services.SchemeService
	valuation *services.ValuationService
	user      *models.User
	account   *models.BankAccount
	scheme    *models.MutualFundScheme
}

// newFixture seeds one customer with a bank account holding balance and one
// active scheme priced at nav.
func newFixture(t *testing.T, balance, nav string) *fixture {
	t.Helper()
	ctx := testContext()
	store := memory.NewStore()

	user := &models.User{Username: "meera", Email: "meera@example.com", Role: models.RoleCustomer}
	require.NoError(t, store.Users().Create(ctx, user))

	account := &models.BankAccount{
		UserID:        user.ID,
		AccountNumber: "50100012345678",
		IFSCCode:      "HDFC0000123",
		BankName:      "HDFC Bank",
		Balance:       decimal.RequireFromString(balance),
	}
	require.NoError(t, store.BankAccounts().Create(ctx, account))

	scheme := &models.MutualFundScheme{
		Name:       "Axis Bluechip Fund",
		SchemeCode: "120466",
		Category:   "Equity",
		NAV:        decimal.RequireFromString(nav),
		IsActive:   true,
	}
	require.NoError(t, store.Schemes().Create(ctx, scheme))

	return &fixture{
		store:     store,
		purchases: services.NewPurchaseService(store, minimum),
		schemes:   services.NewSchemeService(store.Schemes(), services.NewLocalSchemeCache(0)),
		valuation: services.NewValuationService(store.Portfolios(), store.Users()),
		user:      user,
		account:   account,
		scheme:    scheme,
	}
}

func (f *fixture) addScheme(t *testing.T, name, code, nav string, active bool) *models.MutualFundScheme {
	t.Helper()
	scheme := &models.MutualFundScheme{
		Name:       name,
		SchemeCode: code,
		NAV:        decimal.RequireFromString(nav),
		IsActive:   active,
	}
	require.NoError(t, f.store.Schemes().Create(testContext(), scheme))
	return scheme
}

func (f *fixture) balance(t *testing.T) decimal.Decimal {
	t.Helper()
	account, err := f.store.BankAccounts().GetByID(testContext(), f.account.ID)
	require.NoError(t, err)
	return account.Balance
}

func (f *fixture) transactions(t *testing.T) []models.TransactionWithDetails {
	t.Helper()
	transactions, err := f.store.Transactions().ListByUser(testContext(), f.user.ID)
	require.NoError(t, err)
	return transactions
}

func (f *fixture) positions(t *testing.T) []models.PortfolioWithScheme {
	t.Helper()
	positions, err := f.store.Portfolios().ListByUser(testContext(), f.user.ID)
	require.NoError(t, err)
	return positions
}

func purchaseRequest(t *testing.T, schemeID uint, amount string) schemas.PurchaseRequest {
	t.Helper()
	var req schemas.PurchaseRequest
	body := `{"scheme_id": ` + decimal.NewFromInt(int64(schemeID)).String() + `, "amount": "` + amount + `"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func requireKind(t *testing.T, err error, kind services.ErrorKind, reason string) {
	t.Helper()
	require.Error(t, err)
	var svcErr *services.Error
	require.True(t, errors.As(err, &svcErr), "expected a service error, got %v", err)
	require.Equal(t, kind, svcErr.Kind)
	if reason != "" {
		require.Equal(t, reason, svcErr.Reason)
	}
}
