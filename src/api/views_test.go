package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"mfportal/src/api"
	"mfportal/src/api/controllers"
	"mfportal/src/api/handlers"
	"mfportal/src/middleware"
	"mfportal/src/models"
	"mfportal/src/repositories/memory"
	"mfportal/src/services"
	"mfportal/src/utils"

	"github.com/go-chi/jwtauth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const secret = "test-secret"

type testAPI struct {
	server    *api.Server
	store     *memory.Store
	tokenAuth *jwtauth.JWTAuth

	admin, customer, other *models.User
	customerAccount        *models.BankAccount
	otherAccount           *models.BankAccount
	active, inactive       *models.MutualFundScheme
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	ta := &testAPI{store: store, tokenAuth: middleware.NewTokenAuth(secret)}

	ta.admin = &models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin}
	ta.customer = &models.User{Username: "meera", Email: "meera@example.com", Role: models.RoleCustomer}
	ta.other = &models.User{Username: "arjun", Email: "arjun@example.com", Role: models.RoleCustomer}
	for _, u := range []*models.User{ta.admin, ta.customer, ta.other} {
		require.NoError(t, store.Users().Create(ctx, u))
	}

	ta.customerAccount = &models.BankAccount{UserID: ta.customer.ID, AccountNumber: "100", IFSCCode: "HDFC0000123", BankName: "HDFC", Balance: decimal.RequireFromString("1500.00")}
	ta.otherAccount = &models.BankAccount{UserID: ta.other.ID, AccountNumber: "200", IFSCCode: "SBIN0000001", BankName: "SBI", Balance: decimal.RequireFromString("10.00")}
	require.NoError(t, store.BankAccounts().Create(ctx, ta.customerAccount))
	require.NoError(t, store.BankAccounts().Create(ctx, ta.otherAccount))

	ta.active = &models.MutualFundScheme{Name: "Axis Bluechip Fund", SchemeCode: "120466", Category: "Equity", NAV: decimal.RequireFromString("23.1550"), IsActive: true}
	ta.inactive = &models.MutualFundScheme{Name: "Closed Fund", SchemeCode: "999001", Category: "Debt", NAV: decimal.RequireFromString("12"), IsActive: false}
	require.NoError(t, store.Schemes().Create(ctx, ta.active))
	require.NoError(t, store.Schemes().Create(ctx, ta.inactive))

	cache := services.NewLocalSchemeCache(0)
	controller := controllers.NewController(controllers.Services{
		Users:        services.NewUserService(store.Users()),
		BankAccounts: services.NewBankAccountService(store.BankAccounts(), store),
		Schemes:      services.NewSchemeService(store.Schemes(), cache),
		Purchases:    services.NewPurchaseService(store, decimal.RequireFromString("100.00")),
		Valuation:    services.NewValuationService(store.Portfolios(), store.Users()),
		Transactions: services.NewTransactionService(store.Transactions()),
		Snapshots:    services.NewSnapshotService(store.Portfolios(), store.Snapshots()),
	})
	ta.server = api.NewServerWithHandler(handlers.NewHandlerWithController(controller), ta.tokenAuth, utils.NewDiscardLogger())
	return ta
}

func (ta *testAPI) do(t *testing.T, user *models.User, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if user != nil {
		token, err := middleware.IssueToken(ta.tokenAuth, user.ID, user.Role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ta.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, code, body["code"])
	assert.NotEmpty(t, body["error"])
}

func TestHealthcheck(t *testing.T) {
	ta := newTestAPI(t)
	rec := ta.do(t, nil, http.MethodGet, "/alive", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Im alive!", rec.Body.String())
}

func TestRequiresToken(t *testing.T) {
	ta := newTestAPI(t)
	rec := ta.do(t, nil, http.MethodGet, "/api/mutual-funds", "")
	assertError(t, rec, http.StatusUnauthorized, "unauthorized")
}

func TestPurchaseEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ta := newTestAPI(t)
		rec := ta.do(t, ta.customer, http.MethodPost, "/api/mutual-funds/purchase/",
			`{"scheme_id": 1, "amount": "1000.00"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		assert.Equal(t, "Purchase successful", body["message"])
		assert.Equal(t, "43.1872", body["units_allotted"])
		assert.Equal(t, "500", body["remaining_balance"])

		transaction := body["transaction"].(map[string]interface{})
		assert.Equal(t, "BUY", transaction["transaction_type"])
		assert.Equal(t, "23.155", transaction["nav_at_transaction"])
		assert.NotEmpty(t, transaction["reference"])

		portfolio := body["portfolio"].(map[string]interface{})
		assert.Equal(t, "43.1872", portfolio["units"])
		assert.Equal(t, "999.999616", portfolio["current_value"])
		assert.Equal(t, "-0.000384", portfolio["profit_loss"])
		assert.Equal(t, "Axis Bluechip Fund", portfolio["scheme_name"])
	})

	t.Run("numeric amount is accepted", func(t *testing.T) {
		ta := newTestAPI(t)
		rec := ta.do(t, ta.customer, http.MethodPost, "/api/mutual-funds/purchase", `{"scheme_id": 1, "amount": 250}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"below minimum", `{"scheme_id": 1, "amount": "50.00"}`, http.StatusBadRequest, services.ReasonAmountBelowMinimum},
		{"too many decimals", `{"scheme_id": 1, "amount": "150.001"}`, http.StatusBadRequest, services.ReasonInvalidAmount},
		{"missing scheme", `{"amount": "150.00"}`, http.StatusBadRequest, services.ReasonInvalidRequest},
		{"malformed body", `{"scheme_id": `, http.StatusBadRequest, services.ReasonInvalidRequest},
		{"insufficient funds", `{"scheme_id": 1, "amount": "1500.01"}`, http.StatusBadRequest, services.ReasonInsufficientFunds},
		{"inactive scheme", `{"scheme_id": 2, "amount": "150.00"}`, http.StatusNotFound, services.ReasonSchemeNotFound},
		{"unknown scheme", `{"scheme_id": 99, "amount": "150.00"}`, http.StatusNotFound, services.ReasonSchemeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestAPI(t)
			rec := ta.do(t, ta.customer, http.MethodPost, "/api/mutual-funds/purchase/", tt.body)
			assertError(t, rec, tt.status, tt.code)

			account, err := ta.store.BankAccounts().GetByID(context.Background(), ta.customerAccount.ID)
			require.NoError(t, err)
			assert.Equal(t, "1500", account.Balance.String())
		})
	}

	t.Run("caller without bank account", func(t *testing.T) {
		ta := newTestAPI(t)
		rec := ta.do(t, ta.admin, http.MethodPost, "/api/mutual-funds/purchase/", `{"scheme_id": 1, "amount": "150.00"}`)
		assertError(t, rec, http.StatusNotFound, services.ReasonAccountNotFound)
	})

	t.Run("store failure is a generic 500", func(t *testing.T) {
		ta := newTestAPI(t)
		ta.store.FailOn(memory.OpAddToPortfolio, errors.New("pq: relation does not exist"))
		rec := ta.do(t, ta.customer, http.MethodPost, "/api/mutual-funds/purchase/", `{"scheme_id": 1, "amount": "150.00"}`)
		assertError(t, rec, http.StatusInternalServerError, services.ReasonInternal)
		assert.NotContains(t, rec.Body.String(), "relation")
	})
}

func TestSchemeEndpoints(t *testing.T) {
	ta := newTestAPI(t)

	t.Run("customers see active schemes only", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodGet, "/api/mutual-funds/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var schemes []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schemes))
		require.Len(t, schemes, 1)
		assert.Equal(t, "120466", schemes[0]["scheme_code"])

		rec = ta.do(t, ta.customer, http.MethodGet, "/api/mutual-funds/2", "")
		assertError(t, rec, http.StatusNotFound, services.ReasonSchemeNotFound)
	})

	t.Run("admins see everything", func(t *testing.T) {
		rec := ta.do(t, ta.admin, http.MethodGet, "/api/mutual-funds", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var schemes []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schemes))
		assert.Len(t, schemes, 2)
	})

	t.Run("only admins update nav", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodPost, "/api/mutual-funds/1/update_nav", `{"nav": "30.00"}`)
		assertError(t, rec, http.StatusForbidden, services.ReasonForbidden)

		rec = ta.do(t, ta.admin, http.MethodPost, "/api/mutual-funds/1/update_nav", `{"nav": "30.00"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "30", decodeBody(t, rec)["nav"])

		rec = ta.do(t, ta.admin, http.MethodPost, "/api/mutual-funds/1/update_nav", `{"nav": "0"}`)
		assertError(t, rec, http.StatusBadRequest, services.ReasonInvalidNAV)
	})

	t.Run("only admins manage schemes", func(t *testing.T) {
		body := `{"name": "Gilt Fund", "scheme_code": "118989", "category": "Debt", "nav": "41.20"}`
		rec := ta.do(t, ta.customer, http.MethodPost, "/api/mutual-funds", body)
		assertError(t, rec, http.StatusForbidden, services.ReasonForbidden)

		rec = ta.do(t, ta.admin, http.MethodPost, "/api/mutual-funds", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = ta.do(t, ta.admin, http.MethodPost, "/api/mutual-funds", body)
		assertError(t, rec, http.StatusBadRequest, services.ReasonAlreadyExists)

		rec = ta.do(t, ta.customer, http.MethodDelete, "/api/mutual-funds/2", "")
		assertError(t, rec, http.StatusForbidden, services.ReasonForbidden)

		rec = ta.do(t, ta.admin, http.MethodDelete, "/api/mutual-funds/2", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestBankAccountEndpoints(t *testing.T) {
	ta := newTestAPI(t)

	t.Run("customers only see their own account", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodGet, "/api/bank-accounts", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var accounts []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
		require.Len(t, accounts, 1)
		assert.Equal(t, "meera", accounts[0]["user_username"])

		rec = ta.do(t, ta.customer, http.MethodGet, "/api/bank-accounts/2", "")
		assertError(t, rec, http.StatusNotFound, services.ReasonAccountNotFound)

		rec = ta.do(t, ta.customer, http.MethodPost, "/api/bank-accounts/2/update_balance", `{"amount": "1000", "operation": "SET"}`)
		assertError(t, rec, http.StatusNotFound, services.ReasonAccountNotFound)
	})

	t.Run("admins see every account", func(t *testing.T) {
		rec := ta.do(t, ta.admin, http.MethodGet, "/api/bank-accounts/2", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", decodeBody(t, rec)["balance"])
	})

	t.Run("deposit", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodPost, "/api/bank-accounts/1/update_balance", `{"amount": "250.50", "operation": "ADD"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "1750.5", decodeBody(t, rec)["balance"])
	})

	t.Run("second account is refused", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodPost, "/api/bank-accounts", `{"account_number": "300", "ifsc_code": "ICIC0000001", "bank_name": "ICICI"}`)
		assertError(t, rec, http.StatusBadRequest, services.ReasonAlreadyExists)
	})

	t.Run("admin links an account", func(t *testing.T) {
		rec := ta.do(t, ta.admin, http.MethodPost, "/api/bank-accounts", `{"account_number": "400", "ifsc_code": "ICIC0000001", "bank_name": "ICICI", "balance": "5000"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "admin", decodeBody(t, rec)["user_username"])
	})

	t.Run("bad id", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodGet, "/api/bank-accounts/abc", "")
		assertError(t, rec, http.StatusNotFound, "not_found")
	})
}

func TestUserEndpoints(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.do(t, ta.customer, http.MethodGet, "/api/auth/me", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "meera", decodeBody(t, rec)["username"])

	rec = ta.do(t, ta.customer, http.MethodGet, "/api/users", "")
	assertError(t, rec, http.StatusForbidden, services.ReasonForbidden)

	rec = ta.do(t, ta.admin, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 3)

	rec = ta.do(t, ta.admin, http.MethodPost, "/api/users", `{"username": "kiran", "email": "kiran@example.com", "first_name": "Kiran", "last_name": "Rao"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "CUSTOMER", decodeBody(t, rec)["role"])

	rec = ta.do(t, ta.admin, http.MethodGet, "/api/users/2/portfolio", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody(t, rec)
	assert.Equal(t, "0", summary["total_invested"])
	assert.Equal(t, "meera", summary["user"].(map[string]interface{})["username"])

	rec = ta.do(t, ta.admin, http.MethodDelete, "/api/users/3", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ta.do(t, ta.admin, http.MethodGet, "/api/users/3", "")
	assertError(t, rec, http.StatusNotFound, services.ReasonUserNotFound)
}

func TestPortfolioAndTransactionEndpoints(t *testing.T) {
	ta := newTestAPI(t)

	t.Run("empty summary", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodGet, "/api/portfolio/summary", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "0", body["total_invested"])
		assert.Equal(t, "0", body["total_current_value"])
		assert.Equal(t, "0", body["total_profit_loss"])
		assert.Empty(t, body["portfolios"])
	})

	rec := ta.do(t, ta.customer, http.MethodPost, "/api/mutual-funds/purchase/", `{"scheme_id": 1, "amount": "1000.00"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	t.Run("summary after purchase", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodGet, "/api/portfolio/summary", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "1000", body["total_invested"])
		assert.Equal(t, "1000", body["total_current_value"])
		assert.Equal(t, "0", body["total_profit_loss"])
		require.Len(t, body["portfolios"], 1)
		position := body["portfolios"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "999.999616", position["current_value"])
	})

	t.Run("positions are private", func(t *testing.T) {
		rec := ta.do(t, ta.other, http.MethodGet, "/api/portfolio", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", rec.Body.String())

		rec = ta.do(t, ta.other, http.MethodGet, "/api/portfolio/1", "")
		assertError(t, rec, http.StatusNotFound, services.ReasonPortfolioNotFound)

		rec = ta.do(t, ta.customer, http.MethodGet, "/api/portfolio/1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("transactions are private", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodGet, "/api/transactions", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var transactions []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transactions))
		require.Len(t, transactions, 1)
		assert.Equal(t, "Axis Bluechip Fund", transactions[0]["scheme_name"])

		rec = ta.do(t, ta.other, http.MethodGet, "/api/transactions/1", "")
		assertError(t, rec, http.StatusNotFound, services.ReasonTxNotFound)

		rec = ta.do(t, ta.admin, http.MethodGet, "/api/transactions/1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("export", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodGet, "/api/transactions/export", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=transactions_")

		f, err := excelize.OpenReader(rec.Body)
		require.NoError(t, err)
		rows, err := f.GetRows("Transactions")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "43.1872", rows[1][5])
	})

	t.Run("history", func(t *testing.T) {
		rec := ta.do(t, ta.customer, http.MethodGet, "/api/portfolio/history", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", rec.Body.String())
	})
}
