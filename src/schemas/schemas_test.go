package schemas_test

import (
	"encoding/json"
	"testing"

	"mfportal/src/models"
	"mfportal/src/schemas"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var minimum = decimal.RequireFromString("100.00")

func decodePurchase(t *testing.T, body string) schemas.PurchaseRequest {
	t.Helper()
	var req schemas.PurchaseRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestDecimalStringKeepsLiteralText(t *testing.T) {
	var v struct {
		A schemas.DecimalString `json:"a"`
		B schemas.DecimalString `json:"b"`
		C schemas.DecimalString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 1000.10, "b": " 250.5 ", "c": null}`), &v))
	assert.Equal(t, schemas.DecimalString("1000.10"), v.A)
	assert.Equal(t, schemas.DecimalString("250.5"), v.B)
	assert.Equal(t, schemas.DecimalString(""), v.C)

	err := json.Unmarshal([]byte(`{"a": true}`), &v)
	assert.Error(t, err)
}

func TestPurchaseRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
		field  string
	}{
		{"missing scheme", `{"amount": "500"}`, schemas.ReasonInvalidRequest, "scheme_id"},
		{"zero scheme", `{"scheme_id": 0, "amount": "500"}`, schemas.ReasonInvalidRequest, "scheme_id"},
		{"missing amount", `{"scheme_id": 1}`, schemas.ReasonInvalidRequest, "amount"},
		{"not a number", `{"scheme_id": 1, "amount": "abc"}`, schemas.ReasonInvalidAmount, "amount"},
		{"three decimals", `{"scheme_id": 1, "amount": "150.125"}`, schemas.ReasonInvalidAmount, "amount"},
		{"too many digits", `{"scheme_id": 1, "amount": "12345678901.00"}`, schemas.ReasonInvalidAmount, "amount"},
		{"zero", `{"scheme_id": 1, "amount": "0"}`, schemas.ReasonInvalidAmount, "amount"},
		{"negative", `{"scheme_id": 1, "amount": "-500"}`, schemas.ReasonInvalidAmount, "amount"},
		{"below minimum", `{"scheme_id": 1, "amount": "50.00"}`, schemas.ReasonAmountBelowMinimum, "amount"},
		{"just below minimum", `{"scheme_id": 1, "amount": 99.99}`, schemas.ReasonAmountBelowMinimum, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, ferr := decodePurchase(t, tt.body).Validate(minimum)
			require.NotNil(t, ferr)
			assert.Nil(t, valid)
			assert.Equal(t, tt.reason, ferr.Reason)
			assert.Equal(t, tt.field, ferr.Field)
		})
	}

	t.Run("valid", func(t *testing.T) {
		valid, ferr := decodePurchase(t, `{"scheme_id": 7, "amount": "100.00"}`).Validate(minimum)
		require.Nil(t, ferr)
		assert.Equal(t, uint(7), valid.SchemeID)
		assert.True(t, valid.Amount.Equal(decimal.RequireFromString("100")))
	})

	t.Run("trailing zeros are not extra places", func(t *testing.T) {
		valid, ferr := decodePurchase(t, `{"scheme_id": 7, "amount": "1000.5000"}`).Validate(minimum)
		require.Nil(t, ferr)
		assert.Equal(t, "1000.50", valid.Amount.StringFixed(2))
	})
}

func TestBalanceUpdateRequestValidate(t *testing.T) {
	valid, ferr := schemas.BalanceUpdateRequest{Amount: "10.50", Operation: models.BalanceAdd}.Validate()
	require.Nil(t, ferr)
	assert.Equal(t, models.BalanceAdd, valid.Operation)

	_, ferr = schemas.BalanceUpdateRequest{Amount: "-1", Operation: models.BalanceSet}.Validate()
	require.NotNil(t, ferr)
	assert.Equal(t, "amount", ferr.Field)

	_, ferr = schemas.BalanceUpdateRequest{Amount: "1", Operation: "MULTIPLY"}.Validate()
	require.NotNil(t, ferr)
	assert.Equal(t, "operation", ferr.Field)

	_, ferr = schemas.BalanceUpdateRequest{Amount: "1"}.Validate()
	require.NotNil(t, ferr)
	assert.Equal(t, "operation", ferr.Field)
}

func TestCreateSchemeRequestValidate(t *testing.T) {
	req := schemas.CreateSchemeRequest{Name: "Bluechip Fund", SchemeCode: "BC01", Category: "Equity", NAV: "23.1550"}
	scheme, ferr := req.Validate()
	require.Nil(t, ferr)
	assert.True(t, scheme.IsActive)
	assert.Equal(t, "23.155", scheme.NAV.String())

	req.NAV = "0"
	_, ferr = req.Validate()
	require.NotNil(t, ferr)
	assert.Equal(t, schemas.ReasonInvalidNAV, ferr.Reason)

	req.NAV = "1.12345"
	_, ferr = req.Validate()
	require.NotNil(t, ferr)
	assert.Equal(t, schemas.ReasonInvalidNAV, ferr.Reason)

	req.NAV = "10"
	req.Name = ""
	_, ferr = req.Validate()
	require.NotNil(t, ferr)
	assert.Equal(t, "name", ferr.Field)
}

func TestCreateBankAccountRequestValidate(t *testing.T) {
	account, ferr := schemas.CreateBankAccountRequest{
		AccountNumber: "00112233", IFSCCode: "HDFC0001234", BankName: "HDFC", Balance: "5000",
	}.Validate()
	require.Nil(t, ferr)
	assert.Equal(t, "5000", account.Balance.String())

	_, ferr = schemas.CreateBankAccountRequest{
		AccountNumber: "00112233", IFSCCode: "HDFC00012345", BankName: "HDFC",
	}.Validate()
	require.NotNil(t, ferr)
	assert.Equal(t, "ifsc_code", ferr.Field)

	_, ferr = schemas.CreateBankAccountRequest{
		AccountNumber: "00112233", IFSCCode: "HDFC0001234", BankName: "HDFC", Balance: "-3",
	}.Validate()
	require.NotNil(t, ferr)
	assert.Equal(t, "balance", ferr.Field)
}

func TestUserRequests(t *testing.T) {
	user, ferr := schemas.CreateUserRequest{
		Username: "asha", Email: "asha@example.com", FirstName: "Asha", LastName: "Rao",
	}.Validate()
	require.Nil(t, ferr)
	assert.Equal(t, models.RoleCustomer, user.Role)

	_, ferr = schemas.CreateUserRequest{
		Username: "asha", Email: "not-an-email", FirstName: "Asha", LastName: "Rao",
	}.Validate()
	require.NotNil(t, ferr)
	assert.Equal(t, "email", ferr.Field)

	bad := models.Role("ROOT")
	ferr = schemas.UpdateUserRequest{Role: &bad}.ApplyTo(user)
	require.NotNil(t, ferr)
	assert.Equal(t, "role", ferr.Field)
}
