package schemas

import (
	"mfportal/src/models"

	"github.com/shopspring/decimal"
)

type CreateBankAccountRequest struct {
	AccountNumber string        `json:"account_number"`
	IFSCCode      string        `json:"ifsc_code"`
	BankName      string        `json:"bank_name"`
	Balance       DecimalString `json:"balance"`
}

func (r CreateBankAccountRequest) Validate() (*models.BankAccount, *FieldError) {
	if err := checkText("account_number", r.AccountNumber, 20); err != nil {
		return nil, err
	}
	if err := checkText("ifsc_code", r.IFSCCode, 11); err != nil {
		return nil, err
	}
	if err := checkText("bank_name", r.BankName, 100); err != nil {
		return nil, err
	}
	balance := decimal.Zero
	if r.Balance != "" {
		var ferr *FieldError
		balance, ferr = BalanceField.Parse(r.Balance)
		if ferr != nil {
			return nil, ferr
		}
		if balance.IsNegative() {
			return nil, &FieldError{Field: "balance", Reason: ReasonInvalidAmount, Message: "Balance cannot be negative."}
		}
	}
	return &models.BankAccount{
		AccountNumber: r.AccountNumber,
		IFSCCode:      r.IFSCCode,
		BankName:      r.BankName,
		Balance:       balance,
	}, nil
}

// UpdateBankAccountRequest is a partial update of the descriptive fields. The
// balance can only change through UpdateBalance or a purchase.
type UpdateBankAccountRequest struct {
	AccountNumber *string `json:"account_number"`
	IFSCCode      *string `json:"ifsc_code"`
	BankName      *string `json:"bank_name"`
}

func (r UpdateBankAccountRequest) ApplyTo(a *models.BankAccount) *FieldError {
	if r.AccountNumber != nil {
		if err := checkText("account_number", *r.AccountNumber, 20); err != nil {
			return err
		}
		a.AccountNumber = *r.AccountNumber
	}
	if r.IFSCCode != nil {
		if err := checkText("ifsc_code", *r.IFSCCode, 11); err != nil {
			return err
		}
		a.IFSCCode = *r.IFSCCode
	}
	if r.BankName != nil {
		if err := checkText("bank_name", *r.BankName, 100); err != nil {
			return err
		}
		a.BankName = *r.BankName
	}
	return nil
}

type BalanceUpdateRequest struct {
	Amount    DecimalString           `json:"amount"`
	Operation models.BalanceOperation `json:"operation"`
}

type ValidBalanceUpdate struct {
	Amount    decimal.Decimal
	Operation models.BalanceOperation
}

func (r BalanceUpdateRequest) Validate() (*ValidBalanceUpdate, *FieldError) {
	amount, ferr := AmountField.Parse(r.Amount)
	if ferr != nil {
		return nil, ferr
	}
	if amount.IsNegative() {
		return nil, &FieldError{Field: "amount", Reason: ReasonInvalidAmount, Message: "Amount cannot be negative."}
	}
	switch r.Operation {
	case models.BalanceAdd, models.BalanceSet:
	case "":
		return nil, required("operation")
	default:
		return nil, &FieldError{Field: "operation", Reason: ReasonInvalidRequest, Message: `"` + string(r.Operation) + `" is not a valid choice.`}
	}
	return &ValidBalanceUpdate{Amount: amount, Operation: r.Operation}, nil
}
