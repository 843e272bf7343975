package schemas

import (
	"fmt"

	"mfportal/src/models"

	"github.com/shopspring/decimal"
)

type PurchaseRequest struct {
	SchemeID *int64        `json:"scheme_id"`
	Amount   DecimalString `json:"amount"`
}

// ValidPurchase is a PurchaseRequest that passed Validate.
type ValidPurchase struct {
	SchemeID uint
	Amount   decimal.Decimal
}

// Validate checks shape and range only. Whether the scheme exists is decided
// later, inside the purchase itself.
func (r PurchaseRequest) Validate(minimum decimal.Decimal) (*ValidPurchase, *FieldError) {
	if r.SchemeID == nil {
		return nil, required("scheme_id")
	}
	if *r.SchemeID <= 0 {
		return nil, &FieldError{Field: "scheme_id", Reason: ReasonInvalidRequest, Message: "A valid scheme id is required."}
	}
	amount, ferr := AmountField.Parse(r.Amount)
	if ferr != nil {
		return nil, ferr
	}
	if !amount.IsPositive() {
		return nil, &FieldError{Field: "amount", Reason: ReasonInvalidAmount, Message: "Investment amount must be greater than zero."}
	}
	if amount.LessThan(minimum) {
		return nil, &FieldError{
			Field:   "amount",
			Reason:  ReasonAmountBelowMinimum,
			Message: fmt.Sprintf("Minimum investment amount is %s.", minimum.StringFixed(2)),
		}
	}
	return &ValidPurchase{SchemeID: uint(*r.SchemeID), Amount: amount}, nil
}

type PurchaseResponse struct {
	Message          string               `json:"message"`
	UnitsAllotted    decimal.Decimal      `json:"units_allotted"`
	RemainingBalance decimal.Decimal      `json:"remaining_balance"`
	Transaction      models.MFTransaction `json:"transaction"`
	Portfolio        PortfolioPosition    `json:"portfolio"`
}
