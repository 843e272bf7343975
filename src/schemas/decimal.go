package schemas

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DecimalString accepts a JSON string or number and keeps its literal text,
// so amounts never pass through float64.
type DecimalString string

func (d *DecimalString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	switch {
	case raw == "null":
		*d = ""
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*d = DecimalString(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("expected a decimal, got %s", raw)
		}
		*d = DecimalString(n.String())
	}
	return nil
}

// DecimalField mirrors a NUMERIC(maxDigits, places) column.
type DecimalField struct {
	Name      string
	MaxDigits int32
	Places    int32
	Reason    string
}

var (
	AmountField  = DecimalField{Name: "amount", MaxDigits: 12, Places: 2, Reason: ReasonInvalidAmount}
	BalanceField = DecimalField{Name: "balance", MaxDigits: 12, Places: 2, Reason: ReasonInvalidAmount}
	NAVField     = DecimalField{Name: "nav", MaxDigits: 10, Places: 4, Reason: ReasonInvalidNAV}
)

// Parse converts raw into a decimal that fits the column, rejecting values
// that would need rounding.
func (f DecimalField) Parse(raw DecimalString) (decimal.Decimal, *FieldError) {
	if raw == "" {
		return decimal.Zero, required(f.Name)
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, &FieldError{Field: f.Name, Reason: f.Reason, Message: "A valid number is required."}
	}
	if !d.Equal(d.Truncate(f.Places)) {
		return decimal.Zero, &FieldError{
			Field:   f.Name,
			Reason:  f.Reason,
			Message: fmt.Sprintf("Ensure that there are no more than %d decimal places.", f.Places),
		}
	}
	limit := decimal.New(1, f.MaxDigits-f.Places)
	if d.Abs().GreaterThanOrEqual(limit) {
		return decimal.Zero, &FieldError{
			Field:   f.Name,
			Reason:  f.Reason,
			Message: fmt.Sprintf("Ensure that there are no more than %d digits in total.", f.MaxDigits),
		}
	}
	return d.Truncate(f.Places), nil
}
