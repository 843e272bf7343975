package schemas

import "fmt"

// Validation reasons reported back to clients.
const (
	ReasonInvalidRequest     = "invalid_request"
	ReasonInvalidAmount      = "invalid_amount"
	ReasonAmountBelowMinimum = "amount_below_minimum"
	ReasonInvalidNAV         = "invalid_nav"
)

// FieldError describes the first invalid field of a request.
type FieldError struct {
	Field   string
	Reason  string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func required(field string) *FieldError {
	return &FieldError{Field: field, Reason: ReasonInvalidRequest, Message: "This field is required."}
}

func tooLong(field string, max int) *FieldError {
	return &FieldError{
		Field:   field,
		Reason:  ReasonInvalidRequest,
		Message: fmt.Sprintf("Ensure this field has no more than %d characters.", max),
	}
}

func checkText(field, value string, max int) *FieldError {
	if value == "" {
		return required(field)
	}
	if len([]rune(value)) > max {
		return tooLong(field, max)
	}
	return nil
}
