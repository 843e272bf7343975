package services

import (
	"errors"
	"fmt"

	"mfportal/src/schemas"
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindInsufficientFunds ErrorKind = "insufficient_funds"
	KindForbidden         ErrorKind = "forbidden"
	KindConflict          ErrorKind = "conflict"
	KindInternal          ErrorKind = "internal"
)

// Machine readable reasons returned to clients.
const (
	ReasonInvalidRequest     = schemas.ReasonInvalidRequest
	ReasonInvalidAmount      = schemas.ReasonInvalidAmount
	ReasonAmountBelowMinimum = schemas.ReasonAmountBelowMinimum
	ReasonInvalidNAV         = schemas.ReasonInvalidNAV
	ReasonAccountNotFound    = "account_not_found"
	ReasonSchemeNotFound     = "scheme_not_found"
	ReasonUserNotFound       = "user_not_found"
	ReasonPortfolioNotFound  = "portfolio_not_found"
	ReasonTxNotFound         = "transaction_not_found"
	ReasonInsufficientFunds  = "insufficient_funds"
	ReasonForbidden          = "forbidden"
	ReasonAlreadyExists      = "already_exists"
	ReasonInternal           = "internal_error"
)

// Error is the single error type services return to the transport layer.
// Err holds the underlying cause for logging and is never shown to clients.
type Error struct {
	Kind    ErrorKind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func ValidationError(reason, message string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: message}
}

// FromFieldError turns a request validation failure into a service error.
func FromFieldError(ferr *schemas.FieldError) *Error {
	return &Error{Kind: KindValidation, Reason: ferr.Reason, Message: ferr.Message, Err: ferr}
}

func NotFoundError(reason, message string) *Error {
	return &Error{Kind: KindNotFound, Reason: reason, Message: message}
}

func InsufficientFundsError(message string) *Error {
	return &Error{Kind: KindInsufficientFunds, Reason: ReasonInsufficientFunds, Message: message}
}

func ForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Reason: ReasonForbidden, Message: message}
}

func ConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Reason: ReasonAlreadyExists, Message: message}
}

// InternalError hides err behind a generic message.
func InternalError(err error) *Error {
	return &Error{Kind: KindInternal, Reason: ReasonInternal, Message: "An unexpected error occurred.", Err: err}
}

// KindOf reports the kind of a service error, treating anything else as
// internal.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}
