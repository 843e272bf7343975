package utils

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HTTPError carries the status code, a human readable message and a stable
// machine readable reason that clients branch on.
type HTTPError struct {
	Code    int    `json:"-"`
	Reason  string `json:"code"`
	Message string `json:"error"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func NewHTTPError(code int, message string) error {
	return &HTTPError{
		Code:    code,
		Reason:  http.StatusText(code),
		Message: message,
	}
}

func NewHTTPErrorWithReason(code int, reason, message string) error {
	return &HTTPError{
		Code:    code,
		Reason:  reason,
		Message: message,
	}
}

func BadRequest(message string) error {
	return NewHTTPErrorWithReason(http.StatusBadRequest, "bad_request", message)
}

func Unauthorized(message string) error {
	return NewHTTPErrorWithReason(http.StatusUnauthorized, "unauthorized", message)
}

func Forbidden(message string) error {
	return NewHTTPErrorWithReason(http.StatusForbidden, "forbidden", message)
}

func NotFound(message string) error {
	return NewHTTPErrorWithReason(http.StatusNotFound, "not_found", message)
}

func InternalServerError(message string) error {
	return NewHTTPErrorWithReason(http.StatusInternalServerError, "internal_error", message)
}

// WriteError sends err as a JSON error payload. Anything that is not an
// HTTPError is reported as a generic 500 so internal details never leak.
func WriteError(w http.ResponseWriter, err error) {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = &HTTPError{
			Code:    http.StatusInternalServerError,
			Reason:  "internal_error",
			Message: "Internal Server Error",
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(httpErr.Code)
	_ = json.NewEncoder(w).Encode(httpErr)
}
