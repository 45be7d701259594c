// Package service defines the error taxonomy shared by the command and query
// services. Business logic itself lives in the CQRS packages:
//   - internal/command: TransactionCommandService (writes)
//   - internal/query: AccountQueryService, TransactionQueryService (reads)
package service

import (
	"errors"
	"net/http"

	"github.com/eaglebank/ledger-service/internal/validation"
)

type ErrorCode string

const (
	InvalidParameters    ErrorCode = "INVALID_PARAMETERS"
	NotFoundAccount      ErrorCode = "NOT_FOUND_ACCOUNT"
	NotFoundTransaction  ErrorCode = "NOT_FOUND_TRANSACTION"
	ForbiddenTransaction ErrorCode = "FORBIDDEN_TRANSACTION"
	AccountBlocked       ErrorCode = "ACCOUNT_BLOCKED"
)

// HTTPStatus is the fixed status each code is rendered with.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case InvalidParameters:
		return http.StatusBadRequest
	case NotFoundAccount, NotFoundTransaction:
		return http.StatusNotFound
	case ForbiddenTransaction, AccountBlocked:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error is a business rule violation detected by a service. It is final for
// the request: callers render it, they do not retry.
type Error struct {
	Code    ErrorCode
	Message string
	Details []validation.FieldError
}

func (e *Error) Error() string { return e.Message }

func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// AsError extracts a service error from err's chain.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
