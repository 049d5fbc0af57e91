package constants

import (
	"fmt"
	"net/http"
)

// CodedError is an error that knows which HTTP status it should be answered with.
type CodedError struct {
	code int
	msg  string
}

func NewCodedError(code int, msg string) *CodedError {
	return &CodedError{code: code, msg: msg}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

// NewValidationError returns a 400 CodedError with a formatted message.
func NewValidationError(format string, args ...any) *CodedError {
	return NewCodedError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

var (
	ErrDBNotFound       = NewCodedError(http.StatusNotFound, "not found")
	ErrAlreadyExists    = NewCodedError(http.StatusConflict, "already exists")
	ErrInvalidReference = NewCodedError(http.StatusBadRequest, "referenced entity does not exist")

	ErrUnauthorized       = NewCodedError(http.StatusUnauthorized, "unauthorized")
	ErrForbidden          = NewCodedError(http.StatusForbidden, "forbidden")
	ErrInvalidCredentials = NewCodedError(http.StatusUnauthorized, "invalid email or password")
	ErrEmailAlreadyTaken  = NewCodedError(http.StatusConflict, "email already taken")

	ErrProjectCompleted  = NewCodedError(http.StatusConflict, "project is already complete")
	ErrNoComputedValue   = NewCodedError(http.StatusBadGateway, "calculator returned no value")
	ErrCalculatorFailed  = NewCodedError(http.StatusBadGateway, "calculator request failed")
	ErrRuleScopeMismatch = NewCodedError(http.StatusBadRequest, "rule does not belong to the requested scope")
)
