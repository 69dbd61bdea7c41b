package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrLimitExceeded       = errors.New("plan limit exceeded")
	ErrInvalidKey          = errors.New("invalid api key")
	ErrMissingOrigin       = errors.New("missing request origin")
	ErrDomainNotAuthorized = errors.New("domain not authorized")
)

// Stable machine-readable error codes
const (
	CodeNotFound            = "NOT_FOUND"
	CodeConflict            = "CONFLICT"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeBadRequest          = "BAD_REQUEST"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeLimitExceeded       = "LIMIT_EXCEEDED"
	CodeInvalidKey          = "INVALID_KEY"
	CodeMissingOrigin       = "MISSING_ORIGIN"
	CodeDomainNotAuthorized = "DOMAIN_NOT_AUTHORIZED"
	CodeInternalError       = "INTERNAL_ERROR"

	// CodeCORSBlocked is the only code the widget path ever echoes to a
	// caller. The finer-grained codes above exist for logs and metrics.
	CodeCORSBlocked = "CORS_BLOCKED"
)

// AppError represents an application error with HTTP status and code
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

// LimitExceeded is surfaced as 403 to the dashboard: the caller is
// authenticated, the plan simply does not allow the operation.
func LimitExceeded(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeLimitExceeded, message, ErrLimitExceeded)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

func InternalServerError(message string) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, message, nil)
}

// Widget authorization errors. All three carry 403 and are never echoed with
// their own code: the handler collapses them to CORS_BLOCKED so a probing
// caller cannot tell which check failed.

func InvalidKey() *AppError {
	return NewAppError(http.StatusForbidden, CodeInvalidKey, "request not authorized", ErrInvalidKey)
}

func MissingOrigin() *AppError {
	return NewAppError(http.StatusForbidden, CodeMissingOrigin, "request not authorized", ErrMissingOrigin)
}

func DomainNotAuthorized() *AppError {
	return NewAppError(http.StatusForbidden, CodeDomainNotAuthorized, "request not authorized", ErrDomainNotAuthorized)
}

// NewError creates a new error with a custom message wrapping an existing error
func NewError(message string, err error) error {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    CodeBadRequest,
		Message: message,
		Err:     err,
	}
}
