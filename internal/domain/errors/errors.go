package errors

import (
	"errors"
	"net/http"
	"time"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

// AppError represents an application error with HTTP status and a stable
// machine-readable code clients can branch on.
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`

	// RetryAfter is set on rate-limit errors only: when the caller's
	// window resets.
	RetryAfter *time.Time `json:"retryAfter,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Message != "" && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
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

// Taxonomy constructors. One per authorization/management failure class so
// integrations can distinguish, e.g., a missing key from a revoked one.

func Validation(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "VALIDATION_ERROR", message, ErrInvalidInput)
}

func MissingCredential() *AppError {
	return NewAppError(http.StatusUnauthorized, "MISSING_API_KEY", "API key is required", ErrUnauthorized)
}

func InvalidCredential() *AppError {
	return NewAppError(http.StatusUnauthorized, "INVALID_API_KEY", "API key is invalid or revoked", ErrInvalidCredentials)
}

func ExpiredCredential() *AppError {
	return NewAppError(http.StatusUnauthorized, "EXPIRED_API_KEY", "API key has expired", ErrInvalidCredentials)
}

func InsufficientPermission(message string) *AppError {
	return NewAppError(http.StatusForbidden, "INSUFFICIENT_PERMISSION", message, ErrForbidden)
}

func RateLimited(resetAt time.Time) *AppError {
	e := NewAppError(http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded", ErrRateLimited)
	e.RetryAfter = &resetAt
	return e
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "NOT_FOUND", message, ErrNotFound)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, "UNAUTHORIZED", message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, "FORBIDDEN", message, ErrForbidden)
}

func Persistence(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "PERSISTENCE_ERROR", "storage unavailable", err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error", err)
}
