package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError independently of its message so callers can
// match with errors.Is.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindUnauthorized        Kind = "unauthorized"
	KindForbidden           Kind = "forbidden"
	KindBadRequest          Kind = "bad_request"
	KindConflict            Kind = "conflict"
	KindValidation          Kind = "validation"
	KindInternal            Kind = "internal"
	KindInsufficientStock   Kind = "insufficient_stock"
	KindCreditLimitExceeded Kind = "credit_limit_exceeded"
	KindInactiveAgent       Kind = "inactive_agent"
	KindOverpayment         Kind = "overpayment"
	KindInvalidPayment      Kind = "invalid_payment"
	KindInvalidState        Kind = "invalid_state"
	KindConcurrencyConflict Kind = "concurrency_conflict"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is reports whether target is an AppError of the same kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind != "" && t.Kind == e.Kind
}

// Common errors
var (
	ErrNotFound            = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Message: "Resource not found"}
	ErrUnauthorized        = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Unauthorized"}
	ErrForbidden           = &AppError{Code: http.StatusForbidden, Kind: KindForbidden, Message: "Forbidden"}
	ErrBadRequest          = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Message: "Bad request"}
	ErrInternalServer      = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Message: "Internal server error"}
	ErrConflict            = &AppError{Code: http.StatusConflict, Kind: KindConflict, Message: "Resource already exists"}
	ErrValidation          = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "Validation failed"}
	ErrInsufficientStock   = &AppError{Code: http.StatusConflict, Kind: KindInsufficientStock, Message: "Insufficient stock"}
	ErrCreditLimitExceeded = &AppError{Code: http.StatusConflict, Kind: KindCreditLimitExceeded, Message: "Credit limit exceeded"}
	ErrInactiveAgent       = &AppError{Code: http.StatusConflict, Kind: KindInactiveAgent, Message: "Agent is not active"}
	ErrOverpayment         = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindOverpayment, Message: "Payment exceeds outstanding debt"}
	ErrInvalidPayment      = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInvalidPayment, Message: "Invalid payment"}
	ErrInvalidState        = &AppError{Code: http.StatusConflict, Kind: KindInvalidState, Message: "Invalid state transition"}
	ErrConcurrencyConflict = &AppError{Code: http.StatusConflict, Kind: KindConcurrencyConflict, Message: "Concurrent update detected, please retry"}
	ErrInvalidToken        = &AppError{Code: http.StatusUnauthorized, Kind: KindUnauthorized, Message: "Invalid token"}
)

// NewAppError creates a new application error
func NewAppError(code int, kind Kind, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kind,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewFieldError is a shorthand for a validation error on a single field.
func NewFieldError(field, message string) *AppError {
	return NewValidationError([]FieldError{{Field: field, Message: message}})
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewForbiddenError creates a forbidden error with a custom message
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Kind:    KindForbidden,
		Message: message,
	}
}

// NewInsufficientStockError reports a product that cannot cover a requested decrement.
func NewInsufficientStockError(product string, available, requested int) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for %s: available %d, requested %d", product, available, requested),
	}
}

// NewCreditLimitExceededError reports amounts as preformatted strings to keep this package free of money types.
func NewCreditLimitExceededError(limit, currentDebt, additional string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindCreditLimitExceeded,
		Message: fmt.Sprintf("Credit limit exceeded: limit %s, current debt %s, requested %s", limit, currentDebt, additional),
	}
}

// NewInactiveAgentError creates an inactive agent error
func NewInactiveAgentError(name string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInactiveAgent,
		Message: fmt.Sprintf("Agent %s is not active", name),
	}
}

// NewOverpaymentError creates an overpayment error
func NewOverpaymentError(amount, outstanding string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindOverpayment,
		Message: fmt.Sprintf("Payment of %s exceeds outstanding debt of %s", amount, outstanding),
	}
}

// NewInvalidPaymentError creates an invalid payment error
func NewInvalidPaymentError(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindInvalidPayment,
		Message: message,
	}
}

// NewInvalidStateError reports a workflow transition that is not allowed from the current status.
func NewInvalidStateError(resource, from, action string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInvalidState,
		Message: fmt.Sprintf("Cannot %s %s in status %s", action, resource, from),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible. Unknown errors are
// reported as a generic internal error so storage details never leak.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer
}
