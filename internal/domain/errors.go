package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Configuration Errors (CONFIG_*)
	ErrorCodeMissingCredentials ErrorCode = "CONFIG_MISSING_CREDENTIALS"
	ErrorCodeInvalidConfig      ErrorCode = "CONFIG_INVALID"

	// Operation Errors (OPERATION_*)
	ErrorCodeOperationDeprecated ErrorCode = "OPERATION_DEPRECATED"

	// Payment Gateway Errors (GATEWAY_*)
	ErrorCodeGatewayUnavailable ErrorCode = "GATEWAY_UNAVAILABLE"
	ErrorCodeGatewayTimeout     ErrorCode = "GATEWAY_TIMEOUT"

	// Internal Errors (INTERNAL_*)
	ErrorCodeDatabaseError ErrorCode = "INTERNAL_DATABASE_ERROR"
)

// CreditDeprecationMessage is returned when a caller still uses the credit operation.
const CreditDeprecationMessage = "credit is deprecated and will be removed from a future release, use refund instead"

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsConfigError checks if an error is a configuration error
func IsConfigError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeMissingCredentials ||
		code == ErrorCodeInvalidConfig
}

// IsGatewayError checks if an error is a payment gateway error
func IsGatewayError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeGatewayUnavailable ||
		code == ErrorCodeGatewayTimeout
}

var (
	ErrMissingCredentials = NewDomainError(ErrorCodeMissingCredentials, "login and password are required")
	ErrInvalidConfig      = NewDomainError(ErrorCodeInvalidConfig, "invalid gateway configuration")

	ErrCreditDeprecated = NewDomainError(ErrorCodeOperationDeprecated, CreditDeprecationMessage)

	ErrGatewayUnavailable = NewDomainError(ErrorCodeGatewayUnavailable, "payment gateway unavailable")
	ErrGatewayTimedOut    = NewDomainError(ErrorCodeGatewayTimeout, "payment gateway timeout")

	ErrDatabaseError = NewDomainError(ErrorCodeDatabaseError, "database error")
)
