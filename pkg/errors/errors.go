package errors

import (
	"fmt"
)

// ErrorCategory represents the category of error for handling
type ErrorCategory string

const (
	CategoryApproved       ErrorCategory = "approved"
	CategoryDeclined       ErrorCategory = "declined"
	CategoryInvalidCard    ErrorCategory = "invalid_card"
	CategoryExpiredCard    ErrorCategory = "expired_card"
	CategoryFraud          ErrorCategory = "fraud"
	CategorySystemError    ErrorCategory = "system_error"
	CategoryNetworkError   ErrorCategory = "network_error"
	CategoryInvalidRequest ErrorCategory = "invalid_request"
)

// GatewayError is returned when the gateway could not be reached at all and
// no response body was obtained
type GatewayError struct {
	Code     string
	Message  string
	Endpoint string
	Category ErrorCategory
	Err      error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (endpoint: %s): %v", e.Code, e.Message, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s: %s (endpoint: %s)", e.Code, e.Message, e.Endpoint)
}

// Unwrap returns the transport error
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewGatewayError creates a new network-category gateway error
func NewGatewayError(code, message, endpoint string, err error) *GatewayError {
	return &GatewayError{
		Code:     code,
		Message:  message,
		Endpoint: endpoint,
		Category: CategoryNetworkError,
		Err:      err,
	}
}

// ValidationError represents input validation errors
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
