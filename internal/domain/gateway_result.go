package domain

import (
	pkgerrors "github.com/kevin07696/awesomesauce-gateway/pkg/errors"
)

// ResponseFields is the flattened view of a gateway response body.
// Keys are element names; second-level elements are keyed "parent_child".
type ResponseFields map[string]string

// Get returns the value for key and whether it was present in the response
func (f ResponseFields) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f[key]
	return v, ok
}

// GatewayResult is the normalized outcome of one gateway operation
type GatewayResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Authorization is the reference returned by the gateway for this operation.
	// Used as the ref for a later capture, void or refund.
	Authorization *string `json:"authorization,omitempty"`

	// ErrorCode holds the human description of the gateway error code.
	// Only set on failures.
	ErrorCode     *string                 `json:"error_code,omitempty"`
	ErrorCategory pkgerrors.ErrorCategory `json:"error_category,omitempty"`

	Params ResponseFields `json:"params"`
	Test   bool           `json:"test"`
}

// AuthorizationID returns the authorization reference or an empty string
func (r *GatewayResult) AuthorizationID() string {
	if r == nil || r.Authorization == nil {
		return ""
	}
	return *r.Authorization
}

// ErrorDescription returns the error description or an empty string
func (r *GatewayResult) ErrorDescription() string {
	if r == nil || r.ErrorCode == nil {
		return ""
	}
	return *r.ErrorCode
}
