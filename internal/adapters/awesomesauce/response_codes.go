package awesomesauce

import (
	"fmt"

	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	pkgerrors "github.com/kevin07696/awesomesauce-gateway/pkg/errors"
)

// Response fields read by the classifier
const (
	fieldSuccess = "success"
	fieldErr     = "err"
	fieldCode    = "code"
	fieldError   = "error"
	fieldID      = "id"
)

const (
	messageSuccess = "SUCCESS"
	messageUnknown = "FAILURE Oops"
)

// ResponseCodeInfo describes a gateway error code
type ResponseCodeInfo struct {
	Code        string
	Description string
	Category    pkgerrors.ErrorCategory
}

// responseCodes is the gateway's error code table. Unknown codes have no description.
var responseCodes = map[string]ResponseCodeInfo{
	"01": {Code: "01", Description: "Should never happen", Category: pkgerrors.CategorySystemError},
	"02": {Code: "02", Description: "Missing field", Category: pkgerrors.CategoryInvalidRequest},
	"03": {Code: "03", Description: "Bad format", Category: pkgerrors.CategoryInvalidRequest},
	"04": {Code: "04", Description: "Bad number", Category: pkgerrors.CategoryInvalidCard},
	"05": {Code: "05", Description: "Arrest them!", Category: pkgerrors.CategoryFraud},
	"06": {Code: "06", Description: "Expired", Category: pkgerrors.CategoryExpiredCard},
	"07": {Code: "07", Description: "Bad ref", Category: pkgerrors.CategoryInvalidRequest},
}

// GetResponseCodeInfo returns the table entry for a code
func GetResponseCodeInfo(code string) (ResponseCodeInfo, bool) {
	info, ok := responseCodes[code]
	return info, ok
}

// classify derives the normalized result from a flattened response
func classify(fields domain.ResponseFields, test bool) *domain.GatewayResult {
	return &domain.GatewayResult{
		Success:       successFrom(fields),
		Message:       messageFrom(fields),
		Authorization: authorizationFrom(fields),
		ErrorCode:     errorCodeFrom(fields),
		ErrorCategory: errorCategoryFrom(fields),
		Params:        fields,
		Test:          test,
	}
}

// successFrom is true only for the exact string "true"
func successFrom(fields domain.ResponseFields) bool {
	v, _ := fields.Get(fieldSuccess)
	return v == "true"
}

func messageFrom(fields domain.ResponseFields) string {
	if successFrom(fields) {
		return messageSuccess
	}
	if errMsg, ok := fields.Get(fieldErr); ok {
		var description string
		if d := errorCodeFrom(fields); d != nil {
			description = *d
		}
		return fmt.Sprintf("FAILURE %s - %s", errMsg, description)
	}
	if generic, ok := fields.Get(fieldError); ok {
		return fmt.Sprintf("FAILURE - %s", generic)
	}
	return messageUnknown
}

func authorizationFrom(fields domain.ResponseFields) *string {
	id, ok := fields.Get(fieldID)
	if !ok {
		return nil
	}
	return &id
}

// errorCodeFrom looks up the code description, only for failed responses
func errorCodeFrom(fields domain.ResponseFields) *string {
	if successFrom(fields) {
		return nil
	}
	code, _ := fields.Get(fieldCode)
	info, ok := GetResponseCodeInfo(code)
	if !ok {
		return nil
	}
	description := info.Description
	return &description
}

func errorCategoryFrom(fields domain.ResponseFields) pkgerrors.ErrorCategory {
	if successFrom(fields) {
		return pkgerrors.CategoryApproved
	}
	code, _ := fields.Get(fieldCode)
	if info, ok := GetResponseCodeInfo(code); ok {
		return info.Category
	}
	if _, ok := fields.Get(fieldErr); ok {
		return pkgerrors.CategoryDeclined
	}
	return pkgerrors.CategorySystemError
}
