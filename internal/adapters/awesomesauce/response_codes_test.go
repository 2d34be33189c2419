package awesomesauce

import (
	"testing"

	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	pkgerrors "github.com/kevin07696/awesomesauce-gateway/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		wantSuccess   bool
		wantMessage   string
		wantAuth      *string
		wantErrorCode *string
		wantCategory  pkgerrors.ErrorCategory
	}{
		{
			name:         "successful purchase",
			body:         successfulPurchaseResponse,
			wantSuccess:  true,
			wantMessage:  "SUCCESS",
			wantAuth:     strPtr("47654"),
			wantCategory: pkgerrors.CategoryApproved,
		},
		{
			name:          "failed purchase",
			body:          failedPurchaseResponse,
			wantMessage:   "FAILURE number - Bad format",
			wantAuth:      strPtr("47655"),
			wantErrorCode: strPtr("Bad format"),
			wantCategory:  pkgerrors.CategoryInvalidRequest,
		},
		{
			name:         "unknown error code leaves description empty",
			body:         unknownCodeResponse,
			wantMessage:  "FAILURE number - ",
			wantAuth:     strPtr("48100"),
			wantCategory: pkgerrors.CategoryDeclined,
		},
		{
			name:         "generic error element",
			body:         `<response><error>Invalid merchant</error></response>`,
			wantMessage:  "FAILURE - Invalid merchant",
			wantCategory: pkgerrors.CategorySystemError,
		},
		{
			name:         "html error page",
			body:         oopsResponse,
			wantMessage:  "FAILURE Oops",
			wantCategory: pkgerrors.CategorySystemError,
		},
		{
			name:         "html document with nested elements",
			body:         `<html><body><h1>Oops</h1></body></html>`,
			wantMessage:  "FAILURE Oops",
			wantCategory: pkgerrors.CategorySystemError,
		},
		{
			name:          "success flag is case sensitive",
			body:          `<response><success>TRUE</success><code>05</code><err>fraud</err></response>`,
			wantMessage:   "FAILURE fraud - Arrest them!",
			wantErrorCode: strPtr("Arrest them!"),
			wantCategory:  pkgerrors.CategoryFraud,
		},
		{
			name:         "code on a successful response is ignored",
			body:         `<response><success>true</success><code>06</code><id>1</id></response>`,
			wantSuccess:  true,
			wantMessage:  "SUCCESS",
			wantAuth:     strPtr("1"),
			wantCategory: pkgerrors.CategoryApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classify(parseResponse([]byte(tt.body)), true)

			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantMessage, result.Message)
			assert.Equal(t, tt.wantAuth, result.Authorization)
			assert.Equal(t, tt.wantErrorCode, result.ErrorCode)
			assert.Equal(t, tt.wantCategory, result.ErrorCategory)
			assert.NotEmpty(t, result.Message)
			assert.True(t, result.Test)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	first := classify(parseResponse([]byte(failedPurchaseResponse)), false)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, classify(parseResponse([]byte(failedPurchaseResponse)), false))
	}
}

func TestResponseCodes(t *testing.T) {
	expected := map[string]string{
		"01": "Should never happen",
		"02": "Missing field",
		"03": "Bad format",
		"04": "Bad number",
		"05": "Arrest them!",
		"06": "Expired",
		"07": "Bad ref",
	}

	require.Len(t, responseCodes, len(expected))
	for code, description := range expected {
		info, ok := GetResponseCodeInfo(code)
		require.True(t, ok, "code %s", code)
		assert.Equal(t, code, info.Code)
		assert.Equal(t, description, info.Description)
	}

	_, ok := GetResponseCodeInfo("99")
	assert.False(t, ok)
}

func TestErrorCodeFrom_OnlyOnFailure(t *testing.T) {
	fields := domain.ResponseFields{"success": "true", "code": "03"}
	assert.Nil(t, errorCodeFrom(fields))

	fields["success"] = "false"
	require.NotNil(t, errorCodeFrom(fields))
	assert.Equal(t, "Bad format", *errorCodeFrom(fields))
}

func strPtr(s string) *string {
	return &s
}
