package awesomesauce

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/ports"
	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	domainports "github.com/kevin07696/awesomesauce-gateway/internal/domain/ports"
	pkgerrors "github.com/kevin07696/awesomesauce-gateway/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	authURL = "http://sandbox.asgateway.com/api/auth"
	refURL  = "http://sandbox.asgateway.com/api/ref"
)

// MockTransport is a mock implementation of ports.Transport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Post(ctx context.Context, url string, body []byte) (*ports.TransportResponse, error) {
	args := m.Called(ctx, url, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.TransportResponse), args.Error(1)
}

// MockAuditRepository is a mock implementation of domainports.AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, entry *domainports.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) ListByAuthorization(ctx context.Context, authorization string) ([]*domainports.AuditEntry, error) {
	args := m.Called(ctx, authorization)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domainports.AuditEntry), args.Error(1)
}

func okResponse(body string) *ports.TransportResponse {
	return &ports.TransportResponse{StatusCode: http.StatusOK, Body: []byte(body), RequestID: "req-1"}
}

func bodyContains(parts ...string) interface{} {
	return mock.MatchedBy(func(body []byte) bool {
		for _, p := range parts {
			if !strings.Contains(string(body), p) {
				return false
			}
		}
		return true
	})
}

func newTestGateway(t *testing.T, opts ...Option) (*Gateway, *MockTransport) {
	t.Helper()

	config := DefaultConfig("sandbox")
	config.Credentials = domain.Credentials{Login: testLogin, Password: testPassword}

	transport := new(MockTransport)
	gateway, err := NewGateway(config, transport, zap.NewNop(), opts...)
	require.NoError(t, err)
	return gateway, transport
}

func TestNewGateway_RequiresCredentials(t *testing.T) {
	tests := []struct {
		name        string
		credentials domain.Credentials
		field       string
	}{
		{name: "missing login", credentials: domain.Credentials{Password: testPassword}, field: "login"},
		{name: "missing password", credentials: domain.Credentials{Login: testLogin}, field: "password"},
		{name: "blank login", credentials: domain.Credentials{Login: "  ", Password: testPassword}, field: "login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig("sandbox")
			config.Credentials = tt.credentials

			gateway, err := NewGateway(config, new(MockTransport), zap.NewNop())

			require.Error(t, err)
			assert.Nil(t, gateway)
			assert.True(t, errors.Is(err, domain.ErrMissingCredentials))

			var domainErr *domain.DomainError
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, tt.field, domainErr.Details["field"])
		})
	}
}

func TestNewGateway_RequiresConfigAndTransport(t *testing.T) {
	_, err := NewGateway(nil, new(MockTransport), zap.NewNop())
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeInvalidConfig))

	config := DefaultConfig("sandbox")
	config.Credentials = domain.Credentials{Login: testLogin, Password: testPassword}
	_, err = NewGateway(config, nil, zap.NewNop())
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeInvalidConfig))
}

func TestGateway_SuccessfulPurchase(t *testing.T) {
	gateway, transport := newTestGateway(t)
	transport.On("Post", mock.Anything, authURL, bodyContains(
		"<action>purch</action>",
		"<amount>1.00</amount>",
		"<merchant>test-api</merchant>",
		"<number>4000100011112224</number>",
	)).Return(okResponse(successfulPurchaseResponse), nil).Once()

	result, err := gateway.Purchase(context.Background(), 100, testCard(), nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "SUCCESS", result.Message)
	assert.Equal(t, "47654", result.AuthorizationID())
	assert.Nil(t, result.ErrorCode)
	assert.True(t, result.Test)
	transport.AssertExpectations(t)
}

func TestGateway_FailedPurchase(t *testing.T) {
	gateway, transport := newTestGateway(t)
	transport.On("Post", mock.Anything, authURL, mock.Anything).
		Return(okResponse(failedPurchaseResponse), nil).Once()

	result, err := gateway.Purchase(context.Background(), 101, testCard(), nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "FAILURE number - Bad format", result.Message)
	require.NotNil(t, result.ErrorCode)
	assert.Equal(t, "Bad format", *result.ErrorCode)
	assert.Equal(t, pkgerrors.CategoryInvalidRequest, result.ErrorCategory)
	transport.AssertExpectations(t)
}

func TestGateway_AuthorizeAndCapture(t *testing.T) {
	gateway, transport := newTestGateway(t)
	transport.On("Post", mock.Anything, authURL, bodyContains("<action>auth</action>")).
		Return(okResponse(successfulAuthorizeResponse), nil).Once()
	transport.On("Post", mock.Anything, refURL, bodyContains("<action>capture</action>", "<ref>47993</ref>")).
		Return(okResponse(successfulCaptureResponse), nil).Once()

	auth, err := gateway.Authorize(context.Background(), 100, testCard(), nil)
	require.NoError(t, err)
	require.True(t, auth.Success)

	capture, err := gateway.Capture(context.Background(), 100, auth.AuthorizationID(), nil)
	require.NoError(t, err)
	assert.True(t, capture.Success)
	assert.Equal(t, "47994", capture.AuthorizationID())
	transport.AssertExpectations(t)
}

func TestGateway_CaptureSendsNoAmount(t *testing.T) {
	gateway, transport := newTestGateway(t)
	transport.On("Post", mock.Anything, refURL, mock.MatchedBy(func(body []byte) bool {
		return !strings.Contains(string(body), "<amount>")
	})).Return(okResponse(successfulCaptureResponse), nil).Once()

	_, err := gateway.Capture(context.Background(), 5000, "47993", nil)

	require.NoError(t, err)
	transport.AssertExpectations(t)
}

func TestGateway_FailedCaptureWithErrorPage(t *testing.T) {
	gateway, transport := newTestGateway(t)
	transport.On("Post", mock.Anything, refURL, mock.Anything).Return(&ports.TransportResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       []byte(oopsResponse),
	}, nil).Once()

	result, err := gateway.Capture(context.Background(), 100, "", nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "FAILURE Oops", result.Message)
	assert.Nil(t, result.Authorization)
	assert.Nil(t, result.ErrorCode)
	assert.Equal(t, pkgerrors.CategorySystemError, result.ErrorCategory)
}

func TestGateway_RefundIsSentAsCancel(t *testing.T) {
	gateway, transport := newTestGateway(t)
	transport.On("Post", mock.Anything, refURL, bodyContains("<action>cancel</action>", "<ref>47994</ref>")).
		Return(okResponse(successfulVoidResponse), nil).Once()

	result, err := gateway.Refund(context.Background(), 100, "47994", nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	transport.AssertExpectations(t)
}

func TestGateway_Void(t *testing.T) {
	gateway, transport := newTestGateway(t)
	transport.On("Post", mock.Anything, refURL, bodyContains("<action>cancel</action>", "<ref>47993</ref>")).
		Return(okResponse(successfulVoidResponse), nil).Once()

	result, err := gateway.Void(context.Background(), "47993", nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	transport.AssertExpectations(t)
}

func TestGateway_Verify(t *testing.T) {
	tests := []struct {
		name         string
		authResponse string
		voidResponse *ports.TransportResponse
		voidErr      error
		voidRef      string
		wantSuccess  bool
		wantAuth     string
	}{
		{
			name:         "successful verify",
			authResponse: successfulAuthorizeResponse,
			voidResponse: okResponse(successfulVoidResponse),
			voidRef:      "<ref>47993</ref>",
			wantSuccess:  true,
			wantAuth:     "47993",
		},
		{
			name:         "failed authorization is still voided",
			authResponse: failedAuthorizeResponse,
			voidResponse: okResponse(failedPurchaseResponse),
			voidRef:      "<ref>48095</ref>",
			wantAuth:     "48095",
		},
		{
			name:         "declined void keeps authorization result",
			authResponse: successfulAuthorizeResponse,
			voidResponse: okResponse(failedPurchaseResponse),
			voidRef:      "<ref>47993</ref>",
			wantSuccess:  true,
			wantAuth:     "47993",
		},
		{
			name:         "void without response keeps authorization result",
			authResponse: successfulAuthorizeResponse,
			voidErr:      errors.New("connection reset"),
			voidRef:      "<ref>47993</ref>",
			wantSuccess:  true,
			wantAuth:     "47993",
		},
		{
			name:         "authorization without id voids an empty ref",
			authResponse: oopsResponse,
			voidResponse: okResponse(oopsResponse),
			voidRef:      "<ref></ref>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway, transport := newTestGateway(t)
			transport.On("Post", mock.Anything, authURL, bodyContains("<action>auth</action>", "<amount>1.00</amount>")).
				Return(okResponse(tt.authResponse), nil).Once()
			if tt.voidErr != nil {
				transport.On("Post", mock.Anything, refURL, bodyContains("<action>cancel</action>", tt.voidRef)).
					Return(nil, tt.voidErr).Once()
			} else {
				transport.On("Post", mock.Anything, refURL, bodyContains("<action>cancel</action>", tt.voidRef)).
					Return(tt.voidResponse, nil).Once()
			}

			result, err := gateway.Verify(context.Background(), testCard(), nil)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, result.Success)
			assert.Equal(t, tt.wantAuth, result.AuthorizationID())
			transport.AssertExpectations(t)
		})
	}
}

func TestGateway_VerifyAuthorizeTransportError(t *testing.T) {
	gateway, transport := newTestGateway(t)
	transport.On("Post", mock.Anything, authURL, mock.Anything).
		Return(nil, errors.New("connection refused")).Once()

	result, err := gateway.Verify(context.Background(), testCard(), nil)

	require.Error(t, err)
	assert.Nil(t, result)
	transport.AssertNotCalled(t, "Post", mock.Anything, refURL, mock.Anything)
}

func TestGateway_CreditIsDeprecated(t *testing.T) {
	gateway, transport := newTestGateway(t)

	result, err := gateway.Credit(context.Background(), 100, "47994", nil)

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrCreditDeprecated))
	assert.Contains(t, err.Error(), "use refund instead")
	transport.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
}

func TestGateway_TransportErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode domain.ErrorCode
	}{
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), wantCode: domain.ErrorCodeGatewayUnavailable},
		{name: "deadline exceeded", err: context.DeadlineExceeded, wantCode: domain.ErrorCodeGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway, transport := newTestGateway(t)
			transport.On("Post", mock.Anything, authURL, mock.Anything).Return(nil, tt.err).Once()

			result, err := gateway.Purchase(context.Background(), 100, testCard(), nil)

			assert.Nil(t, result)
			assert.True(t, domain.IsGatewayError(err))
			assert.Equal(t, tt.wantCode, domain.GetErrorCode(err))
			assert.True(t, errors.Is(err, tt.err))
		})
	}
}

func TestGateway_RecordsScrubbedAudit(t *testing.T) {
	audit := new(MockAuditRepository)
	gateway, transport := newTestGateway(t, WithAuditRepository(audit))

	transport.On("Post", mock.Anything, authURL, mock.Anything).
		Return(okResponse(successfulPurchaseResponse), nil).Once()
	audit.On("Record", mock.Anything, mock.MatchedBy(func(entry *domainports.AuditEntry) bool {
		return entry.Action == "purch" &&
			entry.Endpoint == EndpointAuth &&
			entry.Authorization == "47654" &&
			entry.Success &&
			entry.OrderID == "order-1" &&
			entry.AmountCents != nil && *entry.AmountCents == 100 &&
			!strings.Contains(entry.Request, "4000100011112224") &&
			!strings.Contains(entry.Request, testPassword) &&
			strings.Contains(entry.Request, "<number>[FILTERED]</number>") &&
			strings.Contains(entry.Response, "<merchant>[FILTERED]</merchant>")
	})).Return(nil).Once()

	_, err := gateway.Purchase(context.Background(), 100, testCard(), &domainports.Options{OrderID: "order-1"})

	require.NoError(t, err)
	audit.AssertExpectations(t)
}

func TestGateway_AuditFailureDoesNotChangeResult(t *testing.T) {
	audit := new(MockAuditRepository)
	gateway, transport := newTestGateway(t, WithAuditRepository(audit))

	transport.On("Post", mock.Anything, refURL, mock.Anything).
		Return(okResponse(successfulVoidResponse), nil).Once()
	audit.On("Record", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	result, err := gateway.Void(context.Background(), "47993", nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestGateway_Info(t *testing.T) {
	gateway, _ := newTestGateway(t)

	info := gateway.Info()

	assert.Equal(t, "Awesomesauce", info.DisplayName)
	assert.Equal(t, "http://asgateway.com/", info.HomepageURL)
	assert.Equal(t, []string{"US"}, info.SupportedCountries)
	assert.Equal(t, "USD", info.DefaultCurrency)
	assert.Equal(t, []string{"visa", "master", "american_express"}, info.SupportedCardTypes)
	assert.True(t, info.SupportsScrubbing)
	assert.True(t, info.TestMode)
}

func TestGateway_LiveMode(t *testing.T) {
	config := DefaultConfig("production")
	config.Credentials = domain.Credentials{Login: testLogin, Password: testPassword}
	transport := new(MockTransport)
	gateway, err := NewGateway(config, transport, zap.NewNop())
	require.NoError(t, err)

	transport.On("Post", mock.Anything, "https://prod.awesomesauce.com/api/auth", mock.Anything).
		Return(okResponse(successfulPurchaseResponse), nil).Once()

	result, err := gateway.Purchase(context.Background(), 100, testCard(), nil)

	require.NoError(t, err)
	assert.False(t, result.Test)
	transport.AssertExpectations(t)
}
