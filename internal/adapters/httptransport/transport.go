package httptransport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/awesomesauce-gateway/pkg/errors"
	pkghttp "github.com/kevin07696/awesomesauce-gateway/pkg/http"
	"github.com/kevin07696/awesomesauce-gateway/pkg/observability"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Transport error codes carried by pkgerrors.GatewayError
const (
	CodeRequestFailed = "TRANSPORT_REQUEST_FAILED"
	CodeCircuitOpen   = "TRANSPORT_CIRCUIT_OPEN"
	CodeRateLimited   = "TRANSPORT_RATE_LIMITED"
	CodeReadFailed    = "TRANSPORT_READ_FAILED"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-Id"

// maxResponseBytes bounds how much of a response body is read
const maxResponseBytes = 1 << 20

// errServerStatus marks a 5xx answer as a breaker failure while its body is still returned
var errServerStatus = errors.New("gateway answered with a server error status")

// BreakerConfig configures the circuit breaker in front of the gateway
type BreakerConfig struct {
	Enabled bool

	// ConsecutiveFailures trips the breaker
	ConsecutiveFailures uint32

	// OpenTimeout is how long the breaker stays open before probing
	OpenTimeout time.Duration

	// MaxHalfOpenRequests is the number of probes allowed while half-open
	MaxHalfOpenRequests uint32

	// Interval clears the closed-state counts, 0 never clears them
	Interval time.Duration
}

// Config configures the HTTP transport
type Config struct {
	Name    string
	Timeout time.Duration

	// RequestsPerSecond limits outbound requests, 0 disables the limiter
	RequestsPerSecond float64
	Burst             int

	Breaker BreakerConfig
	Client  *pkghttp.HTTPClientConfig
}

// DefaultConfig returns the transport defaults
func DefaultConfig() Config {
	return Config{
		Name:    "awesomesauce",
		Timeout: 30 * time.Second,
		Breaker: BreakerConfig{
			Enabled:             true,
			ConsecutiveFailures: 5,
			OpenTimeout:         30 * time.Second,
			MaxHalfOpenRequests: 1,
			Interval:            60 * time.Second,
		},
		Client: pkghttp.GatewayClientConfig(),
	}
}

// Transport posts XML documents to the gateway over HTTP.
// It never retries; a body received with any status is returned to the caller.
type Transport struct {
	name    string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*ports.TransportResponse]
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ ports.Transport = (*Transport)(nil)

// New creates a transport with a pooled HTTP client built from cfg
func New(cfg Config, logger *zap.Logger) *Transport {
	return NewWithClient(pkghttp.NewHTTPClient(cfg.Client, cfg.Timeout), cfg, logger)
}

// NewWithClient creates a transport around an existing HTTP client
func NewWithClient(client *http.Client, cfg Config, logger *zap.Logger) *Transport {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Name == "" {
		cfg.Name = "awesomesauce"
	}

	t := &Transport{
		name:   cfg.Name,
		client: client,
		logger: logger,
	}

	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	if cfg.Breaker.Enabled {
		t.breaker = newBreaker(cfg.Name, cfg.Breaker, logger)
		observability.SetCircuitBreakerState(cfg.Name, float64(gobreaker.StateClosed))
	}

	return t
}

func newBreaker(name string, cfg BreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[*ports.TransportResponse] {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	return gobreaker.NewCircuitBreaker[*ports.TransportResponse](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxHalfOpenRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			observability.SetCircuitBreakerState(name, float64(to))
			logger.Warn("Gateway circuit breaker changed state",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Post sends body to endpointURL with an XML content type
func (t *Transport) Post(ctx context.Context, endpointURL string, body []byte) (*ports.TransportResponse, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, pkgerrors.NewGatewayError(CodeRateLimited, "rate limiter wait aborted", endpointOf(endpointURL), err)
		}
	}

	if t.breaker == nil {
		return t.send(ctx, endpointURL, body)
	}

	resp, err := t.breaker.Execute(func() (*ports.TransportResponse, error) {
		resp, err := t.send(ctx, endpointURL, body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, errServerStatus
		}
		return resp, nil
	})

	switch {
	case err == nil:
		return resp, nil
	case errors.Is(err, errServerStatus):
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		t.logger.Warn("Circuit breaker rejected gateway request",
			zap.String("url", endpointURL),
			zap.String("state", t.breaker.State().String()),
		)
		return nil, pkgerrors.NewGatewayError(CodeCircuitOpen, "circuit breaker rejected request", endpointOf(endpointURL), err)
	default:
		return nil, err
	}
}

// State returns the breaker state, "disabled" without a breaker
func (t *Transport) State() string {
	if t.breaker == nil {
		return "disabled"
	}
	return t.breaker.State().String()
}

func (t *Transport) send(ctx context.Context, endpointURL string, body []byte) (*ports.TransportResponse, error) {
	endpoint := endpointOf(endpointURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.NewGatewayError(CodeRequestFailed, "failed to create request", endpoint, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/xml")
	httpReq.Header.Set("Accept", "application/xml")
	httpReq.Header.Set(RequestIDHeader, requestID)

	startTime := time.Now()
	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Error("Failed to send gateway request",
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Duration("elapsed", time.Since(startTime)),
			zap.Error(err),
		)
		return nil, pkgerrors.NewGatewayError(CodeRequestFailed, "failed to send request", endpoint, normalizeTimeout(err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		t.logger.Error("Failed to read gateway response body",
			zap.String("endpoint", endpoint),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, pkgerrors.NewGatewayError(CodeReadFailed, "failed to read response", endpoint, normalizeTimeout(err))
	}

	elapsed := time.Since(startTime)
	observability.RecordTransportResponse(endpoint, httpResp.StatusCode)

	t.logger.Debug("Received gateway response",
		zap.String("endpoint", endpoint),
		zap.String("request_id", requestID),
		zap.Int("status_code", httpResp.StatusCode),
		zap.Int("body_length", len(respBody)),
		zap.Duration("elapsed", elapsed),
	)

	return &ports.TransportResponse{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		RequestID:  requestID,
		Elapsed:    elapsed,
	}, nil
}

// normalizeTimeout makes client timeouts match context.DeadlineExceeded
func normalizeTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}

func endpointOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return rawURL
	}
	return u.Path
}
