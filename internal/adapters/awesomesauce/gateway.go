package awesomesauce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kevin07696/awesomesauce-gateway/internal/adapters/ports"
	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	domainports "github.com/kevin07696/awesomesauce-gateway/internal/domain/ports"
	"github.com/kevin07696/awesomesauce-gateway/pkg/observability"
	"go.uber.org/zap"
)

// Gateway implements domainports.CreditCardGateway for the AwesomeSauce XML API.
// It holds no per-call state and is safe for concurrent use.
type Gateway struct {
	config    *Config
	transport ports.Transport
	logger    *zap.Logger
	scrubber  Scrubber
	audit     domainports.AuditRepository
}

var (
	_ domainports.CreditCardGateway  = (*Gateway)(nil)
	_ domainports.TranscriptScrubber = (*Gateway)(nil)
)

// Option configures optional collaborators
type Option func(*Gateway)

// WithAuditRepository records every round trip in the given repository
func WithAuditRepository(repo domainports.AuditRepository) Option {
	return func(g *Gateway) {
		g.audit = repo
	}
}

// NewGateway creates a new AwesomeSauce gateway.
// It fails right away when the login or password is missing.
func NewGateway(config *Config, transport ports.Transport, logger *zap.Logger, opts ...Option) (*Gateway, error) {
	if config == nil {
		return nil, domain.WrapError(domain.ErrorCodeInvalidConfig, "config is required", nil)
	}
	if err := config.Credentials.Validate(); err != nil {
		return nil, err
	}
	if transport == nil {
		return nil, domain.WrapError(domain.ErrorCodeInvalidConfig, "transport is required", nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Gateway{
		config:    config,
		transport: transport,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Info returns the gateway's static description
func (g *Gateway) Info() Info {
	return Info{
		DisplayName:        "Awesomesauce",
		HomepageURL:        "http://asgateway.com/",
		SupportedCountries: []string{"US"},
		DefaultCurrency:    "USD",
		SupportedCardTypes: []string{"visa", "master", "american_express"},
		SupportsScrubbing:  g.SupportsScrubbing(),
		TestMode:           g.config.TestMode,
	}
}

// Purchase authorizes and captures amount (minor units) on the card
func (g *Gateway) Purchase(ctx context.Context, amount int64, card *domain.CreditCard, opts *domainports.Options) (*domain.GatewayResult, error) {
	fields := append(invoiceFields(amount), paymentFields(card)...)
	return g.commit(ctx, actionPurchase, EndpointAuth, fields, &amount, opts)
}

// Authorize places a hold for amount (minor units) on the card
func (g *Gateway) Authorize(ctx context.Context, amount int64, card *domain.CreditCard, opts *domainports.Options) (*domain.GatewayResult, error) {
	fields := append(invoiceFields(amount), paymentFields(card)...)
	return g.commit(ctx, actionAuthorize, EndpointAuth, fields, &amount, opts)
}

// Capture captures a previous authorization. The gateway always captures the
// full authorized amount; amount is only kept for the audit trail.
func (g *Gateway) Capture(ctx context.Context, amount int64, authorization string, opts *domainports.Options) (*domain.GatewayResult, error) {
	return g.commit(ctx, actionCapture, EndpointRef, referenceFields(authorization), &amount, opts)
}

// Void cancels a previous operation
func (g *Gateway) Void(ctx context.Context, authorization string, opts *domainports.Options) (*domain.GatewayResult, error) {
	return g.commit(ctx, actionVoid, EndpointRef, referenceFields(authorization), nil, opts)
}

// Refund has no message of its own on this gateway and is sent as a void
func (g *Gateway) Refund(ctx context.Context, amount int64, authorization string, opts *domainports.Options) (*domain.GatewayResult, error) {
	return g.Void(ctx, authorization, opts)
}

// Credit is not supported
func (g *Gateway) Credit(ctx context.Context, amount int64, authorization string, opts *domainports.Options) (*domain.GatewayResult, error) {
	g.logger.Warn("Deprecated credit operation called",
		zap.String("authorization", authorization),
	)
	return nil, domain.ErrCreditDeprecated
}

// SupportsScrubbing reports that transcripts of this gateway can be scrubbed
func (g *Gateway) SupportsScrubbing() bool {
	return g.scrubber.SupportsScrubbing()
}

// Scrub filters credentials and card data out of a wire transcript
func (g *Gateway) Scrub(transcript string) string {
	return g.scrubber.Scrub(transcript)
}

// commit builds, posts, parses and classifies one request
func (g *Gateway) commit(ctx context.Context, act action, endpoint string, fields []xmlField, amount *int64, opts *domainports.Options) (*domain.GatewayResult, error) {
	body, err := buildRequest(g.config.Credentials, act, fields)
	if err != nil {
		g.logger.Error("Failed to build gateway request",
			zap.String("action", string(act)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to build %s request: %w", act, err)
	}

	url := g.config.URL(endpoint)
	startTime := time.Now()

	resp, err := g.transport.Post(ctx, url, body)
	if err != nil {
		observability.RecordGatewayOperation(string(act), observability.OutcomeError, g.config.TestMode, time.Since(startTime).Seconds())
		g.logger.Error("No response from gateway",
			zap.String("action", string(act)),
			zap.String("endpoint", endpoint),
			zap.Duration("elapsed", time.Since(startTime)),
			zap.Error(err),
		)
		return nil, wrapTransportError(err, endpoint)
	}

	if !resp.IsSuccessStatus() {
		g.logger.Warn("Gateway returned non-success status, parsing body anyway",
			zap.String("action", string(act)),
			zap.Int("status_code", resp.StatusCode),
		)
	}

	result := classify(parseResponse(resp.Body), g.config.TestMode)

	outcome := observability.OutcomeSuccess
	if !result.Success {
		outcome = observability.OutcomeFailure
		code, _ := result.Params.Get(fieldCode)
		if _, known := GetResponseCodeInfo(code); code != "" && !known {
			code = "unknown"
		}
		observability.RecordGatewayErrorCode(string(act), code)
	}
	observability.RecordGatewayOperation(string(act), outcome, g.config.TestMode, time.Since(startTime).Seconds())

	g.logger.Info("Gateway operation completed",
		zap.String("action", string(act)),
		zap.String("endpoint", endpoint),
		zap.String("request_id", resp.RequestID),
		zap.Int("status_code", resp.StatusCode),
		zap.Bool("success", result.Success),
		zap.String("message", result.Message),
		zap.String("authorization", result.AuthorizationID()),
		zap.Duration("elapsed", time.Since(startTime)),
	)

	if ce := g.logger.Check(zap.DebugLevel, "Gateway transcript"); ce != nil {
		ce.Write(
			zap.String("request", g.Scrub(string(body))),
			zap.String("response", g.Scrub(string(resp.Body))),
		)
	}

	g.record(ctx, act, endpoint, amount, opts, body, resp, result)

	return result, nil
}

// record writes the audit entry; failures never change the operation's result
func (g *Gateway) record(ctx context.Context, act action, endpoint string, amount *int64, opts *domainports.Options, body []byte, resp *ports.TransportResponse, result *domain.GatewayResult) {
	if g.audit == nil {
		return
	}

	entry := domainports.NewAuditEntry(string(act), endpoint, result)
	entry.AmountCents = amount
	entry.StatusCode = resp.StatusCode
	entry.Request = g.Scrub(string(body))
	entry.Response = g.Scrub(string(resp.Body))
	if opts != nil {
		entry.OrderID = opts.OrderID
	}

	if err := g.audit.Record(ctx, entry); err != nil {
		observability.RecordAuditWriteFailure()
		g.logger.Warn("Failed to record gateway audit entry",
			zap.String("action", string(act)),
			zap.Error(err),
		)
	}
}

func wrapTransportError(err error, endpoint string) error {
	code := domain.ErrorCodeGatewayUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		code = domain.ErrorCodeGatewayTimeout
	}
	return domain.WrapError(code, "no response from gateway", err).WithDetail("endpoint", endpoint)
}
