package ports

import (
	"context"

	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
)

// Options carries optional per-call data. The gateway does not transmit any of it
// but it is recorded in the audit trail.
type Options struct {
	OrderID     string
	Description string
	Metadata    map[string]string
}

// CreditCardGateway defines the interface for credit card payment operations.
// Amounts are integer minor units (cents).
//
// A non-nil error means no gateway response was obtained at all. Declines and
// malformed responses are reported through GatewayResult with Success=false.
type CreditCardGateway interface {
	// Purchase authorizes and captures in one step
	Purchase(ctx context.Context, amount int64, card *domain.CreditCard, opts *Options) (*domain.GatewayResult, error)

	// Authorize places a hold without capturing it
	Authorize(ctx context.Context, amount int64, card *domain.CreditCard, opts *Options) (*domain.GatewayResult, error)

	// Capture captures a previously authorized payment
	Capture(ctx context.Context, amount int64, authorization string, opts *Options) (*domain.GatewayResult, error)

	// Void cancels a previous operation
	Void(ctx context.Context, authorization string, opts *Options) (*domain.GatewayResult, error)

	// Refund returns funds for a previous operation
	Refund(ctx context.Context, amount int64, authorization string, opts *Options) (*domain.GatewayResult, error)

	// Verify checks the card with an authorization that is released right away
	Verify(ctx context.Context, card *domain.CreditCard, opts *Options) (*domain.GatewayResult, error)

	// Credit is no longer supported and always returns domain.ErrCreditDeprecated
	Credit(ctx context.Context, amount int64, authorization string, opts *Options) (*domain.GatewayResult, error)
}

// TranscriptScrubber removes credentials and card data from wire transcripts
// before they reach logs or storage
type TranscriptScrubber interface {
	SupportsScrubbing() bool
	Scrub(transcript string) string
}
