package awesomesauce

import (
	"context"

	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	domainports "github.com/kevin07696/awesomesauce-gateway/internal/domain/ports"
	"github.com/kevin07696/awesomesauce-gateway/pkg/observability"
	"go.uber.org/zap"
)

// verifyAmount is the nominal authorization used to probe a card (1.00)
const verifyAmount int64 = 100

// Verify authorizes a nominal amount and voids it again so no hold remains.
//
// The void is sent whatever the authorization's outcome, with whatever
// reference it returned (possibly empty). Its result never changes the
// reported outcome, which is always the authorization's.
func (g *Gateway) Verify(ctx context.Context, card *domain.CreditCard, opts *domainports.Options) (*domain.GatewayResult, error) {
	auth, err := g.Authorize(ctx, verifyAmount, card, opts)
	if err != nil {
		return nil, err
	}

	void, err := g.Void(ctx, auth.AuthorizationID(), opts)
	switch {
	case err != nil:
		observability.RecordVerifyReleaseFailure()
		g.logger.Warn("Verify void failed, authorization may remain on hold",
			zap.String("authorization", auth.AuthorizationID()),
			zap.Error(err),
		)
	case !void.Success:
		observability.RecordVerifyReleaseFailure()
		g.logger.Warn("Verify void declined, authorization may remain on hold",
			zap.String("authorization", auth.AuthorizationID()),
			zap.String("message", void.Message),
		)
	}

	return auth, nil
}
