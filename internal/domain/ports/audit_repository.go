package ports

import (
	"context"
	"time"

	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
)

// AuditEntry is one gateway round trip as persisted in the audit trail.
// Request and Response hold scrubbed wire bodies only.
type AuditEntry struct {
	ID            string
	Action        string
	Endpoint      string
	AmountCents   *int64
	Authorization string
	Success       bool
	Message       string
	ErrorCode     string
	StatusCode    int
	Test          bool
	Request       string
	Response      string
	OrderID       string
	CreatedAt     time.Time
}

// AuditRepository persists audit entries
type AuditRepository interface {
	Record(ctx context.Context, entry *AuditEntry) error
	ListByAuthorization(ctx context.Context, authorization string) ([]*AuditEntry, error)
}

// NewAuditEntry builds an audit entry from a classified result
func NewAuditEntry(action, endpoint string, result *domain.GatewayResult) *AuditEntry {
	entry := &AuditEntry{
		Action:    action,
		Endpoint:  endpoint,
		CreatedAt: time.Now().UTC(),
	}
	if result != nil {
		entry.Success = result.Success
		entry.Message = result.Message
		entry.Authorization = result.AuthorizationID()
		entry.ErrorCode = result.ErrorDescription()
		entry.Test = result.Test
	}
	return entry
}
