package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/kevin07696/awesomesauce-gateway/internal/domain"
	"github.com/kevin07696/awesomesauce-gateway/internal/domain/ports"
)

const auditSchema = `
CREATE TABLE IF NOT EXISTS gateway_audit_log (
	id                UUID PRIMARY KEY,
	action            TEXT NOT NULL,
	endpoint          TEXT NOT NULL,
	amount            NUMERIC(12,2),
	authorization_ref TEXT,
	success           BOOLEAN NOT NULL,
	message           TEXT NOT NULL,
	error_code        TEXT,
	status_code       INTEGER NOT NULL,
	test              BOOLEAN NOT NULL,
	request           TEXT NOT NULL,
	response          TEXT NOT NULL,
	order_id          TEXT,
	created_at        TIMESTAMPTZ NOT NULL
)`

const auditIndex = `
CREATE INDEX IF NOT EXISTS idx_gateway_audit_log_authorization
	ON gateway_audit_log (authorization_ref, created_at)`

const insertAuditEntry = `
INSERT INTO gateway_audit_log (
	id, action, endpoint, amount, authorization_ref, success, message,
	error_code, status_code, test, request, response, order_id, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

const selectAuditByAuthorization = `
SELECT id, action, endpoint, amount, authorization_ref, success, message,
	error_code, status_code, test, request, response, order_id, created_at
FROM gateway_audit_log
WHERE authorization_ref = $1
ORDER BY created_at, id`

// DBTX is the subset of pgxpool.Pool and pgx.Tx used by the repository
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// AuditRepository implements ports.AuditRepository on PostgreSQL
type AuditRepository struct {
	db DBTX
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureSchema creates the audit table and its index if missing
func EnsureSchema(ctx context.Context, db *DBExecutor) error {
	err := db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, auditSchema); err != nil {
			return fmt.Errorf("create audit table: %w", err)
		}
		if _, err := tx.Exec(ctx, auditIndex); err != nil {
			return fmt.Errorf("create audit index: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "failed to prepare audit schema", err)
	}
	return nil
}

// Record inserts one entry. A missing ID or timestamp is filled in.
func (r *AuditRepository) Record(ctx context.Context, entry *ports.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	id, err := uuid.Parse(entry.ID)
	if err != nil {
		return fmt.Errorf("invalid audit entry ID: %w", err)
	}

	amount, err := centsToNumeric(entry.AmountCents)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, insertAuditEntry,
		id,
		entry.Action,
		entry.Endpoint,
		amount,
		nullText(entry.Authorization),
		entry.Success,
		entry.Message,
		nullText(entry.ErrorCode),
		entry.StatusCode,
		entry.Test,
		entry.Request,
		entry.Response,
		nullText(entry.OrderID),
		entry.CreatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrorCodeDatabaseError, "failed to insert audit entry", err).
			WithDetail("action", entry.Action)
	}

	return nil
}

// ListByAuthorization returns every round trip that carried the given
// authorization reference, oldest first
func (r *AuditRepository) ListByAuthorization(ctx context.Context, authorization string) ([]*ports.AuditEntry, error) {
	rows, err := r.db.Query(ctx, selectAuditByAuthorization, authorization)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "failed to query audit entries", err)
	}
	defer rows.Close()

	var entries []*ports.AuditEntry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrorCodeDatabaseError, "failed to read audit entries", err)
	}

	return entries, nil
}

func scanAuditEntry(rows pgx.Rows) (*ports.AuditEntry, error) {
	var (
		id            uuid.UUID
		amount        pgtype.Numeric
		authorization pgtype.Text
		errorCode     pgtype.Text
		orderID       pgtype.Text
		statusCode    int32
		entry         ports.AuditEntry
	)

	err := rows.Scan(
		&id,
		&entry.Action,
		&entry.Endpoint,
		&amount,
		&authorization,
		&entry.Success,
		&entry.Message,
		&errorCode,
		&statusCode,
		&entry.Test,
		&entry.Request,
		&entry.Response,
		&orderID,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan audit entry: %w", err)
	}

	entry.ID = id.String()
	entry.Authorization = authorization.String
	entry.ErrorCode = errorCode.String
	entry.OrderID = orderID.String
	entry.StatusCode = int(statusCode)
	if entry.AmountCents, err = numericToCents(amount); err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}

	return &entry, nil
}
