package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/wealthguard/internal/domain"
)

// AuditRepository mirrors audit entries into Postgres.
type AuditRepository interface {
	Record(ctx context.Context, entry domain.AuditLogEntry) error
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Record(ctx context.Context, entry domain.AuditLogEntry) error {
	if r.pool == nil {
		return errors.New("postgres pool not configured")
	}
	const query = `
        INSERT INTO audit_log (id, sequence, actor_id, acting_as_id, target_id, action, details, severity, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		int64(entry.Sequence),
		entry.ActorID,
		entry.ActingAsID,
		entry.TargetID,
		string(entry.Action),
		entry.Details,
		string(entry.Severity),
		entry.Timestamp,
	)
	return err
}
