package postgres

import (
	"context"
	"errors"
	"fmt"

	"zerostour/internal/domain/audit"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// auditRepository implements AuditRepository over pgx
type auditRepository struct {
	db *pgxpool.Pool
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *pgxpool.Pool) *auditRepository {
	return &auditRepository{db: db}
}

// SaveBatch inserts entries in one round trip. Entries already stored
// (same correlation id) are skipped.
func (r *auditRepository) SaveBatch(ctx context.Context, entries []*audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(`
			INSERT INTO dashboard_audit (resource, action, record_id, actor, correlation_id, payload_json, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (correlation_id) DO NOTHING
			RETURNING id`,
			e.Resource, string(e.Action), e.RecordID, e.Actor, e.CorrelationID, nullJSON(e.Payload), e.At,
		).QueryRow(func(row pgx.Row) error {
			err := row.Scan(&e.ID)
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		})
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("save audit batch: %w", err)
	}
	return nil
}

// FindRecent lists entries newest first, optionally for one resource
func (r *auditRepository) FindRecent(ctx context.Context, resource string, limit, offset int) ([]*audit.Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, resource, action, record_id, actor, correlation_id, payload_json, created_at
		FROM dashboard_audit
		WHERE ($1 = '' OR resource = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, resource, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*audit.Entry
	for rows.Next() {
		var (
			e      audit.Entry
			action string
		)
		if err := rows.Scan(&e.ID, &e.Resource, &action, &e.RecordID, &e.Actor, &e.CorrelationID, &e.Payload, &e.At); err != nil {
			return nil, err
		}
		e.Action = audit.Action(action)
		out = append(out, &e)
	}
	return out, rows.Err()
}

// Count returns the number of entries, optionally for one resource
func (r *auditRepository) Count(ctx context.Context, resource string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT count(*) FROM dashboard_audit WHERE ($1 = '' OR resource = $1)`, resource).Scan(&n)
	return n, err
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
