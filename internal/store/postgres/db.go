package postgres

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// MustOpen connects and pings, retrying with exponential backoff until
// maxWait has passed, then makes sure the schema exists.
func MustOpen(ctx context.Context, dsn string, maxWait time.Duration) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect fail")
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait
	err = backoff.RetryNotify(func() error {
		return pool.Ping(ctx)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		log.Warn().Err(err).Dur("retry_in", next).Msg("db not ready")
	})
	if err != nil {
		log.Fatal().Err(err).Msg("db ping fail")
	}

	if err := EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("db schema fail")
	}
	return pool
}

const schema = `
CREATE TABLE IF NOT EXISTS dashboard_audit (
    id             BIGSERIAL PRIMARY KEY,
    resource       TEXT        NOT NULL,
    action         TEXT        NOT NULL,
    record_id      BIGINT      NOT NULL,
    actor          TEXT        NOT NULL,
    correlation_id UUID        NOT NULL UNIQUE,
    payload_json   JSONB,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS dashboard_audit_resource_idx ON dashboard_audit (resource, created_at DESC);
`

// EnsureSchema creates the audit table if it is missing
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
