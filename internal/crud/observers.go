package crud

import (
	"context"

	"zerostour/internal/domain/audit"
	"zerostour/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Mutation is the outcome of one create, update or delete.
type Mutation struct {
	Resource string
	Action   audit.Action
	RecordID int64
	Payload  any
	Err      error
}

func (m Mutation) OK() bool { return m.Err == nil }

// Observer is told about every finished mutation, successful or not.
type Observer func(ctx context.Context, m Mutation)

type actorKey struct{}

// WithActor records who is acting for audit entries.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok {
		return v
	}
	return ""
}

// Notify logs the outcome the way the dashboard shows it to the user.
func Notify(_ context.Context, m Mutation) {
	if m.OK() {
		log.Info().
			Str("resource", m.Resource).
			Str("action", string(m.Action)).
			Int64("record_id", m.RecordID).
			Msg("saved")
		return
	}
	log.Warn().
		Str("resource", m.Resource).
		Str("action", string(m.Action)).
		Int64("record_id", m.RecordID).
		Err(m.Err).
		Msg("not saved")
}

// CountMutations increments the mutation counter for successes.
func CountMutations(_ context.Context, m Mutation) {
	if m.OK() {
		metrics.Mutations.WithLabelValues(m.Resource, string(m.Action)).Inc()
	}
}

// AuditSink accepts entries for persistence.
type AuditSink interface {
	Record(entry *audit.Entry)
}

// Audit returns an observer that turns successful mutations into audit
// entries.
func Audit(sink AuditSink) Observer {
	return func(ctx context.Context, m Mutation) {
		if !m.OK() {
			return
		}
		entry, err := audit.NewEntry(m.Resource, m.Action, m.RecordID, ActorFrom(ctx), m.Payload)
		if err != nil {
			log.Error().Err(err).Str("resource", m.Resource).Msg("failed to build audit entry")
			return
		}
		sink.Record(entry)
	}
}
