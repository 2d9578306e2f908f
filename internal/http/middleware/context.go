package middlewarex

import (
	"context"

	"zerostour/internal/session"
)

type ctxKey string

const (
	ctxRole      ctxKey = "role"
	ctxSessionID ctxKey = "session_id"
	ctxSession   ctxKey = "session"
)

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ctxRole, role)
}

func Role(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxRole).(string)
	return v, ok
}

func WithSession(ctx context.Context, id string, st *session.State) context.Context {
	ctx = context.WithValue(ctx, ctxSessionID, id)
	return context.WithValue(ctx, ctxSession, st)
}

// Session returns the id and state loaded by the Sessions middleware
func Session(ctx context.Context) (string, *session.State, bool) {
	id, ok := ctx.Value(ctxSessionID).(string)
	if !ok {
		return "", nil, false
	}
	st, ok := ctx.Value(ctxSession).(*session.State)
	return id, st, ok
}
