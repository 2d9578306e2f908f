package repositories

import (
	"context"

	"zerostour/internal/domain/audit"
)

// AuditRepository defines the contract for audit log data access
type AuditRepository interface {
	SaveBatch(ctx context.Context, entries []*audit.Entry) error
	FindRecent(ctx context.Context, resource string, limit, offset int) ([]*audit.Entry, error)
	Count(ctx context.Context, resource string) (int, error)
}
