package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"zerostour/internal/domain/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real database when DB_TEST_DSN is set.
func TestAuditRepository(t *testing.T) {
	dsn := os.Getenv("DB_TEST_DSN")
	if dsn == "" {
		t.Skip("DB_TEST_DSN not set")
	}
	ctx := context.Background()
	pool := MustOpen(ctx, dsn, 5*time.Second)
	t.Cleanup(pool.Close)

	repo := NewAuditRepository(pool)
	resource := "test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() {
		_, _ = pool.Exec(ctx, `DELETE FROM dashboard_audit WHERE resource = $1`, resource)
	})

	first, err := audit.NewEntry(resource, audit.ActionCreate, 1, "admin", map[string]any{"name": "Coach"})
	require.NoError(t, err)
	second, err := audit.NewEntry(resource, audit.ActionDelete, 1, "admin", nil)
	require.NoError(t, err)
	second.At = first.At.Add(time.Second)

	require.NoError(t, repo.SaveBatch(ctx, []*audit.Entry{first, second}))
	assert.NotZero(t, first.ID)

	// Re-sending the same entries is harmless.
	require.NoError(t, repo.SaveBatch(ctx, []*audit.Entry{first}))

	n, err := repo.Count(ctx, resource)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := repo.FindRecent(ctx, resource, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, audit.ActionDelete, got[0].Action)
	assert.Equal(t, first.CorrelationID, got[1].CorrelationID)
	assert.JSONEq(t, `{"name":"Coach"}`, string(got[1].Payload))
}
