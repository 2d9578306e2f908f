package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"zerostour/internal/listing"
	"zerostour/internal/session"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server when REDIS_TEST_ADDR is set.
func testClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestSessionStoreRoundTrip(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()
	store := NewSessionStore(rdb, time.Minute)

	id := session.NewID()
	t.Cleanup(func() { rdb.Del(ctx, keyPrefix+id) })

	st, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, st.Lists)

	st.SetPosition("services", listing.Position{Query: listing.Query{Page: 2, PageSize: 8, Search: "quito"}, TotalPages: 4})
	st.SetPending("services", 7)
	require.NoError(t, store.Save(ctx, id, st))

	got, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, st, got)

	ttl, err := rdb.TTL(ctx, keyPrefix+id).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestSessionStoreCorruptEntry(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()
	store := NewSessionStore(rdb, time.Minute)

	id := session.NewID()
	t.Cleanup(func() { rdb.Del(ctx, keyPrefix+id) })
	require.NoError(t, rdb.Set(ctx, keyPrefix+id, "{not json", time.Minute).Err())

	st, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, st.Lists)
}

func TestSessionStoreRejectsBadID(t *testing.T) {
	store := NewSessionStore(nil, time.Minute)
	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, session.ErrInvalidID)
}
