package session

import (
	"context"
	"testing"
	"time"

	"zerostour/internal/listing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePositionDefaults(t *testing.T) {
	defaults := listing.Query{Page: 1, PageSize: 8, SortBy: "fecha", SortDescending: true}
	st := &State{}
	assert.Equal(t, listing.Position{Query: defaults}, st.Position("vehicles", defaults))

	st.SetPosition("vehicles", listing.Position{Query: listing.Query{Page: 3, Search: "bus"}, TotalPages: 5})
	p := st.Position("vehicles", defaults)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 8, p.PageSize)
	assert.Equal(t, 5, p.TotalPages)
}

func TestStatePending(t *testing.T) {
	st := &State{}
	_, ok := st.PendingDelete("services")
	assert.False(t, ok)

	st.SetPending("services", 12)
	id, ok := st.PendingDelete("services")
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	st.ClearPending("services")
	_, ok = st.PendingDelete("services")
	assert.False(t, ok)
}

func TestEncodeDecode(t *testing.T) {
	st := &State{}
	st.SetPosition("vehicles", listing.Position{
		Query:      listing.Query{Page: 2, PageSize: 8, Filters: map[string]string{"status": "active"}},
		TotalPages: 3,
	})
	st.SetPending("vehicles", 5)

	b, err := Encode(st)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"totalPages":3`)
	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestDecodeWithoutPageCount(t *testing.T) {
	got, err := Decode([]byte(`{"lists":{"vehicles":{"page":2,"pageSize":8,"sortBy":"fecha","sortDescending":true}}}`))
	require.NoError(t, err)

	p := got.Position("vehicles", listing.Query{PageSize: 10})
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 8, p.PageSize)
	assert.Zero(t, p.TotalPages)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	m := NewMemoryStore(time.Hour)
	m.now = func() time.Time { return now }

	id := NewID()
	st, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, st.Lists)

	st.SetPosition("vehicles", listing.Position{Query: listing.Query{Page: 4, PageSize: 8}})
	require.NoError(t, m.Save(ctx, id, st))

	// The caller's copy is not shared with the store.
	st.SetPosition("vehicles", listing.Position{Query: listing.Query{Page: 9}})

	got, err := m.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Lists["vehicles"].Page)

	now = now.Add(2 * time.Hour)
	got, err = m.Load(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.Lists)
}

func TestMemoryStoreRejectsBadID(t *testing.T) {
	m := NewMemoryStore(time.Hour)
	_, err := m.Load(context.Background(), "../../etc")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, m.Save(context.Background(), "", &State{}), ErrInvalidID)
}

func TestSweep(t *testing.T) {
	m := NewMemoryStore(time.Hour)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	old, fresh := NewID(), NewID()
	require.NoError(t, m.Save(context.Background(), old, &State{}))
	now = now.Add(45 * time.Minute)
	require.NoError(t, m.Save(context.Background(), fresh, &State{}))

	assert.Equal(t, 0, m.Sweep())
	now = now.Add(30 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	NewSweeper(m, 0).tick()
	assert.Equal(t, 1, m.Len())
}

func TestSweeperStops(t *testing.T) {
	s := NewSweeper(NewMemoryStore(time.Hour), time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
