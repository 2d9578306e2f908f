package session

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper drops expired sessions from a MemoryStore on a fixed interval.
// Redis expires keys on its own and needs no sweeper.
type Sweeper struct {
	store      *MemoryStore
	sweepEvery time.Duration
}

func NewSweeper(store *MemoryStore, sweepEvery time.Duration) *Sweeper {
	if sweepEvery <= 0 {
		sweepEvery = time.Minute
	}
	return &Sweeper{store: store, sweepEvery: sweepEvery}
}

func (s *Sweeper) Run(ctx context.Context) {
	log.Info().Dur("every", s.sweepEvery).Msg("session sweeper: started")
	t := time.NewTicker(s.sweepEvery)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("session sweeper: stopping")
			return
		case <-t.C:
			s.tick()
		}
	}
}

func (s *Sweeper) tick() {
	if n := s.store.Sweep(); n > 0 {
		log.Debug().Int("expired", n).Int("live", s.store.Len()).Msg("session sweeper: removed expired sessions")
	}
}

// Sweep removes expired sessions and reports how many were removed.
func (m *MemoryStore) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, e := range m.data {
		if now.After(e.expires) {
			delete(m.data, id)
			removed++
		}
	}
	return removed
}

// Len is the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
