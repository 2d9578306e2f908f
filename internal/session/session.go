package session

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"sync"
	"time"

	"zerostour/internal/listing"

	"github.com/google/uuid"
)

// Header carries the session id between the dashboard and this server.
const Header = "X-Session-ID"

// State is what a dashboard user leaves behind between requests: where
// each list was and which row was awaiting delete confirmation.
type State struct {
	Lists   map[string]listing.Position `json:"lists,omitempty"`
	Pending map[string]int64            `json:"pending,omitempty"`
}

// Position returns the saved position of a screen, or defaults with an
// unknown page count.
func (s *State) Position(screen string, defaults listing.Query) listing.Position {
	if p, ok := s.Lists[screen]; ok {
		if p.PageSize <= 0 {
			p.PageSize = defaults.PageSize
		}
		return p
	}
	return listing.Position{Query: defaults}
}

func (s *State) SetPosition(screen string, p listing.Position) {
	if s.Lists == nil {
		s.Lists = map[string]listing.Position{}
	}
	s.Lists[screen] = p
}

// PendingDelete returns the row of screen awaiting confirmation.
func (s *State) PendingDelete(screen string) (int64, bool) {
	id, ok := s.Pending[screen]
	return id, ok
}

func (s *State) SetPending(screen string, id int64) {
	if s.Pending == nil {
		s.Pending = map[string]int64{}
	}
	s.Pending[screen] = id
}

func (s *State) ClearPending(screen string) {
	delete(s.Pending, screen)
}

// Store persists states by session id. Loading an unknown or expired id
// yields an empty state.
type Store interface {
	Load(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, id string, st *State) error
}

var ErrInvalidID = errors.New("invalid session id")

// NewID returns a fresh session id
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID produced
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Encode and Decode are the serialized form shared by stores.
func Encode(st *State) ([]byte, error) {
	return json.Marshal(st)
}

func Decode(b []byte) (*State, error) {
	st := &State{}
	if err := json.Unmarshal(b, st); err != nil {
		return nil, err
	}
	return st, nil
}

type memEntry struct {
	state   State
	expires time.Time
}

// MemoryStore keeps sessions in process. Used when Redis is not configured.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]memEntry
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{data: map[string]memEntry{}, ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*State, error) {
	if !ValidID(id) {
		return nil, ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[id]
	if !ok {
		return &State{}, nil
	}
	if m.ttl > 0 && m.now().After(e.expires) {
		delete(m.data, id)
		return &State{}, nil
	}
	return &State{Lists: maps.Clone(e.state.Lists), Pending: maps.Clone(e.state.Pending)}, nil
}

func (m *MemoryStore) Save(_ context.Context, id string, st *State) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[id] = memEntry{
		state:   State{Lists: maps.Clone(st.Lists), Pending: maps.Clone(st.Pending)},
		expires: m.now().Add(m.ttl),
	}
	return nil
}
