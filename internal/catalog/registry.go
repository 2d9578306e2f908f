package catalog

import (
	"fmt"
	"sort"
	"sync"

	"zerostour/internal/crud"

	"github.com/rs/zerolog/log"
)

// Error is returned for lookups against the registry
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

const (
	ErrCodeNotFound  = "screen_not_found"
	ErrCodeForbidden = "screen_forbidden"
)

// Registry manages the admin resource screens
type Registry struct {
	screens   map[string]Screen
	observers []crud.Observer
	mu        sync.RWMutex
}

// NewRegistry creates a registry whose screens report mutations to observers
func NewRegistry(observers ...crud.Observer) *Registry {
	return &Registry{
		screens:   make(map[string]Screen),
		observers: observers,
	}
}

// Observe adds an observer to every screen, including ones already registered
func (r *Registry) Observe(fn crud.Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

func (r *Registry) snapshotObservers() []crud.Observer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]crud.Observer(nil), r.observers...)
}

// Register adds a screen for one resource, keyed by its slug
func Register[T Row, D any](r *Registry, info Info, cfg crud.Config[T, D], options map[string]crud.OptionLoader) Screen {
	if info.Name == "" {
		info.Name = cfg.Name
	}
	info.HasOptions = len(options) > 0
	s := &screen[T, D]{info: info, cfg: cfg, observers: r.snapshotObservers, options: options}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens[info.Slug] = s
	log.Info().
		Str("screen", info.Slug).
		Str("resource", info.Name).
		Strs("roles", info.Roles).
		Msg("registered resource screen")
	return s
}

// Get returns a screen by slug
func (r *Registry) Get(slug string) (Screen, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.screens[slug]
	if !ok {
		return nil, &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("screen %s not registered", slug)}
	}
	return s, nil
}

// GetForRole returns a screen by slug if role may use it
func (r *Registry) GetForRole(slug, role string) (Screen, error) {
	s, err := r.Get(slug)
	if err != nil {
		return nil, err
	}
	if !s.Info().Allows(role) {
		return nil, &Error{Code: ErrCodeForbidden, Message: fmt.Sprintf("role %s may not use %s", role, slug)}
	}
	return s, nil
}

// Infos returns every registered screen sorted by slug
func (r *Registry) Infos() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.screens))
	for _, s := range r.screens {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Slug < infos[j].Slug })
	return infos
}

// InfosForRole filters Infos by role
func (r *Registry) InfosForRole(role string) []Info {
	var out []Info
	for _, info := range r.Infos() {
		if info.Allows(role) {
			out = append(out, info)
		}
	}
	return out
}
