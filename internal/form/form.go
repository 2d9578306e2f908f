package form

import (
	"fmt"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// State is what an add/edit dialog renders.
type State[D any] struct {
	Data    D      `json:"data"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

// Form holds one draft. It does no I/O.
type Form[D any] struct {
	mu      sync.RWMutex
	initial D
	state   State[D]
}

func New[D any](initial D) *Form[D] {
	return &Form[D]{initial: initial, state: State[D]{Data: initial}}
}

// State returns a copy of the current state.
func (f *Form[D]) State() State[D] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Data returns the current draft.
func (f *Form[D]) Data() D {
	return f.State().Data
}

// SetField merges one field into the draft, leaving the others untouched.
// name is the field's json name; value is converted the way a form post
// would need ("40" into an int, "true" into a bool).
func (f *Form[D]) SetField(name string, value any) error {
	return f.SetFields(map[string]any{name: value})
}

// SetFields merges several fields at once. Unknown fields are rejected and
// leave the draft unchanged.
func (f *Form[D]) SetFields(fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := f.state.Data
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &next,
	})
	if err != nil {
		return fmt.Errorf("form decoder: %w", err)
	}
	if err := dec.Decode(fields); err != nil {
		return fmt.Errorf("set fields: %w", err)
	}
	f.state.Data = next
	return nil
}

// SetForm replaces the whole draft, as when an edit dialog is seeded.
func (f *Form[D]) SetForm(data D) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Data = data
}

func (f *Form[D]) SetLoading(loading bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Loading = loading
}

// SetError sets the inline error. An empty message clears it.
func (f *Form[D]) SetError(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Error = message
}

// Reset restores the initial draft and clears loading and error.
func (f *Form[D]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = State[D]{Data: f.initial}
}
