package listing

import (
	"context"
	"errors"
	"slices"
	"sync"

	"zerostour/internal/metrics"
	"zerostour/internal/resource"

	"github.com/looplab/fsm"
	"github.com/rs/zerolog/log"
)

// State of a list controller.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

const (
	eventFetch   = "fetch"
	eventSucceed = "succeed"
	eventFail    = "fail"
)

// Source is the part of a resource collection the controller needs.
type Source[T any] interface {
	List(ctx context.Context, req resource.PagedRequest) (*resource.PagedResponse[T], error)
}

// View is a consistent snapshot of a controller.
type View[T any] struct {
	Name         string `json:"resource"`
	State        State  `json:"state"`
	Query        Query  `json:"query"`
	Items        []T    `json:"items"`
	TotalRecords int    `json:"totalRecords"`
	TotalPages   int    `json:"totalPages"`
	Start        int    `json:"start"`
	End          int    `json:"end"`
	Links        []Link `json:"links,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Controller owns the query state of one paged list and the page it last
// committed. Fetches may overlap; only the most recently issued one is
// allowed to commit.
type Controller[T any] struct {
	name string
	src  Source[T]

	mu      sync.Mutex
	machine *fsm.FSM
	query   Query
	seq     uint64
	cancel  context.CancelFunc
	page    *resource.PagedResponse[T]
	err     error
	// bound is the last known page count of the current selection, 0 when
	// unknown. It outlives failed fetches.
	bound int
}

// New creates an idle controller starting from defaults. Nothing is
// fetched until Load or a navigation call.
func New[T any](name string, src Source[T], defaults Query) *Controller[T] {
	if defaults.Page < 1 {
		defaults.Page = 1
	}
	c := &Controller[T]{name: name, src: src, query: defaults.clone()}
	c.machine = fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: eventFetch, Src: []string{string(StateIdle), string(StateLoading), string(StateLoaded), string(StateFailed)}, Dst: string(StateLoading)},
			{Name: eventSucceed, Src: []string{string(StateLoading)}, Dst: string(StateLoaded)},
			{Name: eventFail, Src: []string{string(StateLoading)}, Dst: string(StateFailed)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug().
					Str("resource", name).
					Str("from", e.Src).
					Str("to", e.Dst).
					Msg("list state changed")
			},
		},
	)
	return c
}

// Load fetches the current query (mount, or manual refresh).
func (c *Controller[T]) Load(ctx context.Context) {
	c.Navigate(ctx, c.Query())
}

// Navigate moves to next and fetches it. A change of search, filters, sort
// or page size restarts at page 1; the page is clamped to the known range.
// When the range was unknown and the answer shows the page past the end,
// the last page is fetched instead.
func (c *Controller[T]) Navigate(ctx context.Context, next Query) {
	c.mu.Lock()
	q := c.resolve(next)
	c.mu.Unlock()
	if c.fetch(ctx, q) {
		c.settle(ctx)
	}
}

// settle refetches the last page when the committed page lies past it.
func (c *Controller[T]) settle(ctx context.Context) {
	c.mu.Lock()
	if c.page == nil || c.query.Page <= c.bound {
		c.mu.Unlock()
		return
	}
	q := c.query.clone()
	q.Page = c.bound
	c.mu.Unlock()

	log.Debug().
		Str("resource", c.name).
		Int("page", q.Page).
		Msg("page out of range, loading last page")
	c.fetch(ctx, q)
}

func (c *Controller[T]) SetPage(ctx context.Context, page int) {
	q := c.Query()
	q.Page = page
	c.Navigate(ctx, q)
}

func (c *Controller[T]) Next(ctx context.Context) {
	q := c.Query()
	q.Page++
	c.Navigate(ctx, q)
}

func (c *Controller[T]) Previous(ctx context.Context) {
	q := c.Query()
	if q.Page <= 1 {
		return
	}
	q.Page--
	c.Navigate(ctx, q)
}

func (c *Controller[T]) SetPageSize(ctx context.Context, size int) {
	q := c.Query()
	q.PageSize = size
	c.Navigate(ctx, q)
}

func (c *Controller[T]) SetSearch(ctx context.Context, search string) {
	q := c.Query()
	q.Search = search
	c.Navigate(ctx, q)
}

func (c *Controller[T]) SetFilter(ctx context.Context, name, value string) {
	q := c.Query()
	if q.Filters == nil {
		q.Filters = map[string]string{}
	}
	q.Filters[name] = value
	c.Navigate(ctx, q)
}

func (c *Controller[T]) SetSort(ctx context.Context, by string, descending bool) {
	q := c.Query()
	q.SortBy, q.SortDescending = by, descending
	c.Navigate(ctx, q)
}

// ResetFilters clears search and filters and returns to page 1.
func (c *Controller[T]) ResetFilters(ctx context.Context) {
	q := c.Query()
	q.Search, q.Filters, q.Page = "", nil, 1
	c.Navigate(ctx, q)
}

// Reload fetches the current page again, as after an edit.
func (c *Controller[T]) Reload(ctx context.Context) {
	c.Load(ctx)
}

// ReloadFirst fetches page 1 of the current selection.
func (c *Controller[T]) ReloadFirst(ctx context.Context) {
	c.SetPage(ctx, 1)
}

// ReloadAfterRemoval refreshes the current page after removed rows were
// deleted from it. When that empties the last page the previous page is
// fetched instead.
func (c *Controller[T]) ReloadAfterRemoval(ctx context.Context, removed int) {
	c.mu.Lock()
	q := c.query.clone()
	if c.page != nil && q.Page > 1 && len(c.page.Items) <= removed {
		q.Page--
	}
	c.mu.Unlock()
	c.fetch(ctx, q)

	// Someone else may have emptied the page in the meantime.
	v := c.View()
	if v.State == StateLoaded && len(v.Items) == 0 && v.Query.Page > 1 {
		c.SetPage(ctx, max(v.TotalPages, 1))
	}
}

// Restore replaces the query without fetching, for controllers rebuilt
// from a saved session. A known page count bounds later navigation.
func (c *Controller[T]) Restore(p Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := p.Query
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = c.query.PageSize
	}
	c.query = q.clone()
	c.bound = max(p.TotalPages, 0)
	if c.bound > 0 && c.query.Page > c.bound {
		c.query.Page = c.bound
	}
}

// Query returns a copy of the current query.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.clone()
}

// Position returns the current query with the last known page count.
func (c *Controller[T]) Position() Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Position{Query: c.query.clone(), TotalPages: c.bound}
}

// State returns the current state.
func (c *Controller[T]) State() State {
	return State(c.machine.Current())
}

// View returns a snapshot safe to hand to the presentation layer.
func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View[T]{
		Name:  c.name,
		State: State(c.machine.Current()),
		Query: c.query.clone(),
		Items: []T{},
	}
	if c.err != nil {
		v.Error = c.err.Error()
	}
	if c.page != nil {
		v.Items = slices.Clone(c.page.Items)
		v.TotalRecords = c.page.TotalRecords
		v.TotalPages = c.page.TotalPages
		v.Start, v.End = c.page.Range()
		v.Links = Links(c.query.Page, c.page.TotalPages)
	}
	return v
}

// resolve applies the navigation rules to next. Caller holds c.mu.
func (c *Controller[T]) resolve(next Query) Query {
	next = next.clone()
	if next.PageSize <= 0 {
		next.PageSize = c.query.PageSize
	}
	if !sameSelection(c.query, next) {
		next.Page = 1
		c.bound = 0
	}
	if next.Page < 1 {
		next.Page = 1
	}
	if c.bound > 0 && next.Page > c.bound {
		next.Page = c.bound
	}
	return next
}

// fetch loads q and reports whether its page was committed.
func (c *Controller[T]) fetch(ctx context.Context, q Query) bool {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.query = q
	if c.cancel != nil {
		c.cancel() // the superseded request's result is dropped anyway
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.transition(eventFetch)
	c.mu.Unlock()
	defer cancel()

	page, err := c.src.List(ctx, q.Request())

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		metrics.StaleResponses.Inc()
		log.Debug().
			Str("resource", c.name).
			Uint64("seq", seq).
			Uint64("latest", c.seq).
			Msg("discarding stale list response")
		return false
	}
	c.cancel = nil
	if err != nil {
		c.page = nil
		c.err = err
		c.transition(eventFail)
		log.Warn().
			Str("resource", c.name).
			Int("page", q.Page).
			Err(err).
			Msg("list load failed")
		return false
	}
	c.page = page
	c.err = nil
	c.bound = max(page.TotalPages, 1)
	c.transition(eventSucceed)
	return true
}

// transition fires a state machine event. Caller holds c.mu.
func (c *Controller[T]) transition(event string) {
	err := c.machine.Event(context.Background(), event)
	var noop fsm.NoTransitionError
	if err != nil && !errors.As(err, &noop) {
		log.Error().Err(err).Str("resource", c.name).Str("event", event).Msg("invalid list transition")
	}
}
