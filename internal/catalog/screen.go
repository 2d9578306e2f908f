package catalog

import (
	"context"
	"errors"
	"fmt"

	"zerostour/internal/crud"
	"zerostour/internal/listing"
	"zerostour/internal/resource"
)

// Row is a record that can be listed, edited and rendered as a table row.
type Row interface {
	crud.Record
	Row() []string
}

// Info describes one admin screen
type Info struct {
	Name       string             `json:"name"`
	Slug       string             `json:"slug"`
	Title      string             `json:"title"`
	Columns    []string           `json:"columns"`
	Roles      []string           `json:"roles"`
	Endpoints  resource.Endpoints `json:"endpoints"`
	HasOptions bool               `json:"hasOptions"`
}

// Allows reports whether role may use the screen. No roles means everyone.
func (i Info) Allows(role string) bool {
	if len(i.Roles) == 0 {
		return true
	}
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PendingDelete is a delete target awaiting confirmation
type PendingDelete struct {
	ID    int64  `json:"id"`
	Error string `json:"error,omitempty"`
}

// Outcome is the state of a screen after an action.
type Outcome struct {
	List      any              `json:"list"`
	Form      any              `json:"form,omitempty"`
	Pending   *PendingDelete   `json:"pending,omitempty"`
	Position  listing.Position `json:"-"`
	Rows      [][]string       `json:"-"`
	FormError string           `json:"-"`
	Footer    Footer           `json:"-"`
}

// Footer is the pagination line under a table
type Footer struct {
	Summary    string
	TotalPages int
	Links      []listing.Link
	Error      string
}

// Screen runs dashboard actions for one resource. Every call starts from
// the caller's saved position and reports the position to save afterwards.
type Screen interface {
	Info() Info
	List(ctx context.Context, at listing.Position) Outcome
	Browse(ctx context.Context, saved listing.Position, next listing.Query) Outcome
	Create(ctx context.Context, at listing.Position, fields map[string]any) (Outcome, error)
	Update(ctx context.Context, at listing.Position, id int64, fields map[string]any) (Outcome, error)
	SelectDelete(ctx context.Context, at listing.Position, id int64) (Outcome, error)
	ConfirmDelete(ctx context.Context, at listing.Position, id int64) (Outcome, error)
	Options(ctx context.Context, search string) (map[string][]crud.Option, error)
}

var (
	ErrNotListed  = errors.New("record is not on the current page")
	ErrNoOptions  = errors.New("screen has no select options")
	ErrFieldsFail = errors.New("invalid form fields")
)

type screen[T Row, D any] struct {
	info      Info
	cfg       crud.Config[T, D]
	observers func() []crud.Observer
	options   map[string]crud.OptionLoader
}

func (s *screen[T, D]) Info() Info { return s.info }

func (s *screen[T, D]) open(at listing.Position) *crud.Orchestrator[T, D] {
	o := crud.New(s.cfg)
	for _, fn := range s.observers() {
		o.Observe(fn)
	}
	o.List().Restore(at)
	return o
}

func (s *screen[T, D]) outcome(o *crud.Orchestrator[T, D]) Outcome {
	v := o.List().View()
	out := Outcome{List: v, Position: o.List().Position(), Footer: Footer{
		Summary:    listing.Summary(v.Start, v.End, v.TotalRecords),
		TotalPages: v.TotalPages,
		Links:      v.Links,
		Error:      v.Error,
	}}
	for _, item := range v.Items {
		out.Rows = append(out.Rows, item.Row())
	}
	if mode, _ := o.Dialog(); mode != crud.ModeClosed {
		st := o.Form().State()
		out.Form, out.FormError = st, st.Error
	}
	if rec, ok, msg := o.Pending(); ok {
		out.Pending = &PendingDelete{ID: rec.Key(), Error: msg}
	}
	return out
}

func (s *screen[T, D]) List(ctx context.Context, at listing.Position) Outcome {
	o := s.open(at)
	o.List().Load(ctx)
	return s.outcome(o)
}

// Browse moves from the saved position to next. Changing the search,
// filters, sort or page size starts over at page 1.
func (s *screen[T, D]) Browse(ctx context.Context, saved listing.Position, next listing.Query) Outcome {
	o := s.open(saved)
	o.List().Navigate(ctx, next)
	return s.outcome(o)
}

func (s *screen[T, D]) Create(ctx context.Context, at listing.Position, fields map[string]any) (Outcome, error) {
	o := s.open(at)
	o.OpenAdd()
	if err := o.Form().SetFields(fields); err != nil {
		return s.outcome(o), fmt.Errorf("%w: %v", ErrFieldsFail, err)
	}
	err := o.Submit(ctx)
	return s.outcome(o), err
}

func (s *screen[T, D]) Update(ctx context.Context, at listing.Position, id int64, fields map[string]any) (Outcome, error) {
	o := s.open(at)
	o.List().Load(ctx)
	rec, ok := find(o.List().View().Items, id)
	if !ok {
		return s.outcome(o), ErrNotListed
	}
	o.OpenEdit(rec)
	if err := o.Form().SetFields(fields); err != nil {
		return s.outcome(o), fmt.Errorf("%w: %v", ErrFieldsFail, err)
	}
	err := o.Submit(ctx)
	return s.outcome(o), err
}

func (s *screen[T, D]) SelectDelete(ctx context.Context, at listing.Position, id int64) (Outcome, error) {
	o := s.open(at)
	o.List().Load(ctx)
	rec, ok := find(o.List().View().Items, id)
	if !ok {
		return s.outcome(o), ErrNotListed
	}
	o.RequestDelete(rec)
	return s.outcome(o), nil
}

func (s *screen[T, D]) ConfirmDelete(ctx context.Context, at listing.Position, id int64) (Outcome, error) {
	o := s.open(at)
	o.List().Load(ctx)
	rec, ok := find(o.List().View().Items, id)
	if !ok {
		return s.outcome(o), ErrNotListed
	}
	o.RequestDelete(rec)
	err := o.ConfirmDelete(ctx)
	return s.outcome(o), err
}

func (s *screen[T, D]) Options(ctx context.Context, search string) (map[string][]crud.Option, error) {
	if len(s.options) == 0 {
		return nil, ErrNoOptions
	}
	return crud.LoadOptions(ctx, search, s.options)
}

func find[T crud.Record](items []T, id int64) (T, bool) {
	for _, item := range items {
		if item.Key() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}
