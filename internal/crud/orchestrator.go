package crud

import (
	"context"
	"errors"
	"sync"

	"zerostour/internal/domain/audit"
	"zerostour/internal/domain/validate"
	"zerostour/internal/form"
	"zerostour/internal/listing"
	"zerostour/internal/resource"

	"github.com/rs/zerolog/log"
)

var (
	ErrNoDialog        = errors.New("no dialog is open")
	ErrNoPendingDelete = errors.New("no delete is pending confirmation")
)

// Record is a row the dashboard can edit and delete.
type Record interface {
	Key() int64
}

// Collection is the remote side of one resource.
type Collection[T any, D any] interface {
	listing.Source[T]
	Create(ctx context.Context, draft D) (int64, error)
	Update(ctx context.Context, id int64, draft D) error
	Delete(ctx context.Context, id int64) error
}

// Mode of the add/edit dialog.
type Mode string

const (
	ModeClosed Mode = "closed"
	ModeAdd    Mode = "add"
	ModeEdit   Mode = "edit"
)

// Config describes one resource screen.
type Config[T Record, D any] struct {
	Name       string // wire name, e.g. "vehicle-type"
	Label      string // used in user-facing messages, e.g. "vehicle type"
	Collection Collection[T, D]
	Defaults   listing.Query
	NewDraft   func() D
	DraftOf    func(T) D
}

// Orchestrator binds dialog and delete actions for one resource to its
// list controller, form and collection.
type Orchestrator[T Record, D any] struct {
	name  string
	label string
	coll  Collection[T, D]
	list  *listing.Controller[T]
	form  *form.Form[D]
	seed  func(T) D

	mu        sync.Mutex
	mode      Mode
	editID    int64
	pending   *T
	deleteErr string
	observers []Observer
}

func New[T Record, D any](cfg Config[T, D]) *Orchestrator[T, D] {
	label := cfg.Label
	if label == "" {
		label = cfg.Name
	}
	return &Orchestrator[T, D]{
		name:  cfg.Name,
		label: label,
		coll:  cfg.Collection,
		list:  listing.New[T](cfg.Name, cfg.Collection, cfg.Defaults),
		form:  form.New(cfg.NewDraft()),
		seed:  cfg.DraftOf,
		mode:  ModeClosed,
	}
}

// Observe registers fn to be told about every finished mutation.
func (o *Orchestrator[T, D]) Observe(fn Observer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

func (o *Orchestrator[T, D]) Name() string                 { return o.name }
func (o *Orchestrator[T, D]) List() *listing.Controller[T] { return o.list }
func (o *Orchestrator[T, D]) Form() *form.Form[D]          { return o.form }

// OpenAdd opens the dialog with an empty draft.
func (o *Orchestrator[T, D]) OpenAdd() {
	o.form.Reset()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mode, o.editID = ModeAdd, 0
}

// OpenEdit opens the dialog seeded from rec.
func (o *Orchestrator[T, D]) OpenEdit(rec T) {
	o.form.Reset()
	o.form.SetForm(o.seed(rec))
	o.mu.Lock()
	defer o.mu.Unlock()
	o.mode, o.editID = ModeEdit, rec.Key()
}

// CloseDialog discards the draft.
func (o *Orchestrator[T, D]) CloseDialog() {
	o.mu.Lock()
	o.mode, o.editID = ModeClosed, 0
	o.mu.Unlock()
	o.form.Reset()
}

// Dialog reports the open dialog and, when editing, the record id.
func (o *Orchestrator[T, D]) Dialog() (Mode, int64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mode, o.editID
}

// Submit sends the draft. On success the dialog closes and the list
// reloads: page 1 after a create, the current page after an update. On
// failure the dialog stays open with the error in the form and the list
// is left alone.
func (o *Orchestrator[T, D]) Submit(ctx context.Context) error {
	mode, id := o.Dialog()
	if mode == ModeClosed {
		return ErrNoDialog
	}

	draft := o.form.Data()
	o.form.SetError("")
	o.form.SetLoading(true)

	action := audit.ActionCreate
	if mode == ModeEdit {
		action = audit.ActionUpdate
	}

	err := validateDraft(draft)
	if err == nil {
		if mode == ModeAdd {
			id, err = o.coll.Create(ctx, draft)
		} else {
			err = o.coll.Update(ctx, id, draft)
		}
	}
	o.form.SetLoading(false)

	if err != nil {
		o.form.SetError(message(err, o.failure(action)))
		o.notify(ctx, Mutation{Resource: o.name, Action: action, RecordID: id, Payload: draft, Err: err})
		return err
	}

	o.CloseDialog()
	o.notify(ctx, Mutation{Resource: o.name, Action: action, RecordID: id, Payload: draft})
	if mode == ModeAdd {
		o.list.ReloadFirst(ctx)
	} else {
		o.list.Reload(ctx)
	}
	return nil
}

// RequestDelete selects rec as the delete target. Nothing is sent until
// ConfirmDelete.
func (o *Orchestrator[T, D]) RequestDelete(rec T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = &rec
	o.deleteErr = ""
}

func (o *Orchestrator[T, D]) CancelDelete() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = nil
	o.deleteErr = ""
}

// Pending returns the delete target awaiting confirmation and the error of
// the last failed attempt, if any.
func (o *Orchestrator[T, D]) Pending() (rec T, ok bool, errMsg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pending == nil {
		return rec, false, ""
	}
	return *o.pending, true, o.deleteErr
}

// ConfirmDelete deletes the pending target and reloads the current page,
// stepping back a page if that emptied it. A failed delete keeps the
// target so the user can confirm again or cancel.
func (o *Orchestrator[T, D]) ConfirmDelete(ctx context.Context) error {
	o.mu.Lock()
	if o.pending == nil {
		o.mu.Unlock()
		return ErrNoPendingDelete
	}
	rec := *o.pending
	o.mu.Unlock()

	id := rec.Key()
	if err := o.coll.Delete(ctx, id); err != nil {
		o.mu.Lock()
		o.deleteErr = message(err, o.failure(audit.ActionDelete))
		o.mu.Unlock()
		o.notify(ctx, Mutation{Resource: o.name, Action: audit.ActionDelete, RecordID: id, Err: err})
		return err
	}

	o.mu.Lock()
	if o.pending != nil && (*o.pending).Key() == id {
		o.pending, o.deleteErr = nil, ""
	}
	o.mu.Unlock()

	o.notify(ctx, Mutation{Resource: o.name, Action: audit.ActionDelete, RecordID: id, Payload: rec})
	o.list.ReloadAfterRemoval(ctx, 1)
	return nil
}

func (o *Orchestrator[T, D]) failure(action audit.Action) string {
	switch action {
	case audit.ActionCreate:
		return "could not create " + o.label
	case audit.ActionUpdate:
		return "could not update " + o.label
	default:
		return "could not delete " + o.label
	}
}

func (o *Orchestrator[T, D]) notify(ctx context.Context, m Mutation) {
	o.mu.Lock()
	observers := append([]Observer(nil), o.observers...)
	o.mu.Unlock()

	if len(observers) == 0 && m.Err != nil {
		log.Debug().Err(m.Err).Str("resource", m.Resource).Str("action", string(m.Action)).Msg("mutation failed")
	}
	for _, fn := range observers {
		fn(ctx, m)
	}
}

func validateDraft(draft any) error {
	if v, ok := draft.(interface{ Validate() error }); ok {
		return v.Validate()
	}
	return nil
}

// message picks the inline text for a failed submit.
func message(err error, fallback string) string {
	var ve *validate.Error
	if errors.As(err, &ve) {
		return ve.Message
	}
	return resource.UserMessage(err, fallback)
}
