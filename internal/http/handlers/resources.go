package handlers

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"strconv"
	"strings"

	"zerostour/internal/catalog"
	"zerostour/internal/crud"
	"zerostour/internal/domain/validate"
	middlewarex "zerostour/internal/http/middleware"
	"zerostour/internal/listing"
	"zerostour/internal/resource"
	"zerostour/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ScreenDeps is what the resource screen handlers share
type ScreenDeps struct {
	Registry *catalog.Registry
	Sessions session.Store
	Defaults listing.Query
}

// outcomeResponse is a screen outcome plus the error message, if any
type outcomeResponse struct {
	catalog.Outcome
	Error string `json:"error,omitempty"`
}

// ListScreen returns a page of a resource. The page, pageSize, search,
// sortBy, sortDesc and filter.<name> query parameters move the saved list.
func ListScreen(deps ScreenDeps, slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen, sid, st, ok := openScreen(w, r, deps, slug)
		if !ok {
			return
		}
		saved := st.Position(slug, deps.Defaults)
		out := screen.Browse(r.Context(), saved, parseQuery(r, saved.Query))
		commit(r, deps, slug, sid, st, out)
		writeOutcome(w, listStatus(out), out, nil)
	}
}

// CreateRecord submits the add dialog with the fields in the body
func CreateRecord(deps ScreenDeps, slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen, sid, st, ok := openScreen(w, r, deps, slug)
		if !ok {
			return
		}
		fields, ok := decodeFields(w, r)
		if !ok {
			return
		}
		out, err := screen.Create(r.Context(), st.Position(slug, deps.Defaults), fields)
		commit(r, deps, slug, sid, st, out)
		writeOutcome(w, statusFor(err, http.StatusCreated), out, err)
	}
}

// UpdateRecord submits the edit dialog of a row on the current page
func UpdateRecord(deps ScreenDeps, slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen, sid, st, ok := openScreen(w, r, deps, slug)
		if !ok {
			return
		}
		id, ok := recordID(w, r)
		if !ok {
			return
		}
		fields, ok := decodeFields(w, r)
		if !ok {
			return
		}
		out, err := screen.Update(r.Context(), st.Position(slug, deps.Defaults), id, fields)
		commit(r, deps, slug, sid, st, out)
		writeOutcome(w, statusFor(err, http.StatusOK), out, err)
	}
}

// SelectDelete marks a row on the current page for deletion
func SelectDelete(deps ScreenDeps, slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen, sid, st, ok := openScreen(w, r, deps, slug)
		if !ok {
			return
		}
		id, ok := recordID(w, r)
		if !ok {
			return
		}
		out, err := screen.SelectDelete(r.Context(), st.Position(slug, deps.Defaults), id)
		if err == nil {
			st.SetPending(slug, id)
		}
		commit(r, deps, slug, sid, st, out)
		writeOutcome(w, statusFor(err, http.StatusOK), out, err)
	}
}

// CancelDelete forgets the pending delete target
func CancelDelete(deps ScreenDeps, slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen, sid, st, ok := openScreen(w, r, deps, slug)
		if !ok {
			return
		}
		st.ClearPending(slug)
		out := screen.List(r.Context(), st.Position(slug, deps.Defaults))
		commit(r, deps, slug, sid, st, out)
		writeOutcome(w, listStatus(out), out, nil)
	}
}

// ConfirmDelete deletes the pending target. On failure the target stays
// pending so the confirmation can be retried.
func ConfirmDelete(deps ScreenDeps, slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen, sid, st, ok := openScreen(w, r, deps, slug)
		if !ok {
			return
		}
		id, ok := st.PendingDelete(slug)
		if !ok {
			http.Error(w, crud.ErrNoPendingDelete.Error(), http.StatusConflict)
			return
		}
		out, err := screen.ConfirmDelete(r.Context(), st.Position(slug, deps.Defaults), id)
		switch {
		case err == nil, errors.Is(err, catalog.ErrNotListed):
			st.ClearPending(slug)
		}
		commit(r, deps, slug, sid, st, out)
		writeOutcome(w, statusFor(err, http.StatusOK), out, err)
	}
}

// ScreenOptions loads the select box choices of a resource dialog
func ScreenOptions(deps ScreenDeps, slug string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		screen, _, _, ok := openScreen(w, r, deps, slug)
		if !ok {
			return
		}
		options, err := screen.Options(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			if errors.Is(err, catalog.ErrNoOptions) {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": "could not load options"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(options)
	}
}

func openScreen(w http.ResponseWriter, r *http.Request, deps ScreenDeps, slug string) (catalog.Screen, string, *session.State, bool) {
	role, _ := middlewarex.Role(r.Context())
	screen, err := deps.Registry.GetForRole(slug, role)
	if err != nil {
		var ce *catalog.Error
		if errors.As(err, &ce) && ce.Code == catalog.ErrCodeForbidden {
			http.Error(w, ce.Message, http.StatusForbidden)
		} else {
			http.Error(w, err.Error(), http.StatusNotFound)
		}
		return nil, "", nil, false
	}
	sid, st, ok := middlewarex.Session(r.Context())
	if !ok {
		http.Error(w, "session not found", http.StatusInternalServerError)
		return nil, "", nil, false
	}
	return screen, sid, st, true
}

// commit saves where the list ended up. Save failures are logged only.
func commit(r *http.Request, deps ScreenDeps, slug, sid string, st *session.State, out catalog.Outcome) {
	st.SetPosition(slug, out.Position)
	if err := deps.Sessions.Save(r.Context(), sid, st); err != nil {
		log.Error().Err(err).Str("session_id", sid).Str("screen", slug).Msg("failed to save session")
	}
}

func parseQuery(r *http.Request, saved listing.Query) listing.Query {
	params := r.URL.Query()
	q := saved
	cloned := false
	if v, err := strconv.Atoi(params.Get("page")); err == nil {
		q.Page = v
	}
	if v, err := strconv.Atoi(params.Get("pageSize")); err == nil && v > 0 {
		q.PageSize = v
	}
	if params.Has("search") {
		q.Search = strings.TrimSpace(params.Get("search"))
	}
	if params.Has("sortBy") {
		q.SortBy = params.Get("sortBy")
	}
	if v, err := strconv.ParseBool(params.Get("sortDesc")); err == nil {
		q.SortDescending = v
	}
	for key, values := range params {
		name, ok := strings.CutPrefix(key, "filter.")
		if !ok || name == "" {
			continue
		}
		if !cloned {
			q.Filters = maps.Clone(saved.Filters)
			if q.Filters == nil {
				q.Filters = map[string]string{}
			}
			cloned = true
		}
		q.Filters[name] = values[0]
	}
	return q
}

func decodeFields(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return nil, false
	}
	return fields, true
}

func recordID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// statusFor maps a screen error to a status code
func statusFor(err error, ok int) int {
	var ve *validate.Error
	switch {
	case err == nil:
		return ok
	case errors.Is(err, catalog.ErrFieldsFail), errors.As(err, &ve), resource.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrNotListed):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// listStatus reports a list that could not be fetched as a gateway error
func listStatus(out catalog.Outcome) int {
	if out.Footer.Error != "" {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

func writeOutcome(w http.ResponseWriter, status int, out catalog.Outcome, err error) {
	resp := outcomeResponse{Outcome: out}
	if err != nil {
		resp.Error = errorMessage(err, out)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

// errorMessage prefers what the screen already shows the user
func errorMessage(err error, out catalog.Outcome) string {
	if out.Pending != nil && out.Pending.Error != "" {
		return out.Pending.Error
	}
	if out.FormError != "" {
		return out.FormError
	}
	if errors.Is(err, catalog.ErrFieldsFail) || errors.Is(err, catalog.ErrNotListed) {
		return err.Error()
	}
	return resource.UserMessage(err, "request failed")
}
