package middlewarex

import (
	"net/http"

	"zerostour/internal/session"

	"github.com/rs/zerolog/log"
)

// Sessions loads the caller's dashboard state. A missing or malformed
// session id is replaced with a new one, which is echoed in the response.
func Sessions(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(session.Header)
			if !session.ValidID(id) {
				id = session.NewID()
			}
			w.Header().Set(session.Header, id)

			st, err := store.Load(r.Context(), id)
			if err != nil {
				log.Error().Err(err).Str("session_id", id).Msg("failed to load session")
				http.Error(w, "session unavailable", http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id, st)))
		})
	}
}
