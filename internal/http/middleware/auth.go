package middlewarex

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"zerostour/internal/config"
	"zerostour/internal/crud"
)

// AdminAuth guards the dashboard routes with the configured admin token.
// The token may come as X-Admin-Token or as a bearer token. X-Actor names
// the operator for the audit log.
func AdminAuth(cfg config.Cfg) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			if token == "" {
				if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
					token = strings.TrimPrefix(auth, "Bearer ")
				}
			}
			if cfg.Sec.AdminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(cfg.Sec.AdminToken)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			actor := strings.TrimSpace(r.Header.Get("X-Actor"))
			if actor == "" {
				actor = "admin"
			}
			role := strings.TrimSpace(r.Header.Get("X-Role"))
			if role == "" {
				role = cfg.Roles.Current
			}
			ctx := crud.WithActor(r.Context(), actor)
			ctx = WithRole(ctx, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
