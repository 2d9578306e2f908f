package httpx

import (
	"encoding/json"
	"net/http"

	"zerostour/internal/catalog"
	"zerostour/internal/config"
	"zerostour/internal/http/handlers"
	middlewarex "zerostour/internal/http/middleware"
	"zerostour/internal/nav"
	"zerostour/internal/services/audit"
	"zerostour/internal/session"
	"zerostour/internal/trips"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config       config.Cfg
	Registry     *catalog.Registry
	Sessions     session.Store
	AuditService *audit.Service
	Trips        *trips.Generator
	Menu         []nav.Item
}

// NewRouter creates the dashboard backend router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// Health check (public)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "ok",
			"env":     deps.Config.App.Env,
			"audit":   deps.AuditService != nil && deps.AuditService.Enabled(),
			"message": "Zeros Tour dashboard running",
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	// Customer trip search
	if deps.Trips != nil {
		r.Get("/results", handlers.SearchTrips(deps.Trips))
	}

	// Dashboard routes (protected by admin auth)
	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewarex.AdminAuth(deps.Config))

		menu := deps.Menu
		if menu == nil {
			menu = nav.Menu(deps.Config.Roles.Menu)
		}
		r.Get("/menu", handlers.Menu(menu))
		r.Get("/resources", handlers.ListResources(deps.Registry))
		if deps.AuditService != nil {
			r.Get("/audit", handlers.ListAudit(deps.AuditService))
		}

		screens := handlers.ScreenDeps{
			Registry: deps.Registry,
			Sessions: deps.Sessions,
			Defaults: catalog.DefaultQuery(deps.Config.Dashboard),
		}
		r.Group(func(r chi.Router) {
			r.Use(middlewarex.Sessions(deps.Sessions))
			for _, info := range deps.Registry.Infos() {
				mountScreen(r, screens, info)
			}
		})
	})

	return r
}

// mountScreen adds the list, dialog and delete routes of one resource
func mountScreen(r chi.Router, deps handlers.ScreenDeps, info catalog.Info) {
	slug := info.Slug
	r.Route("/"+slug, func(r chi.Router) {
		r.Get("/", handlers.ListScreen(deps, slug))
		r.Post("/", handlers.CreateRecord(deps, slug))
		r.Put("/{id}", handlers.UpdateRecord(deps, slug))
		r.Post("/{id}/delete", handlers.SelectDelete(deps, slug))
		r.Delete("/pending", handlers.CancelDelete(deps, slug))
		r.Post("/delete/confirm", handlers.ConfirmDelete(deps, slug))
		if info.HasOptions {
			r.Get("/options", handlers.ScreenOptions(deps, slug))
		}
	})
}
