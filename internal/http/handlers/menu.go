package handlers

import (
	"encoding/json"
	"net/http"

	"zerostour/internal/catalog"
	middlewarex "zerostour/internal/http/middleware"
	"zerostour/internal/nav"
)

// Menu returns the sidebar entries visible to the caller's role
func Menu(items []nav.Item) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, _ := middlewarex.Role(r.Context())
		visible := nav.ForRole(items, role)
		if visible == nil {
			visible = []nav.Item{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(visible)
	}
}

// ListResources describes the resource screens the caller's role may use
func ListResources(registry *catalog.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, _ := middlewarex.Role(r.Context())
		infos := registry.InfosForRole(role)
		if infos == nil {
			infos = []catalog.Info{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(infos)
	}
}
