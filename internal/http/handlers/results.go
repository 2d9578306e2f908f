package handlers

import (
	"encoding/json"
	"net/http"

	"zerostour/internal/trips"
)

// SearchTrips renders the trip results for the search in the query string
func SearchTrips(generator *trips.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		search, err := trips.ParseSearch(r.URL.Query(), generator.Now())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		results, err := generator.Results(search)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(results)
	}
}
