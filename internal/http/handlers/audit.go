package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"zerostour/internal/services/audit"
)

// ListAudit handles audit log listing requests using the audit service
func ListAudit(auditService *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := parseListRequest(r)

		response, err := auditService.List(r.Context(), req)
		if err != nil {
			var serviceErr *audit.ServiceError
			if errors.As(err, &serviceErr) {
				http.Error(w, "failed to list audit entries: "+serviceErr.Error(), http.StatusInternalServerError)
			} else {
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}

// parseListRequest extracts list parameters from the query string
func parseListRequest(r *http.Request) audit.ListRequest {
	req := audit.ListRequest{Resource: r.URL.Query().Get("resource")}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			req.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			req.Offset = offset
		}
	}

	req.Validate()
	return req
}
