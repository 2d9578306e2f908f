package audit

import (
	"context"

	"zerostour/internal/domain/audit"
	"zerostour/internal/store/repositories"
)

// ListRequest represents a paginated audit query
type ListRequest struct {
	Resource string `json:"resource,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Validate normalizes list request parameters
func (req *ListRequest) Validate() {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Offset < 0 {
		req.Offset = 0
	}
	if req.Limit > 200 {
		req.Limit = 200
	}
}

// ListResponse represents a page of audit entries
type ListResponse struct {
	Entries []*audit.Entry `json:"entries"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
	Total   int            `json:"total"`
}

// Service handles audit log retrieval
type Service struct {
	repo repositories.AuditRepository
}

// NewService creates a new audit service
func NewService(repo repositories.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Enabled reports whether entries are persisted at all
func (s *Service) Enabled() bool {
	return s.repo != nil
}

// List retrieves a page of audit entries, newest first
func (s *Service) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	req.Validate()
	resp := &ListResponse{Entries: []*audit.Entry{}, Limit: req.Limit, Offset: req.Offset}
	if s.repo == nil {
		return resp, nil
	}

	entries, err := s.repo.FindRecent(ctx, req.Resource, req.Limit, req.Offset)
	if err != nil {
		return nil, &ServiceError{Op: "list_audit", Err: err}
	}
	total, err := s.repo.Count(ctx, req.Resource)
	if err != nil {
		return nil, &ServiceError{Op: "count_audit", Err: err}
	}
	if entries != nil {
		resp.Entries = entries
	}
	resp.Total = total
	return resp, nil
}

// ServiceError represents an audit service error
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return "audit service " + e.Op + ": " + e.Err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
