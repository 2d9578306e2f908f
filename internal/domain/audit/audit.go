package audit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry records one mutation made from the dashboard
type Entry struct {
	ID            int64           `json:"id"`
	Resource      string          `json:"resource"`
	Action        Action          `json:"action"`
	RecordID      int64           `json:"recordId"`
	Actor         string          `json:"actor"`
	CorrelationID string          `json:"correlationId"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	At            time.Time       `json:"at"`
}

// Action represents the kind of mutation
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// NewEntry creates a new entry with validation
func NewEntry(resource string, action Action, recordID int64, actor string, payload any) (*Entry, error) {
	resource = strings.TrimSpace(resource)
	if resource == "" {
		return nil, fmt.Errorf("audit resource is required")
	}
	switch action {
	case ActionCreate, ActionUpdate, ActionDelete:
	default:
		return nil, fmt.Errorf("unknown audit action %q", action)
	}
	if recordID <= 0 {
		return nil, fmt.Errorf("invalid record ID: %d", recordID)
	}

	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal audit payload: %w", err)
		}
		raw = b
	}
	if strings.TrimSpace(actor) == "" {
		actor = "anonymous"
	}

	return &Entry{
		Resource:      resource,
		Action:        action,
		RecordID:      recordID,
		Actor:         actor,
		CorrelationID: uuid.NewString(),
		Payload:       raw,
		At:            time.Now().UTC(),
	}, nil
}
