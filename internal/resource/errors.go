package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// NetworkError is a transport or connectivity failure.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return "network error on " + e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError is a non-success response without a structured message the
// user can act on.
type ServerError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.StatusCode == 0 {
		return "server error on " + e.Op + ": " + e.Body
	}
	return fmt.Sprintf("server error on %s: status %d", e.Op, e.StatusCode)
}

// ValidationError means the server rejected the submitted data. Message is
// safe to show to the user.
type ValidationError struct {
	Op      string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err carries a user-displayable rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserMessage returns the text to show next to a form for err. Validation
// messages pass through; everything else collapses to fallback.
func UserMessage(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	return fallback
}

// classify turns a non-2xx response into the error taxonomy.
func classify(op string, resp *HTTPResponse) error {
	msg, field := structuredMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		if msg != "" {
			return &ValidationError{Op: op, Field: field, Message: msg}
		}
	}
	return &ServerError{Op: op, StatusCode: resp.StatusCode, Body: truncate(resp.String(), 512)}
}

// structuredMessage pulls a message out of the shapes the backend uses:
// {"Message": ".."}, {"message": ".."}, {"errors": {"Name": ["required"]}}
// or a bare JSON string.
func structuredMessage(body []byte) (msg, field string) {
	if len(body) == 0 {
		return "", ""
	}
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return strings.TrimSpace(s), ""
	}
	var obj struct {
		Message  string              `json:"message"`
		Error    string              `json:"error"`
		Title    string              `json:"title"`
		Errors   map[string][]string `json:"errors"`
		Property string              `json:"property"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", ""
	}
	for name, list := range obj.Errors {
		if len(list) > 0 {
			return list[0], name
		}
	}
	switch {
	case obj.Message != "":
		return obj.Message, obj.Property
	case obj.Error != "":
		return obj.Error, obj.Property
	case obj.Title != "":
		return obj.Title, obj.Property
	}
	return "", ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
