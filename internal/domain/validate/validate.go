package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Error is a draft field that failed local validation. It is shown next to
// the form exactly like a server-side rejection.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

// Required rejects blank text
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &Error{Field: field, Message: field + " is required"}
	}
	return nil
}

// Length validates trimmed text length
func Length(field, value string, minLen, maxLen int) error {
	n := len([]rune(strings.TrimSpace(value)))
	if n < minLen || (maxLen > 0 && n > maxLen) {
		return &Error{Field: field, Message: fmt.Sprintf("%s must be between %d and %d characters", field, minLen, maxLen)}
	}
	return nil
}

// Positive rejects ids and counts that are zero or negative
func Positive(field string, value int64) error {
	if value <= 0 {
		return &Error{Field: field, Message: field + " must be greater than zero"}
	}
	return nil
}

// Range validates an integer against inclusive bounds
func Range(field string, value, minVal, maxVal int) error {
	if value < minVal || value > maxVal {
		return &Error{Field: field, Message: fmt.Sprintf("%s must be between %d and %d", field, minVal, maxVal)}
	}
	return nil
}

// Clock validates an HH:mm or HH:mm:ss time of day
func Clock(field, value string) error {
	if !clockPattern.MatchString(strings.TrimSpace(value)) {
		return &Error{Field: field, Message: field + " must be a time of day (HH:mm)"}
	}
	return nil
}

// Duration validates a duration the backend accepts: HH:mm(:ss) or a Go
// duration such as "1h30m".
func Duration(field, value string) error {
	value = strings.TrimSpace(value)
	if clockPattern.MatchString(value) {
		return nil
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return nil
	}
	return &Error{Field: field, Message: field + " must be a duration (HH:mm)"}
}

// First returns the first non-nil error
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
