package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	require.NoError(t, Required("name", "Bus"))

	err := Required("name", "   ")
	var ve *Error
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, "name is required", ve.Message)
}

func TestClock(t *testing.T) {
	for _, ok := range []string{"06:00", "23:59", "08:15:30"} {
		assert.NoError(t, Clock("departureHour", ok), ok)
	}
	for _, bad := range []string{"24:00", "6:00", "noon", ""} {
		assert.Error(t, Clock("departureHour", bad), bad)
	}
}

func TestDuration(t *testing.T) {
	assert.NoError(t, Duration("estimatedDuration", "01:30"))
	assert.NoError(t, Duration("estimatedDuration", "1h30m"))
	assert.Error(t, Duration("estimatedDuration", "-5m"))
	assert.Error(t, Duration("estimatedDuration", "soon"))
}

func TestFirst(t *testing.T) {
	assert.NoError(t, First(nil, nil))
	err := First(nil, Positive("quantity", 0), Required("name", ""))
	assert.EqualError(t, err, "quantity must be greater than zero")
}

func TestRangeAndLength(t *testing.T) {
	assert.NoError(t, Range("quantity", 40, 1, 100))
	assert.Error(t, Range("quantity", 101, 1, 100))
	assert.NoError(t, Length("name", " Bus ", 2, 10))
	assert.Error(t, Length("name", "B", 2, 10))
}
