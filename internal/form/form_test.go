package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draft struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Active   bool   `json:"active,omitempty"`
}

func TestSetFieldMerges(t *testing.T) {
	f := New(draft{Quantity: 1})

	require.NoError(t, f.SetField("name", "Minibus"))
	require.NoError(t, f.SetField("quantity", "40"))

	assert.Equal(t, draft{Name: "Minibus", Quantity: 40}, f.Data())
}

func TestSetFieldsWeakTypes(t *testing.T) {
	f := New(draft{})
	require.NoError(t, f.SetFields(map[string]any{"active": "true", "quantity": 12.0}))
	assert.True(t, f.Data().Active)
	assert.Equal(t, 12, f.Data().Quantity)
}

func TestSetFieldUnknownLeavesDraft(t *testing.T) {
	f := New(draft{Name: "Bus"})
	err := f.SetFields(map[string]any{"name": "Van", "colour": "red"})
	require.Error(t, err)
	assert.Equal(t, "Bus", f.Data().Name)
}

func TestResetRestoresInitial(t *testing.T) {
	f := New(draft{Quantity: 1})
	f.SetForm(draft{Name: "Coach", Quantity: 50})
	f.SetLoading(true)
	f.SetError("name required")

	s := f.State()
	assert.True(t, s.Loading)
	assert.Equal(t, "name required", s.Error)

	f.Reset()
	assert.Equal(t, State[draft]{Data: draft{Quantity: 1}}, f.State())
}

func TestSetErrorEmptyClears(t *testing.T) {
	f := New(draft{})
	f.SetError("boom")
	f.SetError("")
	assert.Empty(t, f.State().Error)
}
