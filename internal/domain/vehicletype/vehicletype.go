package vehicletype

import (
	"strconv"

	"zerostour/internal/domain/validate"
)

// Resource is the backend collection name.
const Resource = "vehicle-type"

// VehicleType is a class of bus with its seat count.
type VehicleType struct {
	VehicleTypeId int64  `json:"VehicleTypeId"`
	Name          string `json:"Name"`
	Quantity      int    `json:"Quantity"`
	Status        bool   `json:"status"`
}

// Key identifies the record within its collection
func (v VehicleType) Key() int64 { return v.VehicleTypeId }

// Label is the text used in select options
func (v VehicleType) Label() string { return v.Name }

// Row renders the record for tables
func (v VehicleType) Row() []string {
	return []string{strconv.FormatInt(v.VehicleTypeId, 10), v.Name, strconv.Itoa(v.Quantity), statusLabel(v.Status)}
}

// Draft is the add/edit form body.
type Draft struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// NewDraft returns the empty add form
func NewDraft() Draft {
	return Draft{}
}

// DraftOf seeds the edit form from an existing record
func DraftOf(v VehicleType) Draft {
	return Draft{Name: v.Name, Quantity: v.Quantity}
}

// Validate checks the draft before it is sent
func (d Draft) Validate() error {
	return validate.First(
		validate.Required("name", d.Name),
		validate.Length("name", d.Name, 2, 100),
		validate.Range("quantity", d.Quantity, 1, 120),
	)
}

func statusLabel(active bool) string {
	if active {
		return "Activo"
	}
	return "Inactivo"
}
