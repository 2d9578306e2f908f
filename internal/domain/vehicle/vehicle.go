package vehicle

import (
	"strconv"
	"strings"

	"zerostour/internal/domain/validate"
)

// Resource is the backend collection name.
const Resource = "vehicle"

// Vehicle is one bus of the fleet.
type Vehicle struct {
	VehicleId           int64  `json:"VehicleId"`
	VehicleTypeId       int64  `json:"VehicleTypeId"`
	VehicleTypeName     string `json:"VehicleTypeName"`
	InternalNumber      string `json:"InternalNumber"`
	VehicleTypeQuantity int    `json:"VehicleTypeQuantity"`
	Status              bool   `json:"Status"`
}

// Key identifies the record within its collection
func (v Vehicle) Key() int64 { return v.VehicleId }

// Label is the text used in select options
func (v Vehicle) Label() string {
	return strings.TrimSpace(v.VehicleTypeName + " " + v.InternalNumber)
}

// Row renders the record for tables
func (v Vehicle) Row() []string {
	status := "Inactivo"
	if v.Status {
		status = "Activo"
	}
	return []string{
		strconv.FormatInt(v.VehicleId, 10),
		v.VehicleTypeName,
		v.InternalNumber,
		strconv.Itoa(v.VehicleTypeQuantity),
		status,
	}
}

// Draft is the add/edit body. The backend takes it in record casing.
type Draft struct {
	VehicleTypeId  int64  `json:"VehicleTypeId"`
	InternalNumber string `json:"InternalNumber"`
	Status         bool   `json:"Status"`
}

// NewDraft returns the empty add form; new vehicles start active
func NewDraft() Draft {
	return Draft{Status: true}
}

// DraftOf seeds the edit form from an existing record
func DraftOf(v Vehicle) Draft {
	return Draft{VehicleTypeId: v.VehicleTypeId, InternalNumber: v.InternalNumber, Status: v.Status}
}

// Validate checks the draft before it is sent
func (d Draft) Validate() error {
	return validate.First(
		validate.Positive("VehicleTypeId", d.VehicleTypeId),
		validate.Required("InternalNumber", d.InternalNumber),
		validate.Length("InternalNumber", d.InternalNumber, 1, 20),
	)
}
