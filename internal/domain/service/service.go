package service

import (
	"strconv"

	"zerostour/internal/domain/validate"
)

// Resource is the backend collection name.
const Resource = "service"

// VehicleSummary is the vehicle assigned to a service. The backend sends
// it in camel case, unlike the enclosing record.
type VehicleSummary struct {
	InternalNumber    string `json:"internalNumber"`
	AvailableQuantity int    `json:"availableQuantity"`
	FullQuantity      int    `json:"fullQuantity"`
	VehicleTypeName   string `json:"vehicleTypeName"`
	Image             string `json:"image"`
	VehicleId         int64  `json:"vehicleId"`
}

// Service is a scheduled route between two cities.
type Service struct {
	ServiceId         int64          `json:"ServiceId"`
	Name              string         `json:"Name"`
	OrigenId          int64          `json:"OrigenId"`
	OriginName        string         `json:"OriginName"`
	DestinationId     int64          `json:"DestinationId"`
	DestinationName   string         `json:"DestinationName"`
	StartDate         string         `json:"StartDate"`
	EndDate           string         `json:"EndDate"`
	EstimatedDuration string         `json:"EstimatedDuration"`
	DepartureHour     string         `json:"DepartureHour"`
	IsHoliday         bool           `json:"IsHoliday"`
	Vehicle           VehicleSummary `json:"Vehicle"`
	Status            string         `json:"Status"`
}

// Key identifies the record within its collection
func (s Service) Key() int64 { return s.ServiceId }

// Row renders the record for tables
func (s Service) Row() []string {
	return []string{
		strconv.FormatInt(s.ServiceId, 10),
		s.Name,
		s.OriginName,
		s.DestinationName,
		s.EstimatedDuration,
		s.DepartureHour,
		s.Status,
	}
}

// Draft is the add/edit form body.
type Draft struct {
	Name              string `json:"name"`
	OrigenId          int64  `json:"origenId"`
	DestinationId     int64  `json:"destinationId"`
	EstimatedDuration string `json:"estimatedDuration"`
	DepartureHour     string `json:"departureHour"`
	IsHoliday         bool   `json:"isHoliday"`
	VehicleId         int64  `json:"vehicleId"`
}

// NewDraft returns the empty add form
func NewDraft() Draft {
	return Draft{}
}

// DraftOf seeds the edit form from an existing record
func DraftOf(s Service) Draft {
	return Draft{
		Name:              s.Name,
		OrigenId:          s.OrigenId,
		DestinationId:     s.DestinationId,
		EstimatedDuration: s.EstimatedDuration,
		DepartureHour:     s.DepartureHour,
		IsHoliday:         s.IsHoliday,
		VehicleId:         s.Vehicle.VehicleId,
	}
}

// Validate checks the draft before it is sent
func (d Draft) Validate() error {
	if err := validate.First(
		validate.Required("name", d.Name),
		validate.Positive("origenId", d.OrigenId),
		validate.Positive("destinationId", d.DestinationId),
		validate.Duration("estimatedDuration", d.EstimatedDuration),
		validate.Clock("departureHour", d.DepartureHour),
		validate.Positive("vehicleId", d.VehicleId),
	); err != nil {
		return err
	}
	if d.OrigenId == d.DestinationId {
		return &validate.Error{Field: "destinationId", Message: "destination must differ from origin"}
	}
	return nil
}
