package catalog

import (
	"zerostour/internal/config"
	"zerostour/internal/crud"
	"zerostour/internal/domain/city"
	"zerostour/internal/domain/service"
	"zerostour/internal/domain/vehicle"
	"zerostour/internal/domain/vehicletype"
	"zerostour/internal/listing"
	"zerostour/internal/resource"
)

// Slugs of the admin screens
const (
	SlugVehicles     = "vehicles"
	SlugVehicleTypes = "vehicle-types"
	SlugServices     = "services"
)

// optionsPageSize is how many choices a select box loads
const optionsPageSize = 10

// DefaultQuery is the starting list query of every screen
func DefaultQuery(cfg config.DashboardCfg) listing.Query {
	return listing.Query{
		Page:           1,
		PageSize:       cfg.DefaultPageSize,
		SortBy:         cfg.SortBy,
		SortDescending: cfg.SortDescending,
	}
}

// NewDashboard registers the vehicle, vehicle type and service screens
// against the backend reached through client.
func NewDashboard(cfg config.Cfg, client *resource.Client, observers ...crud.Observer) *Registry {
	reg := NewRegistry(observers...)
	defaults := DefaultQuery(cfg.Dashboard)
	roles := cfg.Roles.Menu

	vehicles := resource.NewCollection[vehicle.Vehicle, vehicle.Draft](client, resource.EndpointsFor(vehicle.Resource))
	types := resource.NewCollection[vehicletype.VehicleType, vehicletype.Draft](client, resource.EndpointsFor(vehicletype.Resource))
	services := resource.NewCollection[service.Service, service.Draft](client, resource.EndpointsFor(service.Resource))
	cities := resource.NewCollection[city.City, struct{}](client, resource.EndpointsFor(city.Resource))

	Register(reg, Info{
		Slug:      SlugVehicles,
		Title:     "Vehículos",
		Columns:   []string{"ID", "Tipo", "Número interno", "Capacidad", "Estado"},
		Roles:     roles["/vehiculos/coches"],
		Endpoints: vehicles.Paths(),
	}, crud.Config[vehicle.Vehicle, vehicle.Draft]{
		Name:       vehicle.Resource,
		Label:      "vehicle",
		Collection: vehicles,
		Defaults:   defaults,
		NewDraft:   vehicle.NewDraft,
		DraftOf:    vehicle.DraftOf,
	}, map[string]crud.OptionLoader{
		"vehicleTypes": crud.FirstPage[vehicletype.VehicleType](types, optionQuery(defaults)),
	})

	Register(reg, Info{
		Slug:      SlugVehicleTypes,
		Title:     "Tipos de vehículo",
		Columns:   []string{"ID", "Nombre", "Capacidad", "Estado"},
		Roles:     roles["/vehiculos/tipos"],
		Endpoints: types.Paths(),
	}, crud.Config[vehicletype.VehicleType, vehicletype.Draft]{
		Name:       vehicletype.Resource,
		Label:      "vehicle type",
		Collection: types,
		Defaults:   defaults,
		NewDraft:   vehicletype.NewDraft,
		DraftOf:    vehicletype.DraftOf,
	}, nil)

	Register(reg, Info{
		Slug:      SlugServices,
		Title:     "Servicios",
		Columns:   []string{"ID", "Nombre", "Origen", "Destino", "Duración", "Salida", "Estado"},
		Roles:     roles["/servicios"],
		Endpoints: services.Paths(),
	}, crud.Config[service.Service, service.Draft]{
		Name:       service.Resource,
		Label:      "service",
		Collection: services,
		Defaults:   defaults,
		NewDraft:   service.NewDraft,
		DraftOf:    service.DraftOf,
	}, map[string]crud.OptionLoader{
		"cities":   crud.FirstPage[city.City](cities, optionQuery(defaults)),
		"vehicles": crud.FirstPage[vehicle.Vehicle](vehicles, optionQuery(defaults)),
	})

	return reg
}

func optionQuery(defaults listing.Query) listing.Query {
	q := defaults
	q.Page, q.PageSize = 1, optionsPageSize
	return q
}
