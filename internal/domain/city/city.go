package city

import "strconv"

// Resource is the backend collection name.
const Resource = "city"

// City is an origin or destination served by the company.
type City struct {
	CityId int64  `json:"CityId"`
	Name   string `json:"Name"`
}

// Key identifies the record within its collection
func (c City) Key() int64 { return c.CityId }

// Label is the text used in select options
func (c City) Label() string { return c.Name }

// Row renders the record for tables
func (c City) Row() []string {
	return []string{strconv.FormatInt(c.CityId, 10), c.Name}
}
