package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyHouse      PropertyType = "HOUSE"
	PropertyApartment  PropertyType = "APARTMENT"
	PropertyCondo      PropertyType = "CONDO"
	PropertyTownhouse  PropertyType = "TOWNHOUSE"
	PropertyLand       PropertyType = "LAND"
	PropertyCommercial PropertyType = "COMMERCIAL"
)

// PropertyTypes lists every accepted property type.
var PropertyTypes = []string{
	string(PropertyHouse), string(PropertyApartment), string(PropertyCondo),
	string(PropertyTownhouse), string(PropertyLand), string(PropertyCommercial),
}

type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "AVAILABLE"
	PropertySold      PropertyStatus = "SOLD"
	PropertyRented    PropertyStatus = "RENTED"
	PropertyPending   PropertyStatus = "PENDING"
)

var PropertyStatuses = []string{
	string(PropertyAvailable), string(PropertySold), string(PropertyRented), string(PropertyPending),
}

// Property is a listing owned by one agent.
type Property struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Type        PropertyType   `json:"type"`
	Status      PropertyStatus `json:"status"`
	Price       float64        `json:"price"`
	Address     string         `json:"address"`
	City        string         `json:"city"`
	State       string         `json:"state"`
	ZipCode     string         `json:"zipCode"`
	Bedrooms    *int           `json:"bedrooms"`
	Bathrooms   *float64       `json:"bathrooms"`
	Area        *float64       `json:"area"`
	YearBuilt   *int           `json:"yearBuilt"`
	Features    []string       `json:"features"`
	Images      []string       `json:"images"`
	OwnerID     uuid.UUID      `json:"ownerId"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
