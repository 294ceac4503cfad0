// Package validation sanitizes and validates create/update payloads before
// any query runs. Everything here is pure.
package validation

import (
	"math"

	"github.com/egor/backoffice/models"
)

// Entity names a resource type with its own field rules.
type Entity string

const (
	User        Entity = "user"
	Client      Entity = "client"
	Property    Entity = "property"
	Transaction Entity = "transaction"
)

type kind int

const (
	kindText kind = iota
	kindOptionalText
	kindEmail
	kindPassword
	kindMoney
	kindAmount
	kindCount
	kindDecimal
	kindYear
	kindEnum
	kindStringList
	kindJSON
	kindUUID
)

type field struct {
	name     string
	kind     kind
	required bool
	values   []string
	fallback any
	// max bounds numeric kinds to what the column can hold
	max float64
}

const minPasswordLength = 6

// Column limits: NUMERIC(14,2), NUMERIC(12,2), NUMERIC(4,1) and INTEGER.
const (
	maxMoney     = 999999999999.99
	maxArea      = 9999999999.99
	maxBathrooms = 999.9
	maxBedrooms  = math.MaxInt32
)

var roles = []string{string(models.RoleAgent), string(models.RoleAdmin)}

// fields keeps declaration order so violations are reported deterministically.
var fields = map[Entity][]field{
	User: {
		{name: "email", kind: kindEmail, required: true},
		{name: "password", kind: kindPassword, required: true},
		{name: "name", kind: kindText, required: true},
		{name: "role", kind: kindEnum, values: roles, fallback: string(models.RoleAgent)},
	},
	Client: {
		{name: "firstName", kind: kindText, required: true},
		{name: "lastName", kind: kindText, required: true},
		{name: "email", kind: kindEmail, required: true},
		{name: "phone", kind: kindOptionalText},
		{name: "address", kind: kindOptionalText},
		{name: "preferences", kind: kindJSON},
	},
	Property: {
		{name: "title", kind: kindText, required: true},
		{name: "description", kind: kindOptionalText},
		{name: "type", kind: kindEnum, required: true, values: models.PropertyTypes},
		{name: "status", kind: kindEnum, values: models.PropertyStatuses, fallback: string(models.PropertyAvailable)},
		{name: "price", kind: kindMoney, required: true, max: maxMoney},
		{name: "address", kind: kindText, required: true},
		{name: "city", kind: kindText, required: true},
		{name: "state", kind: kindText, required: true},
		{name: "zipCode", kind: kindText, required: true},
		{name: "bedrooms", kind: kindCount, max: maxBedrooms},
		{name: "bathrooms", kind: kindDecimal, max: maxBathrooms},
		{name: "area", kind: kindDecimal, max: maxArea},
		{name: "yearBuilt", kind: kindYear},
		{name: "features", kind: kindStringList, fallback: []any{}},
		{name: "images", kind: kindStringList, fallback: []any{}},
	},
	Transaction: {
		{name: "type", kind: kindEnum, required: true, values: models.TransactionTypes},
		{name: "status", kind: kindEnum, values: models.TransactionStatuses, fallback: string(models.TransactionPending)},
		{name: "amount", kind: kindAmount, required: true},
		{name: "commission", kind: kindMoney, max: maxMoney},
		{name: "notes", kind: kindOptionalText},
		{name: "propertyId", kind: kindUUID, required: true},
		{name: "clientId", kind: kindUUID, required: true},
	},
}
