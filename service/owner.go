package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/validation"
)

// OwnerFor picks the owner of a record being created. An admin may hand it
// to another user through field in the raw payload; anyone else always owns
// what they create and the field is ignored.
func OwnerFor(r models.Requester, payload validation.Payload, field string) (uuid.UUID, error) {
	if r.Role != models.RoleAdmin {
		return r.ID, nil
	}
	s, _ := payload[field].(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return r.ID, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &models.ValidationError{Violations: []models.Violation{{Field: field, Message: "must be a valid id"}}}
	}
	return id, nil
}
