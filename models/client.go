package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Client is a buyer or tenant managed by exactly one agent.
type Client struct {
	ID          uuid.UUID       `json:"id"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Email       string          `json:"email"`
	Phone       *string         `json:"phone"`
	Address     *string         `json:"address"`
	Preferences json.RawMessage `json:"preferences"` // opaque, stored as JSONB
	AgentID     uuid.UUID       `json:"agentId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
