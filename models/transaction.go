package models

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionSale   TransactionType = "SALE"
	TransactionRental TransactionType = "RENTAL"
	TransactionLease  TransactionType = "LEASE"
)

var TransactionTypes = []string{
	string(TransactionSale), string(TransactionRental), string(TransactionLease),
}

type TransactionStatus string

const (
	TransactionPending    TransactionStatus = "PENDING"
	TransactionInProgress TransactionStatus = "IN_PROGRESS"
	TransactionCompleted  TransactionStatus = "COMPLETED"
	TransactionCancelled  TransactionStatus = "CANCELLED"
)

var TransactionStatuses = []string{
	string(TransactionPending), string(TransactionInProgress),
	string(TransactionCompleted), string(TransactionCancelled),
}

// MaxTransactionAmount is the upper bound accepted for Transaction.Amount.
const MaxTransactionAmount = 999_999_999.99

// Statuses that block deletion of the linked record. The two sets differ:
// a completed deal still pins its client but releases the property.
var (
	ClientBlockingStatuses = []TransactionStatus{
		TransactionPending, TransactionInProgress, TransactionCompleted,
	}
	PropertyBlockingStatuses = []TransactionStatus{
		TransactionPending, TransactionInProgress,
	}
)

// Transaction links a property and a client through a deal handled by an agent.
type Transaction struct {
	ID         uuid.UUID         `json:"id"`
	Type       TransactionType   `json:"type"`
	Status     TransactionStatus `json:"status"`
	Amount     float64           `json:"amount"`
	Commission *float64          `json:"commission"`
	Notes      *string           `json:"notes"`
	PropertyID uuid.UUID         `json:"propertyId"`
	ClientID   uuid.UUID         `json:"clientId"`
	AgentID    uuid.UUID         `json:"agentId"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}
