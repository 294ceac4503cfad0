package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/egor/backoffice/database/queries"
	"github.com/egor/backoffice/models"
)

// UserSummary is the owner block embedded in client, property and
// transaction views.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type ClientView struct {
	models.Client
	FullName         string      `json:"fullName"`
	Agent            UserSummary `json:"agent"`
	TransactionCount int         `json:"transactionCount"`
}

type ClientDetail struct {
	ClientView
	Transactions []TransactionSummary `json:"transactions"`
}

type PropertyView struct {
	models.Property
	Owner            UserSummary `json:"owner"`
	TransactionCount int         `json:"transactionCount"`
}

type PropertyDetail struct {
	PropertyView
	Transactions []TransactionSummary `json:"transactions"`
}

type PropertySummary struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Address string    `json:"address"`
	Price   float64   `json:"price"`
}

type ClientSummary struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
}

type TransactionView struct {
	models.Transaction
	Property PropertySummary `json:"property"`
	Client   ClientSummary   `json:"client"`
	Agent    UserSummary     `json:"agent"`
}

// TransactionSummary is the short transaction line shown on client and
// property details.
type TransactionSummary struct {
	ID            uuid.UUID                `json:"id"`
	Type          models.TransactionType   `json:"type"`
	Status        models.TransactionStatus `json:"status"`
	Amount        float64                  `json:"amount"`
	PropertyID    uuid.UUID                `json:"propertyId"`
	PropertyTitle string                   `json:"propertyTitle"`
	ClientID      uuid.UUID                `json:"clientId"`
	ClientName    string                   `json:"clientName"`
	CreatedAt     time.Time                `json:"createdAt"`
}

type UserView struct {
	models.User
	PropertyCount    int `json:"propertyCount"`
	ClientCount      int `json:"clientCount"`
	TransactionCount int `json:"transactionCount"`
}

func fullName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	}
	return first + " " + last
}

func formatClient(r queries.ClientRow) ClientView {
	c := r.Client
	if len(c.Preferences) == 0 {
		c.Preferences = nil
	}
	return ClientView{
		Client:           c,
		FullName:         fullName(c.FirstName, c.LastName),
		Agent:            UserSummary{ID: c.AgentID, Name: r.AgentName, Email: r.AgentEmail},
		TransactionCount: r.TransactionCount,
	}
}

func formatProperty(r queries.PropertyRow) PropertyView {
	p := r.Property
	if p.Features == nil {
		p.Features = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return PropertyView{
		Property:         p,
		Owner:            UserSummary{ID: p.OwnerID, Name: r.OwnerName, Email: r.OwnerEmail},
		TransactionCount: r.TransactionCount,
	}
}

func formatTransaction(r queries.TransactionRow) TransactionView {
	return TransactionView{
		Transaction: r.Transaction,
		Property: PropertySummary{
			ID: r.PropertyID, Title: r.PropertyTitle, Address: r.PropertyAddress, Price: r.PropertyPrice,
		},
		Client: ClientSummary{
			ID:        r.ClientID,
			FirstName: r.ClientFirstName,
			LastName:  r.ClientLastName,
			FullName:  fullName(r.ClientFirstName, r.ClientLastName),
			Email:     r.ClientEmail,
		},
		Agent: UserSummary{ID: r.AgentID, Name: r.AgentName, Email: r.AgentEmail},
	}
}

func formatUser(r queries.UserRow) UserView {
	return UserView{
		User:             r.User,
		PropertyCount:    r.PropertyCount,
		ClientCount:      r.ClientCount,
		TransactionCount: r.TransactionCount,
	}
}

func formatSummaries(rows []queries.TransactionSummary) []TransactionSummary {
	out := make([]TransactionSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, TransactionSummary(r))
	}
	return out
}

func formatAll[R, V any](rows []R, f func(R) V) []V {
	out := make([]V, 0, len(rows))
	for _, r := range rows {
		out = append(out, f(r))
	}
	return out
}
