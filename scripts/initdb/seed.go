package main

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/egor/backoffice/database/queries"
	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/service"
	"github.com/egor/backoffice/validation"
)

type account struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
}

func seedCmd() *cobra.Command {
	var (
		adminEmail, adminPassword string
		agentEmail, agentPassword string
		demo                      bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an admin and an agent account, optionally with demo records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := open(cmd)
			if err != nil {
				return err
			}
			defer env.store.Close()

			deps := service.Deps{Store: env.store, Log: env.log}
			users := queries.NewUserRepository()
			stats := queries.NewStatsRepository()
			s := seeder{
				users:        service.NewUserService(deps, users, stats),
				clients:      service.NewClientService(deps, queries.NewClientRepository(), users, stats),
				properties:   service.NewPropertyService(deps, queries.NewPropertyRepository(), users, stats),
				transactions: service.NewTransactionService(deps, queries.NewTransactionRepository(), queries.NewPropertyRepository(), queries.NewClientRepository(), users, stats),
				log:          env.log,
			}

			ids, err := s.accounts(cmd.Context(), []account{
				{Email: adminEmail, Password: adminPassword, Name: "Administrator", Role: models.RoleAdmin},
				{Email: agentEmail, Password: agentPassword, Name: "Demo Agent", Role: models.RoleAgent},
			})
			if err != nil {
				return err
			}
			if !demo {
				return nil
			}
			agentID, ok := ids[agentEmail]
			if !ok {
				env.log.Infof("agent %s already existed, skipping demo records", agentEmail)
				return nil
			}
			return s.demo(cmd.Context(), agentID)
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "admin@example.com", "admin login")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "password", "admin password")
	cmd.Flags().StringVar(&agentEmail, "agent-email", "agent@example.com", "agent login")
	cmd.Flags().StringVar(&agentPassword, "agent-password", "password", "agent password")
	cmd.Flags().BoolVar(&demo, "demo", false, "also create a demo client, property and transaction for the agent")
	return cmd
}

type userCreator interface {
	Create(ctx context.Context, payload validation.Payload) (*service.UserView, error)
}

type clientCreator interface {
	Create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID) (*service.ClientView, error)
}

type propertyCreator interface {
	Create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID) (*service.PropertyView, error)
}

type transactionCreator interface {
	Create(ctx context.Context, payload validation.Payload, ownerID uuid.UUID, scope models.Scope) (*service.TransactionView, error)
}

type seeder struct {
	users        userCreator
	clients      clientCreator
	properties   propertyCreator
	transactions transactionCreator
	log          logger.Logger
}

// accounts creates each account through the user service so passwords get
// hashed and validated like any other user. Existing emails are skipped; the
// returned map only holds accounts created now.
func (s seeder) accounts(ctx context.Context, list []account) (map[string]uuid.UUID, error) {
	created := make(map[string]uuid.UUID, len(list))
	for _, a := range list {
		u, err := s.users.Create(ctx, validation.Payload{
			"email":    a.Email,
			"password": a.Password,
			"name":     a.Name,
			"role":     string(a.Role),
		})
		if errors.Is(err, models.ErrConflict) {
			s.log.Infof("user %s already exists", a.Email)
			continue
		}
		if err != nil {
			return nil, err
		}
		s.log.Infof("created %s %s (%s)", u.Role, u.Email, u.ID)
		created[u.Email] = u.ID
	}
	return created, nil
}

func (s seeder) demo(ctx context.Context, agentID uuid.UUID) error {
	client, err := s.clients.Create(ctx, validation.Payload{
		"firstName":   "Maria",
		"lastName":    "Sidorova",
		"email":       "maria@example.com",
		"phone":       "+1 555 0100",
		"preferences": map[string]any{"budget": 450000, "bedrooms": 3},
	}, agentID)
	if err != nil {
		return err
	}

	property, err := s.properties.Create(ctx, validation.Payload{
		"title":     "Family house near the park",
		"type":      "HOUSE",
		"price":     420000,
		"address":   "12 Elm Street",
		"city":      "Springfield",
		"state":     "IL",
		"zipCode":   "62701",
		"bedrooms":  3,
		"bathrooms": 2,
		"features":  []any{"garage", "garden"},
	}, agentID)
	if err != nil {
		return err
	}

	tx, err := s.transactions.Create(ctx, validation.Payload{
		"type":       "SALE",
		"amount":     415000,
		"commission": 12450,
		"propertyId": property.ID.String(),
		"clientId":   client.ID.String(),
	}, agentID, models.OwnedBy(agentID))
	if err != nil {
		return err
	}
	s.log.Infof("demo records created: client %s, property %s, transaction %s", client.ID, property.ID, tx.ID)
	return nil
}
