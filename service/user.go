package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/egor/backoffice/database"
	"github.com/egor/backoffice/database/queries"
	"github.com/egor/backoffice/events"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
	"github.com/egor/backoffice/validation"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or
// a wrong password alike.
var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	base
	users    UserRepository
	stats    StatsRepository
	hashCost int
}

func NewUserService(d Deps, users UserRepository, stats StatsRepository) *UserService {
	return &UserService{base: newBase(d), users: users, stats: stats, hashCost: bcrypt.DefaultCost}
}

func (s *UserService) List(ctx context.Context, filters query.Filters, scope models.Scope) Page[UserView] {
	rows, page, err := s.users.List(ctx, s.store.DB(), scope, filters)
	if err != nil {
		s.degraded(entityUser, "list", err)
		return emptyPage[UserView](filters, err)
	}
	return Page[UserView]{Items: formatAll(rows, formatUser), Pagination: page}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID, scope models.Scope) (*UserView, error) {
	row, err := s.users.Get(ctx, s.store.DB(), id, scope)
	if err != nil {
		return nil, err
	}
	v := formatUser(*row)
	return &v, nil
}

// Authenticate checks a password against the stored bcrypt hash.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, s.store.DB(), email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	u.PasswordHash = ""
	return u, nil
}

// Create adds an account. Email is unique across all users.
func (s *UserService) Create(ctx context.Context, payload validation.Payload) (*UserView, error) {
	row, err := s.create(ctx, payload)
	if err != nil {
		s.written(ctx, entityUser, events.Created, uuid.Nil, uuid.Nil, err)
		return nil, err
	}
	s.written(ctx, entityUser, events.Created, row.ID, row.ID, nil)
	v := formatUser(*row)
	return &v, nil
}

func (s *UserService) create(ctx context.Context, payload validation.Payload) (*queries.UserRow, error) {
	p := validation.ApplyDefaults(validation.User, validation.Sanitize(validation.User, payload))
	if err := validation.ValidateCreate(validation.User, p); err != nil {
		return nil, err
	}
	hash, err := s.hash(p.String("password"))
	if err != nil {
		return nil, err
	}

	now := s.now()
	u := &models.User{
		ID:           uuid.New(),
		Email:        p.String("email"),
		PasswordHash: hash,
		Name:         p.String("name"),
		Role:         models.Role(p.String("role")),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var row *queries.UserRow
	err = s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.ensureEmailFree(ctx, tx, u.Email, uuid.Nil); err != nil {
			return err
		}
		if err := s.users.Insert(ctx, tx, u); err != nil {
			return err
		}
		var err error
		row, err = s.users.Get(ctx, tx, u.ID, models.Unrestricted())
		return err
	})
	return row, err
}

// Update changes email, name, role or password. Re-sending the current
// password is not a change.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch validation.Payload, scope models.Scope) (*UserView, error) {
	p := validation.Sanitize(validation.User, patch)

	var (
		row     *queries.UserRow
		changed bool
	)
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.users.Lock(ctx, tx, id, scope); err != nil {
			return err
		}
		current, err := s.users.Get(ctx, tx, id, scope)
		if err != nil {
			return err
		}
		if err := validation.ValidateUpdate(validation.User, p); err != nil {
			return err
		}

		changes := changeSet{}
		if p.Has("email") {
			changes.text("email", current.Email, p.String("email"))
		}
		if p.Has("name") {
			changes.text("name", current.Name, p.String("name"))
		}
		if p.Has("role") {
			changes.text("role", string(current.Role), p.String("role"))
		}
		if p.Has("password") {
			if err := s.passwordChange(ctx, tx, current.Email, p.String("password"), changes); err != nil {
				return err
			}
		}
		if len(changes) == 0 {
			row = current
			return nil
		}

		if email, ok := changes["email"].(string); ok {
			if err := s.ensureEmailFree(ctx, tx, email, id); err != nil {
				return err
			}
		}
		if err := s.users.Update(ctx, tx, id, queries.Changes(changes)); err != nil {
			return err
		}
		changed = true
		row, err = s.users.Get(ctx, tx, id, scope)
		return err
	})
	if err != nil {
		s.written(ctx, entityUser, events.Updated, id, id, err)
		return nil, err
	}
	if changed {
		s.written(ctx, entityUser, events.Updated, id, id, nil)
	}
	v := formatUser(*row)
	return &v, nil
}

func (s *UserService) passwordChange(ctx context.Context, tx database.DBTX, email, password string, changes changeSet) error {
	stored, err := s.users.GetByEmail(ctx, tx, email)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)) == nil {
		return nil
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	changes["password_hash"] = hash
	return nil
}

// Delete removes the account together with every record it owns.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID, scope models.Scope) (*Deleted, error) {
	err := s.store.WithTx(ctx, func(tx database.DBTX) error {
		if err := s.users.Lock(ctx, tx, id, scope); err != nil {
			return err
		}
		return s.users.Delete(ctx, tx, id)
	})
	s.written(ctx, entityUser, events.Deleted, id, id, err)
	if err != nil {
		return nil, err
	}
	return &Deleted{Message: "user deleted successfully"}, nil
}

func (s *UserService) Stats(ctx context.Context, scope models.Scope) models.UserStats {
	stats, err := s.stats.Users(ctx, s.store.DB(), scope)
	if err != nil {
		s.degraded(entityUser, "stats", err)
		return models.EmptyUserStats()
	}
	return stats
}

func (s *UserService) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, tx database.DBTX, email string, exclude uuid.UUID) error {
	taken, err := s.users.EmailTaken(ctx, tx, email, exclude)
	if err != nil {
		return err
	}
	if taken {
		return models.Conflict("a user with this email already exists")
	}
	return nil
}
