package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/egor/backoffice/database/queries"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/validation"
)

func newUserService(d Deps) (*UserService, *mockUsers, *mockStats) {
	users, stats := &mockUsers{}, &mockStats{}
	svc := NewUserService(d, users, stats)
	svc.hashCost = bcrypt.MinCost
	return svc, users, stats
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestUserCreateHashesPassword(t *testing.T) {
	_, deps := newHarness()
	svc, users, _ := newUserService(deps)

	users.On("EmailTaken", mock.Anything, mock.Anything, "ana@x.com", uuid.Nil).Return(false, nil)
	var inserted *models.User
	users.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		inserted = u
		return true
	})).Return(nil)
	users.On("Get", mock.Anything, mock.Anything, mock.Anything, models.Unrestricted()).
		Return(&queries.UserRow{User: models.User{ID: uuid.New(), Email: "ana@x.com", Role: models.RoleAgent}}, nil)

	view, err := svc.Create(context.Background(), validation.Payload{
		"email": "Ana@X.com", "password": "secret123", "name": "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAgent, inserted.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(inserted.PasswordHash), []byte("secret123")))
	assert.Empty(t, view.PasswordHash)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	_, deps := newHarness()
	svc, users, _ := newUserService(deps)

	users.On("EmailTaken", mock.Anything, mock.Anything, "ana@x.com", uuid.Nil).Return(true, nil)

	_, err := svc.Create(context.Background(), validation.Payload{
		"email": "ana@x.com", "password": "secret123", "name": "Ana",
	})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUserCreateShortPassword(t *testing.T) {
	_, deps := newHarness()
	svc, _, _ := newUserService(deps)

	_, err := svc.Create(context.Background(), validation.Payload{
		"email": "ana@x.com", "password": "123", "name": "Ana", "role": "ROOT",
	})
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"password", "role"}, verr.Fields())
}

func TestAuthenticate(t *testing.T) {
	_, deps := newHarness()
	svc, users, _ := newUserService(deps)
	stored := &models.User{ID: uuid.New(), Email: "ana@x.com", PasswordHash: hashed(t, "secret123"), Role: models.RoleAdmin}

	users.On("GetByEmail", mock.Anything, mock.Anything, "ana@x.com").Return(stored, nil)
	users.On("GetByEmail", mock.Anything, mock.Anything, "ghost@x.com").Return(nil, models.NotFound("user"))

	u, err := svc.Authenticate(context.Background(), "ana@x.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Empty(t, u.PasswordHash)

	_, err = svc.Authenticate(context.Background(), "ana@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "ghost@x.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserUpdateSamePasswordIsNoop(t *testing.T) {
	_, deps := newHarness()
	svc, users, _ := newUserService(deps)
	id := uuid.New()
	current := &queries.UserRow{User: models.User{ID: id, Email: "ana@x.com", Name: "Ana", Role: models.RoleAgent}}

	users.On("Lock", mock.Anything, mock.Anything, id, models.Unrestricted()).Return(nil)
	users.On("Get", mock.Anything, mock.Anything, id, models.Unrestricted()).Return(current, nil)
	users.On("GetByEmail", mock.Anything, mock.Anything, "ana@x.com").
		Return(&models.User{ID: id, Email: "ana@x.com", PasswordHash: hashed(t, "secret123")}, nil)

	_, err := svc.Update(context.Background(), id, validation.Payload{"password": "secret123", "name": "Ana"}, models.Unrestricted())
	require.NoError(t, err)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserUpdateRole(t *testing.T) {
	_, deps := newHarness()
	svc, users, _ := newUserService(deps)
	id := uuid.New()
	current := &queries.UserRow{User: models.User{ID: id, Email: "ana@x.com", Name: "Ana", Role: models.RoleAgent}}

	users.On("Lock", mock.Anything, mock.Anything, id, models.Unrestricted()).Return(nil)
	users.On("Get", mock.Anything, mock.Anything, id, models.Unrestricted()).Return(current, nil)
	users.On("Update", mock.Anything, mock.Anything, id, queries.Changes{"role": "ADMIN"}).Return(nil)

	_, err := svc.Update(context.Background(), id, validation.Payload{"role": "admin"}, models.Unrestricted())
	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestUserDeleteCascades(t *testing.T) {
	h, deps := newHarness()
	svc, users, _ := newUserService(deps)
	id := uuid.New()

	users.On("Lock", mock.Anything, mock.Anything, id, models.Unrestricted()).Return(nil)
	users.On("Delete", mock.Anything, mock.Anything, id).Return(nil)

	res, err := svc.Delete(context.Background(), id, models.Unrestricted())
	require.NoError(t, err)
	assert.Equal(t, "user deleted successfully", res.Message)
	assert.Len(t, h.notifier.events, 1)
}
