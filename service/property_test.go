package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/egor/backoffice/database/queries"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/validation"
)

func propertyRow(id, owner uuid.UUID) *queries.PropertyRow {
	return &queries.PropertyRow{
		Property: models.Property{
			ID: id, Title: "Loft", Type: models.PropertyCondo, Status: models.PropertyAvailable,
			Price: 100000, Address: "Main 1", City: "Lima", State: "LI", ZipCode: "15001",
			Features: []string{"pool"}, Images: []string{}, OwnerID: owner,
		},
		OwnerName: "Ana",
	}
}

func newPropertyService(d Deps) (*PropertyService, *mockProperties, *mockUsers, *mockStats) {
	props, users, stats := &mockProperties{}, &mockUsers{}, &mockStats{}
	return NewPropertyService(d, props, users, stats), props, users, stats
}

func TestPropertyCreateAppliesDefaults(t *testing.T) {
	_, deps := newHarness()
	svc, props, users, _ := newPropertyService(deps)
	owner := uuid.New()

	users.On("Reference", mock.Anything, mock.Anything, owner).Return(nil)
	var inserted *models.Property
	props.On("Insert", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.Property) bool {
		inserted = p
		return true
	})).Return(nil)
	props.On("Get", mock.Anything, mock.Anything, mock.Anything, models.Unrestricted()).Return(propertyRow(uuid.New(), owner), nil)

	_, err := svc.Create(context.Background(), validation.Payload{
		"title": "Loft", "type": "condo", "price": "100000", "address": "Main 1",
		"city": "Lima", "state": "LI", "zipCode": "15001", "bedrooms": 2.0,
	}, owner)
	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, models.PropertyAvailable, inserted.Status)
	assert.Equal(t, models.PropertyCondo, inserted.Type)
	assert.Equal(t, 100000.0, inserted.Price)
	assert.Equal(t, []string{}, inserted.Features)
	require.NotNil(t, inserted.Bedrooms)
	assert.Equal(t, 2, *inserted.Bedrooms)
	assert.Nil(t, inserted.YearBuilt)
	assert.Equal(t, owner, inserted.OwnerID)
}

func TestPropertyCreateRejectsNegativePrice(t *testing.T) {
	_, deps := newHarness()
	svc, _, _, _ := newPropertyService(deps)

	_, err := svc.Create(context.Background(), validation.Payload{
		"title": "Loft", "type": "CASTLE", "price": -1, "address": "Main 1",
		"city": "Lima", "state": "LI", "zipCode": "15001",
	}, uuid.New())

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"type", "price"}, verr.Fields())
}

func TestPropertyUpdateOnlyChangedColumns(t *testing.T) {
	_, deps := newHarness()
	svc, props, _, _ := newPropertyService(deps)
	id, owner := uuid.New(), uuid.New()
	scope := models.OwnedBy(owner)

	props.On("Lock", mock.Anything, mock.Anything, id, scope).Return(nil)
	props.On("Get", mock.Anything, mock.Anything, id, scope).Return(propertyRow(id, owner), nil)
	props.On("Update", mock.Anything, mock.Anything, id, queries.Changes{
		"price":    95000.0,
		"features": []string{"pool", "garden"},
		"status":   "PENDING",
	}).Return(nil)

	_, err := svc.Update(context.Background(), id, validation.Payload{
		"title":    "Loft",
		"price":    "95000",
		"features": []any{"pool", " garden "},
		"status":   "pending",
	}, scope)
	require.NoError(t, err)
	props.AssertExpectations(t)
}

func TestPropertyUpdateClearsOptionalField(t *testing.T) {
	_, deps := newHarness()
	svc, props, _, _ := newPropertyService(deps)
	id, owner := uuid.New(), uuid.New()
	current := propertyRow(id, owner)
	beds := 3
	current.Bedrooms = &beds

	props.On("Lock", mock.Anything, mock.Anything, id, models.Unrestricted()).Return(nil)
	props.On("Get", mock.Anything, mock.Anything, id, models.Unrestricted()).Return(current, nil)
	props.On("Update", mock.Anything, mock.Anything, id, queries.Changes{"bedrooms": nil}).Return(nil)

	_, err := svc.Update(context.Background(), id, validation.Payload{"bedrooms": nil}, models.Unrestricted())
	require.NoError(t, err)
	props.AssertExpectations(t)
}

func TestPropertyDeleteUsesPropertyBlockingStatuses(t *testing.T) {
	_, deps := newHarness()
	svc, props, _, _ := newPropertyService(deps)
	id, owner := uuid.New(), uuid.New()
	scope := models.OwnedBy(owner)

	props.On("Lock", mock.Anything, mock.Anything, id, scope).Return(nil)
	props.On("Get", mock.Anything, mock.Anything, id, scope).Return(propertyRow(id, owner), nil)
	props.On("CountTransactions", mock.Anything, mock.Anything, id, models.PropertyBlockingStatuses).Return(0, nil)
	props.On("Delete", mock.Anything, mock.Anything, id).Return(nil)

	_, err := svc.Delete(context.Background(), id, scope)
	require.NoError(t, err)
	props.AssertExpectations(t)
	assert.NotContains(t, models.PropertyBlockingStatuses, models.TransactionCompleted)
}

func TestPropertyDeleteConflict(t *testing.T) {
	_, deps := newHarness()
	svc, props, _, _ := newPropertyService(deps)
	id, owner := uuid.New(), uuid.New()

	props.On("Lock", mock.Anything, mock.Anything, id, models.Unrestricted()).Return(nil)
	props.On("Get", mock.Anything, mock.Anything, id, models.Unrestricted()).Return(propertyRow(id, owner), nil)
	props.On("CountTransactions", mock.Anything, mock.Anything, id, models.PropertyBlockingStatuses).Return(2, nil)

	_, err := svc.Delete(context.Background(), id, models.Unrestricted())
	assert.ErrorIs(t, err, models.ErrConflict)
}
