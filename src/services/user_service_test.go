package services_test

import (
	"testing"

	"mfportal/src/models"
	"mfportal/src/repositories/memory"
	"mfportal/src/schemas"
	"mfportal/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	ctx := testContext()
	store := memory.NewStore()
	users := services.NewUserService(store.Users())

	created, err := users.Create(ctx, schemas.CreateUserRequest{
		Username: "priya", Email: "priya@example.com", FirstName: "Priya", LastName: "Nair",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, created.Role)

	_, err = users.Create(ctx, schemas.CreateUserRequest{
		Username: "priya", Email: "other@example.com", FirstName: "P", LastName: "N",
	})
	requireKind(t, err, services.KindConflict, services.ReasonAlreadyExists)

	_, err = users.Create(ctx, schemas.CreateUserRequest{
		Username: "kiran", Email: "not-an-email", FirstName: "K", LastName: "R",
	})
	requireKind(t, err, services.KindValidation, services.ReasonInvalidRequest)

	admin := models.RoleAdmin
	updated, err := users.Update(ctx, created.ID, schemas.UpdateUserRequest{Role: &admin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, users.Delete(ctx, created.ID))
	_, err = users.Get(ctx, created.ID)
	requireKind(t, err, services.KindNotFound, services.ReasonUserNotFound)
	requireKind(t, users.Delete(ctx, created.ID), services.KindNotFound, services.ReasonUserNotFound)
}
