package employees

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagehub/autoshop-backend/pkg/db/dbtest"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
)

func TestEmployeeLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	email := "max@garage.test"
	created, err := svc.Create(ctx, EmployeeInput{
		FirstName: "Max",
		LastName:  "Ivanov",
		Position:  "Senior mechanic",
		Salary:    decimal.RequireFromString("65000.50"),
		Email:     &email,
	})
	require.NoError(t, err)
	assert.True(t, created.Salary.Equal(decimal.RequireFromString("65000.50")), "salary %s", created.Salary)
	assert.Equal(t, "max@garage.test", *created.Email)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	updated, err := svc.Update(ctx, created.ID, EmployeeInput{
		FirstName: "Max",
		LastName:  "Ivanov",
		Position:  "Workshop lead",
		Salary:    decimal.NewFromInt(80000),
	})
	require.NoError(t, err)
	assert.Equal(t, "Workshop lead", updated.Position)
	assert.Nil(t, updated.Email)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateRejectsNonPositiveSalary(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.New(t)))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), EmployeeInput{FirstName: "Zero", LastName: "Pay", Position: "Intern"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateMissingEmployee(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.New(t)))
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), 42, EmployeeInput{FirstName: "No", LastName: "One", Position: "Ghost", Salary: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Equal(t, "Employee not found", pkgerrors.As(err).Message())
}
