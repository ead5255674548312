package parts

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/garagehub/autoshop-backend/pkg/db/dbtest"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
)

func intPtr(v int) *int { return &v }

func newTestParts(t *testing.T) (*gorm.DB, *Repository, Service) {
	t.Helper()
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return conn, repo, svc
}

func TestPartLifecycleWithCategory(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newTestParts(t)

	brakes, err := svc.CreateCategory(ctx, CategoryInput{Name: "Brakes"})
	require.NoError(t, err)

	created, err := svc.Create(ctx, PartInput{
		Name:       "Brake pad",
		CategoryID: &brakes.ID,
		Price:      decimal.NewFromInt(1000),
		Quantity:   12,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultMinQuantity, created.MinQuantity)
	require.NotNil(t, created.CategoryName)
	assert.Equal(t, "Brakes", *created.CategoryName)

	updated, err := svc.Update(ctx, created.ID, PartInput{
		Name:        "Brake pad (front)",
		Price:       decimal.NewFromInt(1100),
		Quantity:    3,
		MinQuantity: intPtr(2),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
	assert.Nil(t, updated.CategoryName)
	assert.Equal(t, 2, updated.MinQuantity)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.GetByID(ctx, created.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestLowStockOrderedByQuantity(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newTestParts(t)

	for _, in := range []PartInput{
		{Name: "Oil filter", Price: decimal.NewFromInt(500), Quantity: 4},
		{Name: "Spark plug", Price: decimal.NewFromInt(300), Quantity: 50},
		{Name: "Timing belt", Price: decimal.NewFromInt(4000), Quantity: 0},
		{Name: "Wiper", Price: decimal.NewFromInt(700), Quantity: 5},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	low, err := svc.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 3)
	assert.Equal(t, "Timing belt", low[0].Name)
	assert.Equal(t, "Oil filter", low[1].Name)
	assert.Equal(t, "Wiper", low[2].Name, "quantity equal to min_quantity counts as low")
}

func TestCreateWithUnknownCategoryIsValidationError(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newTestParts(t)

	missing := uint64(77)
	_, err := svc.Create(ctx, PartInput{Name: "Ghost part", CategoryID: &missing, Price: decimal.NewFromInt(1)})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateRejectsNegativeQuantity(t *testing.T) {
	_, _, svc := newTestParts(t)
	_, err := svc.Create(context.Background(), PartInput{Name: "Bad", Price: decimal.NewFromInt(1), Quantity: -1})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDuplicateCategoryConflicts(t *testing.T) {
	ctx := context.Background()
	_, _, svc := newTestParts(t)

	_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Filters"})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Filters"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Engine"})
	require.NoError(t, err)
	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Engine", cats[0].Name)
}

func TestGuardedDecrement(t *testing.T) {
	ctx := context.Background()
	conn, repo, svc := newTestParts(t)

	part, err := svc.Create(ctx, PartInput{Name: "Brake pad", Price: decimal.NewFromInt(1000), Quantity: 2})
	require.NoError(t, err)

	err = conn.Transaction(func(tx *gorm.DB) error {
		locked, err := repo.LockForUpdateWithTx(tx, part.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, locked.Quantity)
		assert.True(t, locked.Price.Equal(decimal.NewFromInt(1000)))

		ok, err := repo.DecrementStockWithTx(tx, part.ID, 3)
		require.NoError(t, err)
		assert.False(t, ok, "guard rejects decrement below zero")

		ok, err = repo.DecrementStockWithTx(tx, part.ID, 2)
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)

	after, err := svc.GetByID(ctx, part.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Quantity)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Total)
	assert.EqualValues(t, 0, stats.TotalItems)
}

func TestLockForUpdateMissingPart(t *testing.T) {
	conn, repo, _ := newTestParts(t)
	err := conn.Transaction(func(tx *gorm.DB) error {
		_, err := repo.LockForUpdateWithTx(tx, 404)
		return err
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
