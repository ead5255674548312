package services

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

func TestCatalogLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.New(t))
	svc, err := NewService(repo)
	require.NoError(t, err)

	minutes := 45
	oil, err := svc.Create(ctx, ServiceInput{Name: "Oil change", Price: decimal.NewFromInt(1500), DurationMinutes: &minutes})
	require.NoError(t, err)
	diag, err := svc.Create(ctx, ServiceInput{Name: "Diagnostics", Price: decimal.NewFromInt(500)})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, diag.ID, list[0].ID, "catalog is listed by id descending")

	updated, err := svc.Update(ctx, oil.ID, ServiceInput{Name: "Oil change", Price: decimal.NewFromInt(1700)})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(1700)))
	assert.Nil(t, updated.DurationMinutes)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	require.True(t, stats.AveragePrice.Valid)
	assert.True(t, stats.AveragePrice.Decimal.Equal(decimal.NewFromInt(1100)), "avg %s", stats.AveragePrice.Decimal)

	require.NoError(t, svc.Delete(ctx, diag.ID))
	err = svc.Delete(ctx, diag.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestPriceWithTx(t *testing.T) {
	conn := dbtest.New(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo)
	require.NoError(t, err)

	created, err := svc.Create(context.Background(), ServiceInput{Name: "Alignment", Price: decimal.RequireFromString("2200.50")})
	require.NoError(t, err)

	err = conn.Transaction(func(tx *gorm.DB) error {
		price, err := repo.PriceWithTx(tx, created.ID)
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.RequireFromString("2200.5")))

		_, err = repo.PriceWithTx(tx, created.ID+100)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		return nil
	})
	require.NoError(t, err)

	_, err = repo.PriceWithTx(nil, created.ID)
	assert.ErrorIs(t, err, gorm.ErrInvalidTransaction)
}

func TestStatsOnEmptyCatalog(t *testing.T) {
	stats, err := NewRepository(dbtest.New(t)).Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.False(t, stats.AveragePrice.Valid)
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.New(t)))
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), ServiceInput{Name: "Refund", Price: decimal.NewFromInt(-1)})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
