package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagehub/autoshop-backend/internal/financial"
	"github.com/garagehub/autoshop-backend/internal/orders"
	"github.com/garagehub/autoshop-backend/internal/parts"
	"github.com/garagehub/autoshop-backend/internal/services"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
)

type stubEmployees struct {
	n   int64
	err error
}

func (s stubEmployees) Count(context.Context) (int64, error) { return s.n, s.err }

type stubInventory struct{ stats parts.InventoryStats }

func (s stubInventory) Stats(context.Context) (parts.InventoryStats, error) { return s.stats, nil }

type stubCatalog struct{ stats services.CatalogStats }

func (s stubCatalog) Stats(context.Context) (services.CatalogStats, error) { return s.stats, nil }

type stubParts struct{ low []parts.PartDTO }

func (s stubParts) ListLowStock(context.Context) ([]parts.PartDTO, error) { return s.low, nil }

type stubOrders struct {
	active int64
	recent []orders.OrderDTO
}

func (s stubOrders) CountActive(context.Context) (int64, error) { return s.active, nil }
func (s stubOrders) ListRecent(context.Context) ([]orders.OrderDTO, error) {
	return s.recent, nil
}

type stubLedger struct {
	got     financial.Filter
	summary financial.Summary
}

func (s *stubLedger) Summarize(_ context.Context, f financial.Filter) (financial.Summary, error) {
	s.got = f
	return s.summary, nil
}

func newDeps(ledger *stubLedger) Deps {
	return Deps{
		Employees: stubEmployees{n: 4},
		Inventory: stubInventory{stats: parts.InventoryStats{Total: 12, TotalItems: 340}},
		Catalog: stubCatalog{stats: services.CatalogStats{
			Total:        3,
			AveragePrice: decimal.NullDecimal{Decimal: decimal.RequireFromString("1666.6666667"), Valid: true},
		}},
		Parts:  stubParts{low: []parts.PartDTO{{ID: 7, Name: "Brake pad", Quantity: 1, MinQuantity: 5}}},
		Orders: stubOrders{active: 2, recent: []orders.OrderDTO{{ID: 9}, {ID: 8}}},
		Ledger: ledger,
	}
}

func TestSnapshotAggregatesReaders(t *testing.T) {
	ledger := &stubLedger{summary: financial.Summary{
		Income:  decimal.NewFromInt(2500),
		Expense: decimal.NewFromInt(400),
		Balance: decimal.NewFromInt(2100),
	}}
	svc, err := NewService(newDeps(ledger))
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return time.Date(2025, 3, 18, 15, 4, 0, 0, time.UTC) }

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 4, snap.EmployeesCount)
	assert.EqualValues(t, 12, snap.PartsCount)
	assert.EqualValues(t, 340, snap.TotalPartItems)
	assert.EqualValues(t, 3, snap.ServicesCount)
	assert.Equal(t, "1666.67", snap.AverageServicePrice.String())
	assert.EqualValues(t, 2, snap.ActiveOrders)
	assert.Len(t, snap.LowStockParts, 1)
	assert.Len(t, snap.RecentOrders, 2)
	assert.True(t, snap.MonthlyFinancial.Balance.Equal(decimal.NewFromInt(2100)))

	require.NotNil(t, ledger.got.StartDate)
	require.NotNil(t, ledger.got.EndDate)
	assert.Equal(t, "2025-03-01", ledger.got.StartDate.String())
	assert.Equal(t, "2025-03-18", ledger.got.EndDate.String())
	assert.Nil(t, ledger.got.Type)
	assert.Equal(t, "2025-03-01", snap.MonthStart.String())
}

func TestSnapshotWithoutServicesHasZeroAverage(t *testing.T) {
	deps := newDeps(&stubLedger{})
	deps.Catalog = stubCatalog{}
	svc, err := NewService(deps)
	require.NoError(t, err)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, snap.AverageServicePrice.IsZero())
}

func TestSnapshotPropagatesFailures(t *testing.T) {
	deps := newDeps(&stubLedger{})
	deps.Employees = stubEmployees{err: errors.New("connection reset")}
	svc, err := NewService(deps)
	require.NoError(t, err)

	_, err = svc.Snapshot(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestNewServiceRequiresReaders(t *testing.T) {
	deps := newDeps(&stubLedger{})
	deps.Orders = nil
	_, err := NewService(deps)
	require.Error(t, err)
}
