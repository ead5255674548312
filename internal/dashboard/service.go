package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/garagehub/autoshop-backend/internal/financial"
	"github.com/garagehub/autoshop-backend/internal/orders"
	"github.com/garagehub/autoshop-backend/internal/parts"
	"github.com/garagehub/autoshop-backend/internal/services"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"github.com/garagehub/autoshop-backend/pkg/types"
)

type employeeCounter interface {
	Count(ctx context.Context) (int64, error)
}

type inventoryStats interface {
	Stats(ctx context.Context) (parts.InventoryStats, error)
}

type catalogStats interface {
	Stats(ctx context.Context) (services.CatalogStats, error)
}

type lowStockLister interface {
	ListLowStock(ctx context.Context) ([]parts.PartDTO, error)
}

type orderReader interface {
	CountActive(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context) ([]orders.OrderDTO, error)
}

type ledgerSummarizer interface {
	Summarize(ctx context.Context, f financial.Filter) (financial.Summary, error)
}

// Snapshot is the landing-page view of the shop.
type Snapshot struct {
	EmployeesCount      int64             `json:"employees_count"`
	PartsCount          int64             `json:"parts_count"`
	TotalPartItems      int64             `json:"total_part_items"`
	ServicesCount       int64             `json:"services_count"`
	AverageServicePrice decimal.Decimal   `json:"average_service_price"`
	ActiveOrders        int64             `json:"active_orders"`
	MonthStart          types.Date        `json:"month_start"`
	MonthlyFinancial    financial.Summary `json:"monthly_financial"`
	LowStockParts       []parts.PartDTO   `json:"low_stock_parts"`
	RecentOrders        []orders.OrderDTO `json:"recent_orders"`
}

// Deps groups the readers the dashboard aggregates.
type Deps struct {
	Employees employeeCounter
	Inventory inventoryStats
	Catalog   catalogStats
	Parts     lowStockLister
	Orders    orderReader
	Ledger    ledgerSummarizer
}

// Service builds dashboard snapshots.
type Service interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

type service struct {
	deps Deps
	now  func() time.Time
}

func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Employees == nil:
		return nil, fmt.Errorf("employee counter required")
	case deps.Inventory == nil:
		return nil, fmt.Errorf("inventory stats required")
	case deps.Catalog == nil:
		return nil, fmt.Errorf("catalog stats required")
	case deps.Parts == nil:
		return nil, fmt.Errorf("parts service required")
	case deps.Orders == nil:
		return nil, fmt.Errorf("orders service required")
	case deps.Ledger == nil:
		return nil, fmt.Errorf("financial service required")
	}
	return &service{deps: deps, now: time.Now}, nil
}

// Snapshot runs the independent reads concurrently. The financial block
// covers the current month up to and including today.
func (s *service) Snapshot(ctx context.Context) (*Snapshot, error) {
	now := s.now()
	monthStart := types.NewDate(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()))
	today := types.NewDate(now)

	snap := &Snapshot{MonthStart: monthStart}
	var (
		inventory parts.InventoryStats
		catalog   services.CatalogStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.deps.Employees.Count(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count employees")
		}
		snap.EmployeesCount = n
		return nil
	})
	g.Go(func() error {
		stats, err := s.deps.Inventory.Stats(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: inventory stats")
		}
		inventory = stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.deps.Catalog.Stats(gctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: catalog stats")
		}
		catalog = stats
		return nil
	})
	g.Go(func() error {
		n, err := s.deps.Orders.CountActive(gctx)
		if err != nil {
			return err
		}
		snap.ActiveOrders = n
		return nil
	})
	g.Go(func() error {
		recent, err := s.deps.Orders.ListRecent(gctx)
		if err != nil {
			return err
		}
		snap.RecentOrders = recent
		return nil
	})
	g.Go(func() error {
		low, err := s.deps.Parts.ListLowStock(gctx)
		if err != nil {
			return err
		}
		snap.LowStockParts = low
		return nil
	})
	g.Go(func() error {
		summary, err := s.deps.Ledger.Summarize(gctx, financial.Filter{StartDate: &monthStart, EndDate: &today})
		if err != nil {
			return err
		}
		snap.MonthlyFinancial = summary
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap.PartsCount = inventory.Total
	snap.TotalPartItems = inventory.TotalItems
	snap.ServicesCount = catalog.Total
	snap.AverageServicePrice = decimal.Zero
	if catalog.AveragePrice.Valid {
		snap.AverageServicePrice = catalog.AveragePrice.Decimal.Round(2)
	}
	return snap, nil
}
