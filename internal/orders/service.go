package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/garagehub/autoshop-backend/pkg/db"
	"github.com/garagehub/autoshop-backend/pkg/db/models"
	"github.com/garagehub/autoshop-backend/pkg/enums"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"github.com/garagehub/autoshop-backend/pkg/logger"
	"github.com/garagehub/autoshop-backend/pkg/metrics"
	"github.com/garagehub/autoshop-backend/pkg/types"
)

const (
	ledgerCategoryServiceIncome = "service_income"
	recentOrdersLimit           = 5
)

// Service defines service order operations.
type Service interface {
	List(ctx context.Context) ([]OrderDTO, error)
	ListRecent(ctx context.Context) ([]OrderDTO, error)
	GetByID(ctx context.Context, id uint64) (*OrderDetailDTO, error)
	Create(ctx context.Context, input CreateOrderInput) (*OrderDetailDTO, error)
	UpdateStatus(ctx context.Context, id uint64, status string) (*OrderDetailDTO, error)
	CountActive(ctx context.Context) (int64, error)
}

// Deps groups the collaborators of the order service.
type Deps struct {
	Repo      Repository
	Tx        txRunner
	Catalog   Catalog
	Inventory Inventory
	Ledger    Ledger
	Logger    *logger.Logger
	Metrics   *metrics.OrderMetrics
}

type service struct {
	repo      Repository
	tx        txRunner
	catalog   Catalog
	inventory Inventory
	ledger    Ledger
	logg      *logger.Logger
	metrics   *metrics.OrderMetrics
	now       func() time.Time
}

// NewService builds the order service. Logger and Metrics are optional.
func NewService(deps Deps) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("service catalog required")
	}
	if deps.Inventory == nil {
		return nil, fmt.Errorf("parts inventory required")
	}
	if deps.Ledger == nil {
		return nil, fmt.Errorf("financial ledger required")
	}
	return &service{
		repo:      deps.Repo,
		tx:        deps.Tx,
		catalog:   deps.Catalog,
		inventory: deps.Inventory,
		ledger:    deps.Ledger,
		logg:      deps.Logger,
		metrics:   deps.Metrics,
		now:       time.Now,
	}, nil
}

func (s *service) List(ctx context.Context) ([]OrderDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return FromViews(rows), nil
}

func (s *service) ListRecent(ctx context.Context) ([]OrderDTO, error) {
	rows, err := s.repo.ListRecent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list recent orders")
	}
	return FromViews(rows), nil
}

func (s *service) CountActive(ctx context.Context) (int64, error) {
	n, err := s.repo.CountActive(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count active orders")
	}
	return n, nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (*OrderDetailDTO, error) {
	view, err := s.repo.FindView(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	serviceLines, err := s.repo.ListServiceLines(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order services")
	}
	partLines, err := s.repo.ListPartLines(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order parts")
	}
	return &OrderDetailDTO{
		OrderDTO: fromView(view),
		Services: serviceLinesFromViews(serviceLines),
		Parts:    partLinesFromViews(partLines),
	}, nil
}

// Create assembles an order in one transaction: shell, service lines at the
// current catalog price, part lines with a locked stock check and guarded
// decrement, the computed total and the matching income entry. Any failure
// rolls back every effect.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*OrderDetailDTO, error) {
	started := s.now()
	if err := validateCreateInput(input); err != nil {
		s.metrics.ObserveCreate(metrics.OutcomeInvalid, time.Since(started))
		return nil, err
	}

	var (
		orderID uint64
		total   decimal.Decimal
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order := &models.ServiceOrder{
			ClientID:           input.ClientID,
			EmployeeID:         input.EmployeeID,
			VehicleInfo:        input.VehicleInfo,
			ProblemDescription: input.ProblemDescription,
			Status:             enums.OrderStatusPending,
			TotalAmount:        decimal.Zero,
		}
		if err := repo.CreateOrder(ctx, order); err != nil {
			if db.IsForeignKeyViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "client or employee does not exist").
					WithDetails(map[string]any{"client_id": input.ClientID, "employee_id": input.EmployeeID})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order")
		}
		orderID = order.ID
		total = decimal.Zero

		for _, line := range input.Services {
			price, err := s.catalog.PriceWithTx(tx, line.ServiceID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.Newf(pkgerrors.CodeNotFound, "service not found: %d", line.ServiceID).
						WithDetails(map[string]any{"service_id": line.ServiceID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: read service price")
			}
			total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			if err := repo.CreateServiceLine(ctx, &models.OrderService{
				OrderID:   orderID,
				ServiceID: line.ServiceID,
				Quantity:  line.Quantity,
				Price:     price,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order service")
			}
		}

		for _, line := range input.Parts {
			part, err := s.inventory.LockForUpdateWithTx(tx, line.PartID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.Newf(pkgerrors.CodeNotFound, "part not found: %d", line.PartID).
						WithDetails(map[string]any{"part_id": line.PartID})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lock part")
			}
			if part.Quantity < line.Quantity {
				return insufficientStock(line, part.Quantity)
			}
			total = total.Add(part.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			if err := repo.CreatePartLine(ctx, &models.OrderPart{
				OrderID:   orderID,
				PartID:    line.PartID,
				Quantity:  line.Quantity,
				UnitPrice: part.Price,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create order part")
			}
			ok, err := s.inventory.DecrementStockWithTx(tx, line.PartID, line.Quantity)
			if err != nil {
				if db.IsCheckViolation(err) {
					return insufficientStock(line, part.Quantity)
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: decrement stock")
			}
			if !ok {
				return insufficientStock(line, part.Quantity)
			}
		}

		if err := repo.UpdateTotal(ctx, orderID, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order total")
		}

		description := fmt.Sprintf("Service order #%d", orderID)
		category := ledgerCategoryServiceIncome
		related := orderID
		if err := s.ledger.CreateWithTx(tx, &models.FinancialOperation{
			Type:           enums.FinancialOperationIncome,
			Amount:         total,
			Description:    &description,
			Category:       &category,
			RelatedOrderID: &related,
			OperationDate:  types.NewDate(s.now()),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record order income")
		}
		return nil
	})
	if err != nil {
		s.observeFailure(ctx, err, started)
		return nil, err
	}

	s.metrics.ObserveCreate(metrics.OutcomeCreated, time.Since(started))
	s.metrics.AddRevenue(total.InexactFloat64())
	if s.logg != nil {
		logCtx := s.logg.WithOrderID(ctx, orderID)
		logCtx = s.logg.WithField(logCtx, "total_amount", total.String())
		s.logg.Info(logCtx, "order.created")
	}

	return s.GetByID(ctx, orderID)
}

// UpdateStatus moves an order along pending -> in_progress -> completed, or to
// cancelled from either open state. Setting the current status again is a no-op.
func (s *service) UpdateStatus(ctx context.Context, id uint64, raw string) (*OrderDetailDTO, error) {
	next, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status").
			WithDetails(map[string]string{"status": "must be one of pending, in_progress, completed, cancelled"})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
		}
		if order.Status == next {
			return nil
		}
		if order.Status.IsTerminal() {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "order is %s and its status can no longer change", order.Status).
				WithDetails(map[string]any{"from": order.Status, "to": next})
		}
		if !order.Status.CanTransitionTo(next) {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot change order status from %s to %s", order.Status, next).
				WithDetails(map[string]any{"from": order.Status, "to": next})
		}

		var completedAt *time.Time
		if next == enums.OrderStatusCompleted {
			now := s.now().UTC()
			completedAt = &now
		}
		if err := repo.UpdateStatus(ctx, id, next, completedAt); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *service) observeFailure(ctx context.Context, err error, started time.Time) {
	outcome := metrics.OutcomeFailed
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.CodeInsufficientStock:
		outcome = metrics.OutcomeInsufficientStock
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "details", pkgerrors.As(err).Details()), "order.insufficient_stock")
		}
	case pkgerrors.CodeNotFound:
		outcome = metrics.OutcomeNotFound
	case pkgerrors.CodeValidation:
		outcome = metrics.OutcomeInvalid
	}
	s.metrics.ObserveCreate(outcome, time.Since(started))
}

func insufficientStock(line PartLineInput, available int) error {
	return pkgerrors.Newf(pkgerrors.CodeInsufficientStock, "not enough parts in stock: %d", line.PartID).
		WithDetails(map[string]any{
			"part_id":   line.PartID,
			"requested": line.Quantity,
			"available": available,
		})
}

func validateCreateInput(input CreateOrderInput) error {
	details := map[string]string{}
	if input.ClientID == 0 {
		details["client_id"] = "is required"
	}
	if input.EmployeeID == 0 {
		details["employee_id"] = "is required"
	}
	for i, line := range input.Services {
		if line.ServiceID == 0 {
			details[fmt.Sprintf("services[%d].service_id", i)] = "is required"
		}
		if line.Quantity < 1 {
			details[fmt.Sprintf("services[%d].quantity", i)] = "must be at least 1"
		}
	}
	for i, line := range input.Parts {
		if line.PartID == 0 {
			details[fmt.Sprintf("parts[%d].part_id", i)] = "is required"
		}
		if line.Quantity < 1 {
			details[fmt.Sprintf("parts[%d].quantity", i)] = "must be at least 1"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}
