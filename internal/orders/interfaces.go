package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
	"github.com/garagehub/autoshop-backend/pkg/enums"
)

// Repository defines persistence operations for service orders and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.ServiceOrder) error
	CreateServiceLine(ctx context.Context, line *models.OrderService) error
	CreatePartLine(ctx context.Context, line *models.OrderPart) error
	UpdateTotal(ctx context.Context, orderID uint64, total decimal.Decimal) error
	FindOrder(ctx context.Context, orderID uint64) (*models.ServiceOrder, error)
	UpdateStatus(ctx context.Context, orderID uint64, status enums.OrderStatus, completedAt *time.Time) error
	List(ctx context.Context) ([]models.OrderView, error)
	ListRecent(ctx context.Context, limit int) ([]models.OrderView, error)
	FindView(ctx context.Context, orderID uint64) (*models.OrderView, error)
	ListServiceLines(ctx context.Context, orderID uint64) ([]models.OrderServiceView, error)
	ListPartLines(ctx context.Context, orderID uint64) ([]models.OrderPartView, error)
	CountActive(ctx context.Context) (int64, error)
}

// Catalog resolves service prices inside the assembling transaction.
type Catalog interface {
	PriceWithTx(tx *gorm.DB, serviceID uint64) (decimal.Decimal, error)
}

// Inventory locks and decrements part stock inside the assembling transaction.
type Inventory interface {
	LockForUpdateWithTx(tx *gorm.DB, partID uint64) (*models.Part, error)
	DecrementStockWithTx(tx *gorm.DB, partID uint64, qty int) (bool, error)
}

// Ledger records the income entry for an assembled order.
type Ledger interface {
	CreateWithTx(tx *gorm.DB, op *models.FinancialOperation) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
