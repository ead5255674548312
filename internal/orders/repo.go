package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
	"github.com/garagehub/autoshop-backend/pkg/enums"
)

const orderViewSelect = `service_orders.*,
  clients.first_name AS client_first_name,
  clients.last_name AS client_last_name,
  clients.phone AS client_phone,
  employees.first_name AS employee_first_name,
  employees.last_name AS employee_last_name`

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.ServiceOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateServiceLine(ctx context.Context, line *models.OrderService) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) CreatePartLine(ctx context.Context, line *models.OrderPart) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *repository) UpdateTotal(ctx context.Context, orderID uint64, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.ServiceOrder{}).
		Where("id = ?", orderID).
		Update("total_amount", total).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uint64) (*models.ServiceOrder, error) {
	var order models.ServiceOrder
	if err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uint64, status enums.OrderStatus, completedAt *time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.ServiceOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]any{
			"status":       status,
			"completed_at": completedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("service_orders").
		Select(orderViewSelect).
		Joins("LEFT JOIN clients ON clients.id = service_orders.client_id").
		Joins("LEFT JOIN employees ON employees.id = service_orders.employee_id")
}

func (r *repository) List(ctx context.Context) ([]models.OrderView, error) {
	var rows []models.OrderView
	if err := r.views(ctx).
		Order("service_orders.created_at DESC").
		Order("service_orders.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]models.OrderView, error) {
	var rows []models.OrderView
	if err := r.views(ctx).
		Order("service_orders.created_at DESC").
		Order("service_orders.id DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindView(ctx context.Context, orderID uint64) (*models.OrderView, error) {
	var rows []models.OrderView
	if err := r.views(ctx).
		Where("service_orders.id = ?", orderID).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *repository) ListServiceLines(ctx context.Context, orderID uint64) ([]models.OrderServiceView, error) {
	var rows []models.OrderServiceView
	err := r.db.WithContext(ctx).
		Table("order_services").
		Select("order_services.*, services.name AS service_name").
		Joins("LEFT JOIN services ON services.id = order_services.service_id").
		Where("order_services.order_id = ?", orderID).
		Order("order_services.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListPartLines(ctx context.Context, orderID uint64) ([]models.OrderPartView, error) {
	var rows []models.OrderPartView
	err := r.db.WithContext(ctx).
		Table("order_parts").
		Select("order_parts.*, parts.name AS part_name").
		Joins("LEFT JOIN parts ON parts.id = order_parts.part_id").
		Where("order_parts.order_id = ?", orderID).
		Order("order_parts.id ASC").
		Scan(&rows).Error
	return rows, err
}

// CountActive counts orders that are neither completed nor cancelled.
func (r *repository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceOrder{}).
		Where("status NOT IN ?", []enums.OrderStatus{enums.OrderStatusCompleted, enums.OrderStatusCancelled}).
		Count(&n).Error
	return n, err
}
