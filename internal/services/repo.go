package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
)

var serviceColumns = []string{"name", "description", "price", "duration_minutes", "category"}

// Repository handles service catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to catalog operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the catalog, most recently added first.
func (r *Repository) List(ctx context.Context) ([]models.Service, error) {
	var rows []models.Service
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.Service, error) {
	var row models.Service
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Create(ctx context.Context, svc *models.Service) error {
	if svc == nil {
		return fmt.Errorf("service is required")
	}
	return r.db.WithContext(ctx).Create(svc).Error
}

func (r *Repository) Replace(ctx context.Context, id uint64, svc *models.Service) (int64, error) {
	if svc == nil {
		return 0, fmt.Errorf("service is required")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("id = ?", id).
		Select(serviceColumns).
		Updates(svc)
	return res.RowsAffected, res.Error
}

func (r *Repository) Delete(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Service{})
	return res.RowsAffected, res.Error
}

// PriceWithTx reads the current price of a service inside the caller's transaction.
func (r *Repository) PriceWithTx(tx *gorm.DB, id uint64) (decimal.Decimal, error) {
	if tx == nil {
		return decimal.Zero, gorm.ErrInvalidTransaction
	}
	var row models.Service
	if err := tx.Select("id", "price").Where("id = ?", id).First(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Price, nil
}

// CatalogStats is the aggregate view of the catalog used by the dashboard.
type CatalogStats struct {
	Total        int64               `gorm:"column:total"`
	AveragePrice decimal.NullDecimal `gorm:"column:average_price"`
}

// Stats counts services and averages their price.
func (r *Repository) Stats(ctx context.Context) (CatalogStats, error) {
	var stats CatalogStats
	err := r.db.WithContext(ctx).
		Model(&models.Service{}).
		Select("COUNT(*) AS total, AVG(price) AS average_price").
		Scan(&stats).Error
	return stats, err
}
