package financial

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
	"github.com/garagehub/autoshop-backend/pkg/enums"
	"github.com/garagehub/autoshop-backend/pkg/types"
)

// Filter narrows ledger reads. Nil fields are not applied; date bounds are inclusive.
type Filter struct {
	StartDate *types.Date
	EndDate   *types.Date
	Type      *enums.FinancialOperationType
}

// Repository handles ledger persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to ledger operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// applyFilter is shared by List and Summarize so both always see the same rows.
func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.StartDate != nil {
		q = q.Where("operation_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("operation_date <= ?", *f.EndDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	return q
}

// List returns matching operations, latest operation date first.
func (r *Repository) List(ctx context.Context, f Filter) ([]models.FinancialOperation, error) {
	var rows []models.FinancialOperation
	q := applyFilter(r.db.WithContext(ctx).Model(&models.FinancialOperation{}), f)
	if err := q.
		Order("operation_date DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TypeTotal is one row of the per-type aggregate.
type TypeTotal struct {
	Type  enums.FinancialOperationType `gorm:"column:type"`
	Total decimal.Decimal              `gorm:"column:total"`
}

// Totals sums amounts per operation type for the matching rows.
func (r *Repository) Totals(ctx context.Context, f Filter) ([]TypeTotal, error) {
	var rows []TypeTotal
	q := applyFilter(r.db.WithContext(ctx).Model(&models.FinancialOperation{}), f)
	if err := q.
		Select("type, SUM(amount) AS total").
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create appends one operation.
func (r *Repository) Create(ctx context.Context, op *models.FinancialOperation) error {
	return r.CreateWithTx(r.db.WithContext(ctx), op)
}

// CreateWithTx appends one operation inside the caller's transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, op *models.FinancialOperation) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	if op == nil {
		return fmt.Errorf("financial operation is required")
	}
	return tx.Create(op).Error
}
