package parts

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
)

var partColumns = []string{
	"name",
	"category_id",
	"part_number",
	"manufacturer",
	"price",
	"quantity",
	"min_quantity",
	"location",
}

const partWithCategorySelect = "parts.*, part_categories.name AS category_name"

// Repository handles parts inventory and part categories.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to inventory operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) withCategory(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("parts").
		Select(partWithCategorySelect).
		Joins("LEFT JOIN part_categories ON part_categories.id = parts.category_id")
}

// List returns every part joined to its category name, newest first.
func (r *Repository) List(ctx context.Context) ([]models.PartWithCategory, error) {
	var rows []models.PartWithCategory
	if err := r.withCategory(ctx).
		Order("parts.created_at DESC").
		Order("parts.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListLowStock returns parts at or below their reorder threshold, scarcest first.
func (r *Repository) ListLowStock(ctx context.Context) ([]models.PartWithCategory, error) {
	var rows []models.PartWithCategory
	if err := r.withCategory(ctx).
		Where("parts.quantity <= parts.min_quantity").
		Order("parts.quantity ASC").
		Order("parts.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one part with its category name.
func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.PartWithCategory, error) {
	var rows []models.PartWithCategory
	if err := r.withCategory(ctx).
		Where("parts.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *Repository) Create(ctx context.Context, part *models.Part) error {
	if part == nil {
		return fmt.Errorf("part is required")
	}
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *Repository) Replace(ctx context.Context, id uint64, part *models.Part) (int64, error) {
	if part == nil {
		return 0, fmt.Errorf("part is required")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ?", id).
		Select(partColumns).
		Updates(part)
	return res.RowsAffected, res.Error
}

func (r *Repository) Delete(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Part{})
	return res.RowsAffected, res.Error
}

// LockForUpdateWithTx reads a part's price and stock, holding a row lock until the
// transaction ends. The sqlite driver ignores the locking clause.
func (r *Repository) LockForUpdateWithTx(tx *gorm.DB, id uint64) (*models.Part, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	var part models.Part
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "name", "price", "quantity").
		Where("id = ?", id).
		First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

// DecrementStockWithTx removes qty units from stock only if enough remain.
// It returns false when the guard rejected the update.
func (r *Repository) DecrementStockWithTx(tx *gorm.DB, id uint64, qty int) (bool, error) {
	if tx == nil {
		return false, gorm.ErrInvalidTransaction
	}
	res := tx.Exec("UPDATE parts SET quantity = quantity - ? WHERE id = ? AND quantity >= ?", qty, id, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// InventoryStats summarises stock for the dashboard.
type InventoryStats struct {
	Total      int64 `gorm:"column:total"`
	TotalItems int64 `gorm:"column:total_items"`
}

// Stats counts distinct parts and the units on hand.
func (r *Repository) Stats(ctx context.Context) (InventoryStats, error) {
	var stats InventoryStats
	err := r.db.WithContext(ctx).
		Model(&models.Part{}).
		Select("COUNT(*) AS total, COALESCE(SUM(quantity), 0) AS total_items").
		Scan(&stats).Error
	return stats, err
}

// ListCategories returns part categories alphabetically.
func (r *Repository) ListCategories(ctx context.Context) ([]models.PartCategory, error) {
	var rows []models.PartCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) CreateCategory(ctx context.Context, category *models.PartCategory) error {
	if category == nil {
		return fmt.Errorf("category is required")
	}
	return r.db.WithContext(ctx).Create(category).Error
}
