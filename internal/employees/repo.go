package employees

import (
	"context"
	"fmt"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

var employeeColumns = []string{"first_name", "last_name", "position", "salary", "phone", "email"}

// Repository handles employee persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to employee operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.Employee, error) {
	var employee models.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *Repository) Create(ctx context.Context, employee *models.Employee) error {
	if employee == nil {
		return fmt.Errorf("employee is required")
	}
	return r.db.WithContext(ctx).Create(employee).Error
}

// Replace overwrites every mutable column and reports how many rows matched.
func (r *Repository) Replace(ctx context.Context, id uint64, employee *models.Employee) (int64, error) {
	if employee == nil {
		return 0, fmt.Errorf("employee is required")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("id = ?", id).
		Select(employeeColumns).
		Updates(employee)
	return res.RowsAffected, res.Error
}

func (r *Repository) Delete(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Employee{})
	return res.RowsAffected, res.Error
}

// Count returns the number of employees on staff.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Count(&n).Error
	return n, err
}
