package clients

import (
	"context"
	"fmt"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
	"gorm.io/gorm"
)

var clientColumns = []string{
	"first_name",
	"last_name",
	"phone",
	"email",
	"car_model",
	"car_year",
	"license_plate",
}

// Repository handles client persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to client operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every client, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// FindByID loads a client by id.
func (r *Repository) FindByID(ctx context.Context, id uint64) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// Create persists a new client row.
func (r *Repository) Create(ctx context.Context, client *models.Client) error {
	if client == nil {
		return fmt.Errorf("client is required")
	}
	return r.db.WithContext(ctx).Create(client).Error
}

// Replace overwrites every mutable column and reports how many rows matched.
func (r *Repository) Replace(ctx context.Context, id uint64, client *models.Client) (int64, error) {
	if client == nil {
		return 0, fmt.Errorf("client is required")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Select(clientColumns).
		Updates(client)
	return res.RowsAffected, res.Error
}

// Delete removes a client and reports how many rows were deleted.
func (r *Repository) Delete(ctx context.Context, id uint64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Client{})
	return res.RowsAffected, res.Error
}
