package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
)

// ServiceDTO is the API shape of a catalog entry.
type ServiceDTO struct {
	ID              uint64          `json:"id"`
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes *int            `json:"duration_minutes"`
	Category        *string         `json:"category"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ServiceInput carries the writable catalog fields.
type ServiceInput struct {
	Name            string
	Description     *string
	Price           decimal.Decimal
	DurationMinutes *int
	Category        *string
}

func FromModel(m *models.Service) *ServiceDTO {
	if m == nil {
		return nil
	}
	return &ServiceDTO{
		ID:              m.ID,
		Name:            m.Name,
		Description:     m.Description,
		Price:           m.Price,
		DurationMinutes: m.DurationMinutes,
		Category:        m.Category,
		CreatedAt:       m.CreatedAt,
	}
}

func (in ServiceInput) toModel() *models.Service {
	return &models.Service{
		Name:            in.Name,
		Description:     in.Description,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		Category:        in.Category,
	}
}
