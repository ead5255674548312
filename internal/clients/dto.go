package clients

import (
	"time"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
)

// ClientDTO is the API shape of a client.
type ClientDTO struct {
	ID           uint64    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        *string   `json:"phone"`
	Email        *string   `json:"email"`
	CarModel     *string   `json:"car_model"`
	CarYear      *int      `json:"car_year"`
	LicensePlate *string   `json:"license_plate"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClientInput carries the writable client fields for create and full update.
type ClientInput struct {
	FirstName    string
	LastName     string
	Phone        *string
	Email        *string
	CarModel     *string
	CarYear      *int
	LicensePlate *string
}

// FromModel maps the persisted client into a DTO.
func FromModel(m *models.Client) *ClientDTO {
	if m == nil {
		return nil
	}
	return &ClientDTO{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		Email:        m.Email,
		CarModel:     m.CarModel,
		CarYear:      m.CarYear,
		LicensePlate: m.LicensePlate,
		CreatedAt:    m.CreatedAt,
	}
}

func (in ClientInput) toModel() *models.Client {
	return &models.Client{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Email:        in.Email,
		CarModel:     in.CarModel,
		CarYear:      in.CarYear,
		LicensePlate: in.LicensePlate,
	}
}
