package employees

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
)

// EmployeeDTO is the API shape of an employee.
type EmployeeDTO struct {
	ID        uint64          `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Position  string          `json:"position"`
	Salary    decimal.Decimal `json:"salary"`
	Phone     *string         `json:"phone"`
	Email     *string         `json:"email"`
	CreatedAt time.Time       `json:"created_at"`
}

// EmployeeInput carries the writable employee fields.
type EmployeeInput struct {
	FirstName string
	LastName  string
	Position  string
	Salary    decimal.Decimal
	Phone     *string
	Email     *string
}

func FromModel(m *models.Employee) *EmployeeDTO {
	if m == nil {
		return nil
	}
	return &EmployeeDTO{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Position:  m.Position,
		Salary:    m.Salary,
		Phone:     m.Phone,
		Email:     m.Email,
		CreatedAt: m.CreatedAt,
	}
}

func (in EmployeeInput) toModel() *models.Employee {
	return &models.Employee{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Position:  in.Position,
		Salary:    in.Salary,
		Phone:     in.Phone,
		Email:     in.Email,
	}
}
