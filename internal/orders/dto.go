package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
	"github.com/garagehub/autoshop-backend/pkg/enums"
)

// ServiceLineInput requests quantity units of a catalog service.
type ServiceLineInput struct {
	ServiceID uint64
	Quantity  int
}

// PartLineInput requests quantity units of a stocked part.
type PartLineInput struct {
	PartID   uint64
	Quantity int
}

// CreateOrderInput describes a service order to assemble. Lines are processed
// in the order given.
type CreateOrderInput struct {
	ClientID           uint64
	EmployeeID         uint64
	VehicleInfo        *string
	ProblemDescription *string
	Services           []ServiceLineInput
	Parts              []PartLineInput
}

// OrderDTO is an order joined to its client and employee display fields.
type OrderDTO struct {
	ID                 uint64            `json:"id"`
	ClientID           uint64            `json:"client_id"`
	EmployeeID         uint64            `json:"employee_id"`
	VehicleInfo        *string           `json:"vehicle_info"`
	ProblemDescription *string           `json:"problem_description"`
	Status             enums.OrderStatus `json:"status"`
	TotalAmount        decimal.Decimal   `json:"total_amount"`
	CreatedAt          time.Time         `json:"created_at"`
	CompletedAt        *time.Time        `json:"completed_at"`
	ClientFirstName    *string           `json:"client_first_name"`
	ClientLastName     *string           `json:"client_last_name"`
	ClientPhone        *string           `json:"client_phone"`
	EmployeeFirstName  *string           `json:"employee_first_name"`
	EmployeeLastName   *string           `json:"employee_last_name"`
}

// ServiceLineDTO is a captured service line.
type ServiceLineDTO struct {
	ID          uint64          `json:"id"`
	ServiceID   uint64          `json:"service_id"`
	ServiceName *string         `json:"service_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// PartLineDTO is a captured part line.
type PartLineDTO struct {
	ID        uint64          `json:"id"`
	PartID    uint64          `json:"part_id"`
	PartName  *string         `json:"part_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderDetailDTO is an order with its line items.
type OrderDetailDTO struct {
	OrderDTO
	Services []ServiceLineDTO `json:"services"`
	Parts    []PartLineDTO    `json:"parts"`
}

func fromView(v *models.OrderView) OrderDTO {
	return OrderDTO{
		ID:                 v.ID,
		ClientID:           v.ClientID,
		EmployeeID:         v.EmployeeID,
		VehicleInfo:        v.VehicleInfo,
		ProblemDescription: v.ProblemDescription,
		Status:             v.Status,
		TotalAmount:        v.TotalAmount,
		CreatedAt:          v.CreatedAt,
		CompletedAt:        v.CompletedAt,
		ClientFirstName:    v.ClientFirstName,
		ClientLastName:     v.ClientLastName,
		ClientPhone:        v.ClientPhone,
		EmployeeFirstName:  v.EmployeeFirstName,
		EmployeeLastName:   v.EmployeeLastName,
	}
}

// FromViews maps joined order rows into DTOs.
func FromViews(rows []models.OrderView) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, fromView(&rows[i]))
	}
	return out
}

func serviceLinesFromViews(rows []models.OrderServiceView) []ServiceLineDTO {
	out := make([]ServiceLineDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ServiceLineDTO{
			ID:          row.ID,
			ServiceID:   row.ServiceID,
			ServiceName: row.ServiceName,
			Quantity:    row.Quantity,
			Price:       row.Price,
		})
	}
	return out
}

func partLinesFromViews(rows []models.OrderPartView) []PartLineDTO {
	out := make([]PartLineDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, PartLineDTO{
			ID:        row.ID,
			PartID:    row.PartID,
			PartName:  row.PartName,
			Quantity:  row.Quantity,
			UnitPrice: row.UnitPrice,
		})
	}
	return out
}
