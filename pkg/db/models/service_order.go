package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/pkg/enums"
)

// ServiceOrder is a repair job. TotalAmount is computed at creation from the
// captured line prices and never recomputed.
type ServiceOrder struct {
	ID                 uint64            `gorm:"column:id;primaryKey;autoIncrement"`
	ClientID           uint64            `gorm:"column:client_id;not null"`
	EmployeeID         uint64            `gorm:"column:employee_id;not null"`
	VehicleInfo        *string           `gorm:"column:vehicle_info"`
	ProblemDescription *string           `gorm:"column:problem_description"`
	Status             enums.OrderStatus `gorm:"column:status;not null;default:pending"`
	TotalAmount        decimal.Decimal   `gorm:"column:total_amount;type:numeric(10,2);not null;default:0"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	CompletedAt        *time.Time        `gorm:"column:completed_at"`
}

// OrderService is a service line captured at order time.
type OrderService struct {
	ID        uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uint64          `gorm:"column:order_id;not null"`
	ServiceID uint64          `gorm:"column:service_id;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}

// OrderPart is a part line captured at order time.
type OrderPart struct {
	ID        uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uint64          `gorm:"column:order_id;not null"`
	PartID    uint64          `gorm:"column:part_id;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
}

// OrderView is a service order joined to client and employee display fields.
type OrderView struct {
	ServiceOrder
	ClientFirstName   *string `gorm:"column:client_first_name"`
	ClientLastName    *string `gorm:"column:client_last_name"`
	ClientPhone       *string `gorm:"column:client_phone"`
	EmployeeFirstName *string `gorm:"column:employee_first_name"`
	EmployeeLastName  *string `gorm:"column:employee_last_name"`
}

// OrderServiceView is a service line joined to the service name.
type OrderServiceView struct {
	OrderService
	ServiceName *string `gorm:"column:service_name"`
}

// OrderPartView is a part line joined to the part name.
type OrderPartView struct {
	OrderPart
	PartName *string `gorm:"column:part_name"`
}
