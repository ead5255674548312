package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is a mechanic or other staff member orders can be assigned to.
type Employee struct {
	ID        uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName string          `gorm:"column:first_name;not null"`
	LastName  string          `gorm:"column:last_name;not null"`
	Position  string          `gorm:"column:position;not null"`
	Salary    decimal.Decimal `gorm:"column:salary;type:numeric(10,2);not null"`
	Phone     *string         `gorm:"column:phone"`
	Email     *string         `gorm:"column:email"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
