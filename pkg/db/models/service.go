package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a billable unit of labour from the shop catalog.
type Service struct {
	ID              uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name            string          `gorm:"column:name;not null"`
	Description     *string         `gorm:"column:description"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	DurationMinutes *int            `gorm:"column:duration_minutes"`
	Category        *string         `gorm:"column:category"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
