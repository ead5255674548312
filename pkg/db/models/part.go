package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartCategory groups parts for display, e.g. "Brakes" or "Filters".
type PartCategory struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;not null"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Part is an inventory unit. Quantity is the stock on hand and never drops below zero.
type Part struct {
	ID           uint64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string          `gorm:"column:name;not null"`
	CategoryID   *uint64         `gorm:"column:category_id"`
	PartNumber   *string         `gorm:"column:part_number"`
	Manufacturer *string         `gorm:"column:manufacturer"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null;default:0"`
	MinQuantity  int             `gorm:"column:min_quantity;not null;default:5"`
	Location     *string         `gorm:"column:location"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// PartWithCategory is the read view of a part joined to its category name.
type PartWithCategory struct {
	Part
	CategoryName *string `gorm:"column:category_name"`
}
