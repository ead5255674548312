package models

import "time"

// Client is a shop customer together with the vehicle they usually bring in.
type Client struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	Phone        *string   `gorm:"column:phone"`
	Email        *string   `gorm:"column:email"`
	CarModel     *string   `gorm:"column:car_model"`
	CarYear      *int      `gorm:"column:car_year"`
	LicensePlate *string   `gorm:"column:license_plate"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}
