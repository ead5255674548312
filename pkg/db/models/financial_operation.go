package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/pkg/enums"
	"github.com/garagehub/autoshop-backend/pkg/types"
)

// FinancialOperation is an append-only ledger row.
type FinancialOperation struct {
	ID             uint64                       `gorm:"column:id;primaryKey;autoIncrement"`
	Type           enums.FinancialOperationType `gorm:"column:type;not null"`
	Amount         decimal.Decimal              `gorm:"column:amount;type:numeric(10,2);not null"`
	Description    *string                      `gorm:"column:description"`
	Category       *string                      `gorm:"column:category"`
	RelatedOrderID *uint64                      `gorm:"column:related_order_id"`
	OperationDate  types.Date                   `gorm:"column:operation_date;type:date;not null"`
	CreatedAt      time.Time                    `gorm:"column:created_at;autoCreateTime"`
}
