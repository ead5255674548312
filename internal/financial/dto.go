package financial

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
	"github.com/garagehub/autoshop-backend/pkg/enums"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"github.com/garagehub/autoshop-backend/pkg/types"
)

// OperationDTO is the API shape of a ledger row.
type OperationDTO struct {
	ID             uint64                       `json:"id"`
	Type           enums.FinancialOperationType `json:"type"`
	Amount         decimal.Decimal              `json:"amount"`
	Description    *string                      `json:"description"`
	Category       *string                      `json:"category"`
	RelatedOrderID *uint64                      `json:"related_order_id"`
	OperationDate  types.Date                   `json:"operation_date"`
	CreatedAt      time.Time                    `json:"created_at"`
}

// Summary aggregates a filtered ledger. Balance is always Income - Expense.
type Summary struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// AppliedFilters echoes the filters that were honoured.
type AppliedFilters struct {
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Type      *string `json:"type,omitempty"`
}

// Report is the filtered ledger view returned by List.
type Report struct {
	Operations []OperationDTO `json:"operations"`
	Summary    Summary        `json:"summary"`
	Filters    AppliedFilters `json:"filters"`
}

// FilterInput is the raw query input for ledger reads.
type FilterInput struct {
	StartDate string
	EndDate   string
	Type      string
}

// CreateInput carries the fields of a manually recorded operation.
type CreateInput struct {
	Type           string
	Amount         decimal.Decimal
	Description    *string
	Category       *string
	RelatedOrderID *uint64
}

// ParseFilter validates raw filter input. Malformed dates are rejected; a type
// other than income or expense is ignored.
func ParseFilter(in FilterInput) (Filter, AppliedFilters, error) {
	var (
		f       Filter
		applied AppliedFilters
		details = map[string]string{}
	)

	if raw := strings.TrimSpace(in.StartDate); raw != "" {
		d, err := types.ParseDate(raw)
		if err != nil {
			details["start_date"] = "must be a date in YYYY-MM-DD format"
		} else {
			f.StartDate = &d
			applied.StartDate = &raw
		}
	}
	if raw := strings.TrimSpace(in.EndDate); raw != "" {
		d, err := types.ParseDate(raw)
		if err != nil {
			details["end_date"] = "must be a date in YYYY-MM-DD format"
		} else {
			f.EndDate = &d
			applied.EndDate = &raw
		}
	}
	if len(details) > 0 {
		return Filter{}, AppliedFilters{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid date filter").WithDetails(details)
	}

	if t, err := enums.ParseFinancialOperationType(strings.TrimSpace(in.Type)); err == nil {
		f.Type = &t
		raw := t.String()
		applied.Type = &raw
	}
	return f, applied, nil
}

func fromModel(m *models.FinancialOperation) OperationDTO {
	return OperationDTO{
		ID:             m.ID,
		Type:           m.Type,
		Amount:         m.Amount,
		Description:    m.Description,
		Category:       m.Category,
		RelatedOrderID: m.RelatedOrderID,
		OperationDate:  m.OperationDate,
		CreatedAt:      m.CreatedAt,
	}
}

func summarize(rows []TypeTotal) Summary {
	summary := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, row := range rows {
		switch row.Type {
		case enums.FinancialOperationIncome:
			summary.Income = row.Total
		case enums.FinancialOperationExpense:
			summary.Expense = row.Total
		}
	}
	summary.Balance = summary.Income.Sub(summary.Expense)
	return summary
}
