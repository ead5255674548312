package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/api/responses"
	"github.com/garagehub/autoshop-backend/api/validators"
	"github.com/garagehub/autoshop-backend/internal/financial"
	"github.com/garagehub/autoshop-backend/pkg/logger"
)

type financialOperationRequest struct {
	Type           string          `json:"type" validate:"required,oneof=income expense"`
	Amount         decimal.Decimal `json:"amount" validate:"gt=0"`
	Description    *string         `json:"description"`
	Category       *string         `json:"category" validate:"omitempty,max=100"`
	RelatedOrderID *uint64         `json:"related_order_id" validate:"omitempty,gt=0"`
}

// ListFinancialOperations accepts both snake_case and camelCase date filters.
func ListFinancialOperations(svc financial.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := svc.List(r.Context(), financial.FilterInput{
			StartDate: validators.QueryValue(r, "start_date", "startDate"),
			EndDate:   validators.QueryValue(r, "end_date", "endDate"),
			Type:      validators.QueryValue(r, "type"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch financial operations")
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func CreateFinancialOperation(svc financial.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload financialOperationRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		id, err := svc.Create(r.Context(), financial.CreateInput{
			Type:           payload.Type,
			Amount:         payload.Amount,
			Description:    validators.SanitizeOptional(payload.Description, 0),
			Category:       validators.SanitizeOptional(payload.Category, 100),
			RelatedOrderID: payload.RelatedOrderID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to create financial operation")
			return
		}
		responses.WriteCreated(w, map[string]uint64{"id": id}, "Financial operation created successfully")
	}
}
