package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/api/responses"
	"github.com/garagehub/autoshop-backend/api/validators"
	"github.com/garagehub/autoshop-backend/internal/services"
	"github.com/garagehub/autoshop-backend/pkg/logger"
)

type serviceRequest struct {
	Name            string          `json:"name"`
	Description     *string         `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes *int            `json:"duration_minutes"`
	Category        *string         `json:"category"`
}

func (r serviceRequest) toInput() services.ServiceInput {
	return services.ServiceInput{
		Name:            validators.SanitizeString(r.Name, 200),
		Description:     validators.SanitizeOptional(r.Description, 0),
		Price:           r.Price,
		DurationMinutes: r.DurationMinutes,
		Category:        validators.SanitizeOptional(r.Category, 100),
	}
}

func ListServices(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch services")
			return
		}
		responses.WriteList(w, rows, len(rows))
	}
}

func GetService(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		row, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch service")
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func CreateService(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload serviceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		row, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to create service")
			return
		}
		responses.WriteCreated(w, row, "Service created successfully")
	}
}

func UpdateService(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		var payload serviceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		row, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to update service")
			return
		}
		responses.WriteUpdated(w, row, "Service updated successfully")
	}
}

func DeleteService(svc services.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to delete service")
			return
		}
		responses.WriteMessage(w, "Service deleted successfully")
	}
}
