package controllers

import (
	"net/http"

	"github.com/garagehub/autoshop-backend/api/responses"
	"github.com/garagehub/autoshop-backend/api/validators"
	"github.com/garagehub/autoshop-backend/internal/clients"
	"github.com/garagehub/autoshop-backend/pkg/logger"
)

// clientRequest is only sanitized; blank optional fields are stored as null.
type clientRequest struct {
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	CarModel     *string `json:"car_model"`
	CarYear      *int    `json:"car_year"`
	LicensePlate *string `json:"license_plate"`
}

func (r clientRequest) toInput() clients.ClientInput {
	return clients.ClientInput{
		FirstName:    validators.SanitizeString(r.FirstName, 50),
		LastName:     validators.SanitizeString(r.LastName, 50),
		Phone:        validators.SanitizeOptional(r.Phone, 20),
		Email:        validators.SanitizeOptional(r.Email, 100),
		CarModel:     validators.SanitizeOptional(r.CarModel, 100),
		CarYear:      r.CarYear,
		LicensePlate: validators.SanitizeOptional(r.LicensePlate, 20),
	}
}

func ListClients(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch clients")
			return
		}
		responses.WriteList(w, rows, len(rows))
	}
}

func GetClient(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		client, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch client")
			return
		}
		responses.WriteSuccess(w, client)
	}
}

func CreateClient(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload clientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		client, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to create client")
			return
		}
		responses.WriteCreated(w, client, "Client created successfully")
	}
}

func UpdateClient(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		var payload clientRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		client, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to update client")
			return
		}
		responses.WriteUpdated(w, client, "Client updated successfully")
	}
}

func DeleteClient(svc clients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to delete client")
			return
		}
		responses.WriteMessage(w, "Client deleted successfully")
	}
}
