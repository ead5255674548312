package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/api/responses"
	"github.com/garagehub/autoshop-backend/api/validators"
	"github.com/garagehub/autoshop-backend/internal/parts"
	"github.com/garagehub/autoshop-backend/pkg/logger"
)

type partRequest struct {
	Name         string          `json:"name" validate:"required,min=2,max=200"`
	CategoryID   *uint64         `json:"category_id" validate:"omitempty,gt=0"`
	PartNumber   *string         `json:"part_number" validate:"omitempty,max=100"`
	Manufacturer *string         `json:"manufacturer" validate:"omitempty,max=100"`
	Price        decimal.Decimal `json:"price" validate:"gt=0"`
	Quantity     *int            `json:"quantity" validate:"required,gte=0"`
	MinQuantity  *int            `json:"min_quantity" validate:"omitempty,gte=0"`
	Location     *string         `json:"location" validate:"omitempty,max=50"`
}

func (r partRequest) toInput() parts.PartInput {
	var qty int
	if r.Quantity != nil {
		qty = *r.Quantity
	}
	return parts.PartInput{
		Name:         validators.SanitizeString(r.Name, 200),
		CategoryID:   r.CategoryID,
		PartNumber:   validators.SanitizeOptional(r.PartNumber, 100),
		Manufacturer: validators.SanitizeOptional(r.Manufacturer, 100),
		Price:        r.Price,
		Quantity:     qty,
		MinQuantity:  r.MinQuantity,
		Location:     validators.SanitizeOptional(r.Location, 50),
	}
}

type categoryRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description"`
}

func ListParts(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch parts")
			return
		}
		responses.WriteList(w, rows, len(rows))
	}
}

func ListLowStockParts(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListLowStock(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch low stock parts")
			return
		}
		responses.WriteList(w, rows, len(rows))
	}
}

func GetPart(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		part, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch part")
			return
		}
		responses.WriteSuccess(w, part)
	}
}

func CreatePart(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload partRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		part, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to create part")
			return
		}
		responses.WriteCreated(w, part, "Part created successfully")
	}
}

func UpdatePart(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		var payload partRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		part, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to update part")
			return
		}
		responses.WriteUpdated(w, part, "Part updated successfully")
	}
}

func DeletePart(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to delete part")
			return
		}
		responses.WriteMessage(w, "Part deleted successfully")
	}
}

func ListPartCategories(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch part categories")
			return
		}
		responses.WriteList(w, rows, len(rows))
	}
}

func CreatePartCategory(svc parts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		category, err := svc.CreateCategory(r.Context(), parts.CategoryInput{
			Name:        validators.SanitizeString(payload.Name, 100),
			Description: validators.SanitizeOptional(payload.Description, 0),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to create part category")
			return
		}
		responses.WriteCreated(w, category, "Part category created successfully")
	}
}
