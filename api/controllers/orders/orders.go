package orders

import (
	"net/http"

	"github.com/garagehub/autoshop-backend/api/responses"
	"github.com/garagehub/autoshop-backend/api/validators"
	internalorders "github.com/garagehub/autoshop-backend/internal/orders"
	"github.com/garagehub/autoshop-backend/pkg/logger"
)

type serviceLineRequest struct {
	ServiceID uint64 `json:"service_id" validate:"required,gt=0"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type partLineRequest struct {
	PartID   uint64 `json:"part_id" validate:"required,gt=0"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type createOrderRequest struct {
	ClientID           uint64               `json:"client_id" validate:"required,gt=0"`
	EmployeeID         uint64               `json:"employee_id" validate:"required,gt=0"`
	VehicleInfo        *string              `json:"vehicle_info" validate:"omitempty,max=200"`
	ProblemDescription *string              `json:"problem_description"`
	Services           []serviceLineRequest `json:"services" validate:"dive"`
	Parts              []partLineRequest    `json:"parts" validate:"dive"`
}

func (r createOrderRequest) toInput() internalorders.CreateOrderInput {
	input := internalorders.CreateOrderInput{
		ClientID:           r.ClientID,
		EmployeeID:         r.EmployeeID,
		VehicleInfo:        validators.SanitizeOptional(r.VehicleInfo, 200),
		ProblemDescription: validators.SanitizeOptional(r.ProblemDescription, 0),
		Services:           make([]internalorders.ServiceLineInput, 0, len(r.Services)),
		Parts:              make([]internalorders.PartLineInput, 0, len(r.Parts)),
	}
	for _, line := range r.Services {
		input.Services = append(input.Services, internalorders.ServiceLineInput{ServiceID: line.ServiceID, Quantity: line.Quantity})
	}
	for _, line := range r.Parts {
		input.Parts = append(input.Parts, internalorders.PartLineInput{PartID: line.PartID, Quantity: line.Quantity})
	}
	return input
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch orders")
			return
		}
		responses.WriteList(w, rows, len(rows))
	}
}

func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		order, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch order")
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Create surfaces the typed cause (short part, missing service) to the caller.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		order, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to create order")
			return
		}
		responses.WriteCreated(w, order, "Order created successfully")
	}
}

func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		var payload updateStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		order, err := svc.UpdateStatus(r.Context(), id, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to update order status")
			return
		}
		responses.WriteUpdated(w, order, "Order status updated successfully")
	}
}
