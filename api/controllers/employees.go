package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/api/responses"
	"github.com/garagehub/autoshop-backend/api/validators"
	"github.com/garagehub/autoshop-backend/internal/employees"
	"github.com/garagehub/autoshop-backend/pkg/logger"
)

type employeeRequest struct {
	FirstName string          `json:"first_name" validate:"required,min=2,max=50"`
	LastName  string          `json:"last_name" validate:"required,min=2,max=50"`
	Position  string          `json:"position" validate:"required,min=2,max=100"`
	Salary    decimal.Decimal `json:"salary" validate:"gt=0"`
	Phone     *string         `json:"phone" validate:"omitempty,phone"`
	Email     *string         `json:"email" validate:"omitempty,email"`
}

func (r employeeRequest) toInput() employees.EmployeeInput {
	return employees.EmployeeInput{
		FirstName: validators.SanitizeString(r.FirstName, 50),
		LastName:  validators.SanitizeString(r.LastName, 50),
		Position:  validators.SanitizeString(r.Position, 100),
		Salary:    r.Salary,
		Phone:     validators.SanitizeOptional(r.Phone, 20),
		Email:     validators.SanitizeOptional(r.Email, 100),
	}
}

func ListEmployees(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch employees")
			return
		}
		responses.WriteList(w, rows, len(rows))
	}
}

func GetEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		employee, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch employee")
			return
		}
		responses.WriteSuccess(w, employee)
	}
}

func CreateEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload employeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		employee, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to create employee")
			return
		}
		responses.WriteCreated(w, employee, "Employee created successfully")
	}
}

func UpdateEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		var payload employeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		employee, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to update employee")
			return
		}
		responses.WriteUpdated(w, employee, "Employee updated successfully")
	}
}

func DeleteEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "")
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to delete employee")
			return
		}
		responses.WriteMessage(w, "Employee deleted successfully")
	}
}
