package controllers

import (
	"net/http"

	"github.com/garagehub/autoshop-backend/api/responses"
	"github.com/garagehub/autoshop-backend/internal/dashboard"
	"github.com/garagehub/autoshop-backend/pkg/logger"
)

func GetDashboard(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Snapshot(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err, "Failed to fetch dashboard")
			return
		}
		responses.WriteSuccess(w, snap)
	}
}
