package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/garagehub/autoshop-backend/api/controllers"
	ordercontrollers "github.com/garagehub/autoshop-backend/api/controllers/orders"
	"github.com/garagehub/autoshop-backend/api/middleware"
	"github.com/garagehub/autoshop-backend/api/responses"
	"github.com/garagehub/autoshop-backend/internal/clients"
	"github.com/garagehub/autoshop-backend/internal/dashboard"
	"github.com/garagehub/autoshop-backend/internal/employees"
	"github.com/garagehub/autoshop-backend/internal/financial"
	"github.com/garagehub/autoshop-backend/internal/orders"
	"github.com/garagehub/autoshop-backend/internal/parts"
	"github.com/garagehub/autoshop-backend/internal/services"
	"github.com/garagehub/autoshop-backend/pkg/config"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"github.com/garagehub/autoshop-backend/pkg/logger"
	"github.com/garagehub/autoshop-backend/pkg/metrics"
	pkgredis "github.com/garagehub/autoshop-backend/pkg/redis"
)

// Dependencies are the services and infrastructure the router mounts.
type Dependencies struct {
	Clients   clients.Service
	Employees employees.Service
	Services  services.Service
	Parts     parts.Service
	Orders    orders.Service
	Financial financial.Service
	Dashboard dashboard.Service

	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency pkgredis.IdempotencyStore
	RateLimiter *pkgredis.Client

	Registry    *prometheus.Registry
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.HTTP.CORSOrigins),
		chimiddleware.RequestSize(cfg.HTTP.MaxBodyBytes),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), nil, w, pkgerrors.New(pkgerrors.CodeNotFound, "Route not found"), "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{
			"success": false,
			"error":   "Method not allowed",
		})
	})

	readiness := map[string]controllers.Pinger{"db": deps.DB}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", controllers.Health())

		r.Group(func(r chi.Router) {
			if deps.RateLimiter != nil {
				policy := middleware.NewRateLimitPolicy("api", cfg.RateLimit.Window, cfg.RateLimit.Limit)
				r.Use(middleware.RateLimit(policy, deps.RateLimiter, logg))
			}
			if deps.Idempotency != nil {
				r.Use(middleware.Idempotency(deps.Idempotency, logg))
			}

			r.Route("/clients", func(r chi.Router) {
				r.Get("/", controllers.ListClients(deps.Clients, logg))
				r.Post("/", controllers.CreateClient(deps.Clients, logg))
				r.Get("/{id}", controllers.GetClient(deps.Clients, logg))
				r.Put("/{id}", controllers.UpdateClient(deps.Clients, logg))
				r.Delete("/{id}", controllers.DeleteClient(deps.Clients, logg))
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", controllers.ListEmployees(deps.Employees, logg))
				r.Post("/", controllers.CreateEmployee(deps.Employees, logg))
				r.Get("/{id}", controllers.GetEmployee(deps.Employees, logg))
				r.Put("/{id}", controllers.UpdateEmployee(deps.Employees, logg))
				r.Delete("/{id}", controllers.DeleteEmployee(deps.Employees, logg))
			})

			r.Route("/services", func(r chi.Router) {
				r.Get("/", controllers.ListServices(deps.Services, logg))
				r.Post("/", controllers.CreateService(deps.Services, logg))
				r.Get("/{id}", controllers.GetService(deps.Services, logg))
				r.Put("/{id}", controllers.UpdateService(deps.Services, logg))
				r.Delete("/{id}", controllers.DeleteService(deps.Services, logg))
			})

			r.Route("/parts", func(r chi.Router) {
				r.Get("/", controllers.ListParts(deps.Parts, logg))
				r.Post("/", controllers.CreatePart(deps.Parts, logg))
				r.Get("/low-stock", controllers.ListLowStockParts(deps.Parts, logg))
				r.Get("/{id}", controllers.GetPart(deps.Parts, logg))
				r.Put("/{id}", controllers.UpdatePart(deps.Parts, logg))
				r.Delete("/{id}", controllers.DeletePart(deps.Parts, logg))
			})

			r.Route("/part-categories", func(r chi.Router) {
				r.Get("/", controllers.ListPartCategories(deps.Parts, logg))
				r.Post("/", controllers.CreatePartCategory(deps.Parts, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(deps.Orders, logg))
				r.Post("/", ordercontrollers.Create(deps.Orders, logg))
				r.Get("/{id}", ordercontrollers.Detail(deps.Orders, logg))
				r.Put("/{id}/status", ordercontrollers.UpdateStatus(deps.Orders, logg))
				r.Patch("/{id}/status", ordercontrollers.UpdateStatus(deps.Orders, logg))
			})

			r.Route("/financial", func(r chi.Router) {
				r.Get("/", controllers.ListFinancialOperations(deps.Financial, logg))
				r.Post("/", controllers.CreateFinancialOperation(deps.Financial, logg))
			})

			r.Get("/dashboard", controllers.GetDashboard(deps.Dashboard, logg))
		})
	})

	return r
}
