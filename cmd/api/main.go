package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/garagehub/autoshop-backend/api"
	"github.com/garagehub/autoshop-backend/api/routes"
	"github.com/garagehub/autoshop-backend/internal/clients"
	"github.com/garagehub/autoshop-backend/internal/dashboard"
	"github.com/garagehub/autoshop-backend/internal/employees"
	"github.com/garagehub/autoshop-backend/internal/financial"
	"github.com/garagehub/autoshop-backend/internal/orders"
	"github.com/garagehub/autoshop-backend/internal/parts"
	"github.com/garagehub/autoshop-backend/internal/services"
	"github.com/garagehub/autoshop-backend/pkg/config"
	"github.com/garagehub/autoshop-backend/pkg/db"
	"github.com/garagehub/autoshop-backend/pkg/logger"
	"github.com/garagehub/autoshop-backend/pkg/metrics"
	"github.com/garagehub/autoshop-backend/pkg/migrate"
	"github.com/garagehub/autoshop-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "autoshop-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "autoshop-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	deps := routes.Dependencies{DB: dbClient}
	if cfg.Redis.Enabled {
		var redisClient *redis.Client
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Append(err, redisClient.Close())
		}()
		deps.Redis = redisClient
		deps.Idempotency = redisClient
		deps.RateLimiter = redisClient
	} else {
		logg.Warn(ctx, "redis disabled: rate limiting and idempotency replay are off")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Registry = registry
	deps.HTTPMetrics = metrics.NewHTTPMetrics(registry)

	if err := buildServices(&deps, dbClient, logg, metrics.NewOrderMetrics(registry)); err != nil {
		return err
	}

	server := api.NewServer(cfg, routes.NewRouter(cfg, logg, deps))
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": server.Addr,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildServices(deps *routes.Dependencies, dbClient *db.Client, logg *logger.Logger, orderMetrics *metrics.OrderMetrics) error {
	conn := dbClient.DB()
	clientRepo := clients.NewRepository(conn)
	employeeRepo := employees.NewRepository(conn)
	serviceRepo := services.NewRepository(conn)
	partRepo := parts.NewRepository(conn)
	ledgerRepo := financial.NewRepository(conn)

	var errs error
	var err error
	deps.Clients, err = clients.NewService(clientRepo)
	errs = multierr.Append(errs, err)
	deps.Employees, err = employees.NewService(employeeRepo)
	errs = multierr.Append(errs, err)
	deps.Services, err = services.NewService(serviceRepo)
	errs = multierr.Append(errs, err)
	deps.Parts, err = parts.NewService(partRepo)
	errs = multierr.Append(errs, err)
	deps.Financial, err = financial.NewService(ledgerRepo)
	errs = multierr.Append(errs, err)
	deps.Orders, err = orders.NewService(orders.Deps{
		Repo:      orders.NewRepository(conn),
		Tx:        dbClient,
		Catalog:   serviceRepo,
		Inventory: partRepo,
		Ledger:    ledgerRepo,
		Logger:    logg,
		Metrics:   orderMetrics,
	})
	errs = multierr.Append(errs, err)
	if errs != nil {
		return errs
	}

	deps.Dashboard, err = dashboard.NewService(dashboard.Deps{
		Employees: employeeRepo,
		Inventory: partRepo,
		Catalog:   serviceRepo,
		Parts:     deps.Parts,
		Orders:    deps.Orders,
		Ledger:    deps.Financial,
	})
	return err
}
