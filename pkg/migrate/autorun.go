package migrate

import (
	"context"
	"fmt"

	"github.com/garagehub/autoshop-backend/pkg/config"
	"github.com/garagehub/autoshop-backend/pkg/db"
	"github.com/garagehub/autoshop-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations on startup, but only for a dev
// environment with AUTOSHOP_AUTO_MIGRATE set. Production schema changes go
// through cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	runner, err := NewRunner(sqlDB, cfg.DB.Driver, nil)
	if err != nil {
		return err
	}

	ctx = logg.WithField(ctx, "dialect", string(Dialect(cfg.DB.Driver)))
	applied, err := runner.Up(ctx)
	if err != nil {
		return err
	}
	for _, step := range applied {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"version":     step.Version,
			"duration_ms": step.Duration.Milliseconds(),
		}), "migration.applied")
	}
	logg.Info(logg.WithField(ctx, "applied", len(applied)), "migrations up to date")
	return nil
}
