package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/garagehub/autoshop-backend/pkg/config"
	"github.com/garagehub/autoshop-backend/pkg/db"
	"github.com/garagehub/autoshop-backend/pkg/logger"
	"github.com/garagehub/autoshop-backend/pkg/migrate"
)

const usage = "migration command: up|down|status|version|create|validate"

func main() {
	cmd := flag.String("cmd", "up", usage)
	dir := flag.String("dir", "", "migrations directory on disk (defaults to the embedded tree for the driver)")
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version YYYYMMDDHHMMSS (for version)")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(*cmd, *dir, *name, *version); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", *cmd, err)
		os.Exit(1)
	}
}

func run(cmd, dir, name, version string) error {
	// create and validate work on files only and never touch the database
	switch cmd {
	case "create":
		if name == "" {
			return errors.New("missing -name")
		}
		dirs := []string{migrate.DefaultDir, migrate.SQLiteDir}
		if dir != "" {
			dirs = []string{dir}
		}
		paths, err := migrate.CreateSQLMigrations(dirs, name, time.Now())
		for _, p := range paths {
			fmt.Println("created migration:", p)
		}
		return err

	case "validate":
		dirs := []string{migrate.DefaultDir, migrate.SQLiteDir}
		if dir != "" {
			dirs = []string{dir}
		}
		for _, d := range dirs {
			if err := migrate.ValidateDir(d); err != nil {
				return err
			}
			fmt.Println("migrations valid:", d)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "autoshop-migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"cmd":     cmd,
		"dialect": string(migrate.Dialect(cfg.DB.Driver)),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	if err != nil {
		return err
	}

	var source fs.FS
	if dir != "" {
		source = migrate.DirFS(dir)
	}
	runner, err := migrate.NewRunner(sqlDB, cfg.DB.Driver, source)
	if err != nil {
		return err
	}

	var applied []migrate.Applied
	switch cmd {
	case "up":
		applied, err = runner.Up(ctx)
	case "down":
		applied, err = runner.Down(ctx)
	case "version":
		if version == "" {
			return errors.New("missing -version")
		}
		applied, err = runner.MigrateTo(ctx, version)
	case "status":
		statuses, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			state := "pending"
			if st.Applied {
				state = "applied " + st.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("%d  %-40s %s\n", st.Version, st.Path, state)
		}
		return nil
	default:
		return fmt.Errorf("unknown command (%s)", usage)
	}

	for _, step := range applied {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"version":     step.Version,
			"direction":   step.Direction,
			"duration_ms": step.Duration.Milliseconds(),
		}), "migration.applied")
	}
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "steps", len(applied)), "migrate finished")
	return nil
}
