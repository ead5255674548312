package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/garagehub/autoshop-backend/pkg/config"
)

// On-disk locations, relative to the repo root, used by create and validate.
const (
	DefaultDir = "pkg/migrate/migrations"
	SQLiteDir  = "pkg/migrate/migrations_sqlite"
)

//go:embed migrations/*.sql migrations_sqlite/*.sql
var embedded embed.FS

// Dialect maps a configured database driver onto the goose dialect.
func Dialect(driver string) goose.Dialect {
	if strings.EqualFold(strings.TrimSpace(driver), config.DriverSQLite) {
		return goose.DialectSQLite3
	}
	return goose.DialectPostgres
}

// DirFor returns the migrations directory matching the driver. Postgres and
// sqlite keep separate files because column types and defaults differ.
func DirFor(driver string) string {
	if Dialect(driver) == goose.DialectSQLite3 {
		return SQLiteDir
	}
	return DefaultDir
}

// EmbeddedFor returns the migrations compiled into the binary for driver.
func EmbeddedFor(driver string) fs.FS {
	sub := "migrations"
	if Dialect(driver) == goose.DialectSQLite3 {
		sub = "migrations_sqlite"
	}
	fsys, err := fs.Sub(embedded, sub)
	if err != nil {
		panic(fmt.Sprintf("embedded migrations %q: %v", sub, err))
	}
	return fsys
}

// Runner applies one migration tree to one database.
type Runner struct {
	provider *goose.Provider
}

// NewRunner builds a runner over fsys, or over the embedded tree for driver
// when fsys is nil.
func NewRunner(db *sql.DB, driver string, fsys fs.FS) (*Runner, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if fsys == nil {
		fsys = EmbeddedFor(driver)
	}
	provider, err := goose.NewProvider(Dialect(driver), db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return &Runner{provider: provider}, nil
}

// DirFS is a convenience for pointing a runner at an on-disk tree.
func DirFS(dir string) fs.FS {
	return os.DirFS(dir)
}

// Applied describes one migration step that ran.
type Applied struct {
	Version   int64
	Path      string
	Direction string
	Duration  time.Duration
}

// Status describes one known migration and whether it is applied.
type Status struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

func (r *Runner) Up(ctx context.Context) ([]Applied, error) {
	results, err := r.provider.Up(ctx)
	if err != nil {
		return toApplied(results), fmt.Errorf("goose up: %w", err)
	}
	return toApplied(results), nil
}

// Down rolls back the newest applied migration.
func (r *Runner) Down(ctx context.Context) ([]Applied, error) {
	result, err := r.provider.Down(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose down: %w", err)
	}
	return toApplied([]*goose.MigrationResult{result}), nil
}

func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	statuses, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	out := make([]Status, 0, len(statuses))
	for _, st := range statuses {
		if st == nil || st.Source == nil {
			continue
		}
		out = append(out, Status{
			Version:   st.Source.Version,
			Path:      st.Source.Path,
			Applied:   st.State == goose.StateApplied,
			AppliedAt: st.AppliedAt,
		})
	}
	return out, nil
}

// MigrateTo moves the schema up or down until target (YYYYMMDDHHMMSS) is the
// current version.
func (r *Runner) MigrateTo(ctx context.Context, target string) ([]Applied, error) {
	version, err := strconv.ParseInt(strings.TrimSpace(target), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", target, err)
	}
	current, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == version:
		return nil, nil
	case current < version:
		results, err = r.provider.UpTo(ctx, version)
	default:
		results, err = r.provider.DownTo(ctx, version)
	}
	if err != nil {
		return toApplied(results), fmt.Errorf("goose migrate to %d: %w", version, err)
	}
	return toApplied(results), nil
}

func toApplied(results []*goose.MigrationResult) []Applied {
	out := make([]Applied, 0, len(results))
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		out = append(out, Applied{
			Version:   res.Source.Version,
			Path:      res.Source.Path,
			Direction: res.Direction,
			Duration:  res.Duration,
		})
	}
	return out
}
