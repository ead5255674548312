package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const versionLayout = "20060102150405"

var unsafeNameRe = regexp.MustCompile(`[^a-z0-9_]+`)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- rollback %[1]s
-- +goose StatementEnd
`

// CreateSQLMigration writes an empty goose migration into dir.
func CreateSQLMigration(dir, name string) (string, error) {
	paths, err := CreateSQLMigrations([]string{dir}, name, time.Now())
	if err != nil {
		return "", err
	}
	return paths[0], nil
}

// CreateSQLMigrations writes one migration per dir under a shared version so
// the postgres and sqlite trees advance together. The version is bumped past
// the newest existing file when the clock would sort it earlier.
func CreateSQLMigrations(dirs []string, name string, now time.Time) ([]string, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("dir is required")
	}
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("name %q results in empty sanitized filename", name)
	}

	version, _ := strconv.ParseInt(now.UTC().Format(versionLayout), 10, 64)
	for _, dir := range dirs {
		if dir == "" {
			return nil, fmt.Errorf("dir is required")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %q: %w", dir, err)
		}
		existing, err := ScanDir(dir)
		if err != nil {
			return nil, err
		}
		if n := len(existing); n > 0 && existing[n-1].Version >= version {
			version = existing[n-1].Version + 1
		}
	}

	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		path := filepath.Join(dir, fmt.Sprintf("%d_%s.sql", version, slug))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			return paths, fmt.Errorf("create migration %q: %w", path, err)
		}
		_, werr := fmt.Fprintf(f, migrationTemplate, slug)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return paths, fmt.Errorf("write migration %q: %w", path, werr)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func sanitizeName(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "_")
	slug = unsafeNameRe.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}
