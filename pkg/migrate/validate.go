package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)

// File is one goose SQL migration on disk.
type File struct {
	Version int64
	Name    string
	Path    string
}

// ScanDir lists the migrations in dir ordered by version. Non-SQL files are
// ignored; badly named or duplicate versions are errors.
func ScanDir(dir string) ([]File, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	var files []File
	seen := map[int64]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		m := sqlFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", e.Name())
		}
		version, _ := strconv.ParseInt(m[1], 10, 64)
		if prev, dup := seen[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %d in %q and %q", version, prev, e.Name())
		}
		seen[version] = e.Name()
		files = append(files, File{Version: version, Name: m[2], Path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// ValidateDir checks names plus the goose annotations goose itself only
// trips over at apply time.
func ValidateDir(dir string) error {
	files, err := ScanDir(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		body, err := os.ReadFile(f.Path)
		if err != nil {
			return fmt.Errorf("read file %q: %w", f.Path, err)
		}
		if err := checkAnnotations(string(body)); err != nil {
			return fmt.Errorf("migration %q: %w", filepath.Base(f.Path), err)
		}
	}
	return nil
}

func checkAnnotations(sql string) error {
	up := strings.Index(sql, "-- +goose Up")
	down := strings.Index(sql, "-- +goose Down")
	switch {
	case up < 0:
		return fmt.Errorf(`missing "-- +goose Up"`)
	case down < 0:
		return fmt.Errorf(`missing "-- +goose Down"`)
	case down < up:
		return fmt.Errorf("Down section precedes Up")
	}
	begins := strings.Count(sql, "-- +goose StatementBegin")
	ends := strings.Count(sql, "-- +goose StatementEnd")
	if begins != ends {
		return fmt.Errorf("unbalanced StatementBegin/StatementEnd (%d/%d)", begins, ends)
	}
	return nil
}
