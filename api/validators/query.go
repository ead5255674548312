package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
)

// ParseURLID reads a positive integer route parameter.
func ParseURLID(r *http.Request, key string) (uint64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]any{"field": key, "value": raw})
	}
	return value, nil
}

// QueryValue returns the first non-empty query parameter among keys.
func QueryValue(r *http.Request, keys ...string) string {
	q := r.URL.Query()
	for _, key := range keys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
	}
	return ""
}
