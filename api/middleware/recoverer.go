package middleware

import (
	"fmt"
	"net/http"

	"github.com/garagehub/autoshop-backend/api/responses"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"github.com/garagehub/autoshop-backend/pkg/logger"
)

const panicMessage = "Something went wrong!"

// Recoverer turns a handler panic into the generic 500 envelope.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := panicError(rec)
				ctx := r.Context()
				if logg != nil {
					logg.Error(logg.WithFields(ctx, map[string]any{
						"method": r.Method,
						"path":   r.URL.Path,
					}), "panic.recovered", err)
				}
				responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "handler panic"), panicMessage)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rec)
}
