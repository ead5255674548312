package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"github.com/garagehub/autoshop-backend/pkg/logger"
	"github.com/garagehub/autoshop-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, types.Envelope{Success: true, Data: data})
}

// WriteList writes a collection together with its size.
func WriteList(w http.ResponseWriter, data any, count int) {
	writeJSON(w, http.StatusOK, types.Envelope{Success: true, Data: data, Count: &count})
}

func WriteCreated(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusCreated, types.Envelope{Success: true, Data: data, Message: message})
}

func WriteUpdated(w http.ResponseWriter, data any, message string) {
	writeJSON(w, http.StatusOK, types.Envelope{Success: true, Data: data, Message: message})
}

func WriteMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, types.Envelope{Success: true, Message: message})
}

// WriteError maps err onto the envelope. Client-facing codes surface the typed
// message; server faults use fallback (or the code's public message) so
// internals never leak.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error, fallback string) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeStateConflict,
		pkgerrors.CodeInsufficientStock,
		pkgerrors.CodeIdempotency,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	default:
		if meta.HTTPStatus >= http.StatusInternalServerError && fallback != "" {
			msg = fallback
		}
	}

	payload := types.Envelope{
		Success: false,
		Error:   msg,
		Code:    string(typed.Code()),
	}
	if meta.DetailsAllowed {
		payload.Details = typed.Details()
	}

	if logg != nil {
		if meta.HTTPStatus >= http.StatusInternalServerError {
			dump := pkgerrors.Dump(err)
			ctx = logg.WithField(ctx, "error_dump", dump)
			logg.Error(ctx, "request.error", err)
		} else {
			ctx = logg.WithFields(ctx, map[string]any{
				"error":      typed.Error(),
				"error_code": string(typed.Code()),
			})
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

// WriteJSON writes payload without the envelope.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
