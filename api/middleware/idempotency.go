package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/garagehub/autoshop-backend/api/responses"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"github.com/garagehub/autoshop-backend/pkg/logger"
	pkgredis "github.com/garagehub/autoshop-backend/pkg/redis"
)

const (
	idempotencyHeader   = "Idempotency-Key"
	replayHeader        = "Idempotent-Replayed"
	maxIdempotencyKey   = 255
	replayTTL           = 24 * time.Hour
	inFlightTTL         = 2 * time.Minute
	idempotencyFallback = "Failed to process request"
)

// Only writes that move stock or money are replayable.
var replayableWrites = map[string]time.Duration{
	http.MethodPost + " /api/orders":    replayTTL,
	http.MethodPost + " /api/financial": replayTTL,
}

// storedResponse is what lives under an idempotency key. A record with
// Pending set marks a request that is still running.
type storedResponse struct {
	Pending     bool   `json:"pending,omitempty"`
	RequestHash string `json:"request_hash"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

// Idempotency replays the first response for a repeated Idempotency-Key on
// order and ledger creation. Requests without the header run normally.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := replayTTLFor(r.Method, r.URL.Path)
			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if !ok || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if len(clientKey) > maxIdempotencyKey {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key must be at most 255 characters"), "")
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid request body"), "")
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := hashBody(body)
			key := store.IdempotencyKey(r.Method+"|"+normalizePath(r.URL.Path), clientKey)

			marker, _ := json.Marshal(storedResponse{Pending: true, RequestHash: hash})
			reserved, err := store.SetNX(ctx, key, string(marker), inFlightTTL)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"), idempotencyFallback)
				return
			}
			if !reserved {
				replayExisting(w, r, store, logg, key, hash)
				return
			}

			capture := &responseCapture{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			// the outcome is recorded even if the client has gone away
			persistCtx := context.WithoutCancel(ctx)
			status := capture.statusCode()
			if status >= http.StatusInternalServerError {
				// release the key so the client can retry
				if err := store.Del(persistCtx, key); err != nil {
					logError(ctx, logg, "idempotency.release_failed", err)
				}
				return
			}

			record, err := json.Marshal(storedResponse{
				RequestHash: hash,
				Status:      status,
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
			})
			if err != nil {
				logError(ctx, logg, "idempotency.encode_failed", err)
				return
			}
			if err := store.Set(persistCtx, key, string(record), ttl); err != nil {
				logError(ctx, logg, "idempotency.store_failed", err)
			}
		})
	}
}

func replayExisting(w http.ResponseWriter, r *http.Request, store pkgredis.IdempotencyStore, logg *logger.Logger, key, hash string) {
	ctx := r.Context()
	raw, err := store.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		// the in-flight marker expired between SETNX and GET
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this Idempotency-Key is still being processed"), "")
		return
	}
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load idempotency record"), idempotencyFallback)
		return
	}

	var record storedResponse
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"), idempotencyFallback)
		return
	}
	switch {
	case record.RequestHash != hash:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "Idempotency-Key reused with a different request body"), "")
	case record.Pending:
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "request with this Idempotency-Key is still being processed"), "")
	default:
		if record.ContentType != "" {
			w.Header().Set("Content-Type", record.ContentType)
		}
		w.Header().Set(replayHeader, "true")
		w.WriteHeader(record.Status)
		_, _ = w.Write(record.Body)
	}
}

func replayTTLFor(method, path string) (time.Duration, bool) {
	ttl, ok := replayableWrites[method+" "+normalizePath(path)]
	return ttl, ok
}

func normalizePath(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}
	return path
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

type responseCapture struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *responseCapture) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

func logError(ctx context.Context, logg *logger.Logger, msg string, err error) {
	if logg != nil {
		logg.Error(ctx, msg, err)
	}
}
