package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeInsufficientStock, status: http.StatusConflict, publicMsg: "not enough parts in stock", detailsOK: true},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, publicMsg: "rate limit exceeded"},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing foo" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	detail := map[string]any{"field": "foo"}
	base.WithDetails(detail)
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}
}

func TestErrorStringIncludesCode(t *testing.T) {
	err := Newf(CodeInsufficientStock, "not enough parts in stock: %d", 7)
	if got := err.Error(); got != "INSUFFICIENT_STOCK: not enough parts in stock: 7" {
		t.Fatalf("unexpected error string %q", got)
	}

	wrapped := Wrap(CodeDependency, stdErrors.New("connection refused"), "list parts")
	if got := wrapped.Error(); got != "DEPENDENCY_ERROR: list parts: connection refused" {
		t.Fatalf("unexpected wrapped error string %q", got)
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(CodeNotFound, "order not found")); got != CodeNotFound {
		t.Fatalf("expected not found, got %s", got)
	}
	nested := fmt.Errorf("create order: %w", New(CodeInsufficientStock, "short"))
	if got := CodeOf(nested); got != CodeInsufficientStock {
		t.Fatalf("expected code through fmt wrapping, got %s", got)
	}
	if got := CodeOf(stdErrors.New("plain")); got != CodeInternal {
		t.Fatalf("untyped errors should be internal, got %s", got)
	}
}

func TestDumpWalksChain(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := Wrap(CodeDependency, cause, "db: insert order")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d", len(dump.Chain))
	}
	if dump.SQLState != "" {
		t.Fatalf("non-database errors should not carry a sql state, got %q", dump.SQLState)
	}
}

func TestDumpExtractsDriverFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "service_orders_client_id_fkey", TableName: "service_orders"}
	dump := Dump(Wrap(CodeDependency, fmt.Errorf("insert order: %w", pgErr), "create order"))
	if dump.SQLState != "23503" || dump.Constraint != "service_orders_client_id_fkey" || dump.Table != "service_orders" {
		t.Fatalf("postgres fields not extracted: %+v", dump)
	}

	lite := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}
	dump = Dump(Wrap(CodeDependency, lite, "decrement stock"))
	if dump.SQLState != "sqlite:275" {
		t.Fatalf("expected sqlite extended code, got %q", dump.SQLState)
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := New(CodeStateConflict, "completed is terminal")
	if got := As(err); got == nil || got.Code() != CodeStateConflict {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
}
