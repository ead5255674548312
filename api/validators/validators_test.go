package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
)

type lineRequest struct {
	ID       uint64 `json:"id" validate:"required,gt=0"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

type sampleRequest struct {
	Name   string          `json:"name" validate:"required,min=2,max=50"`
	Phone  *string         `json:"phone" validate:"omitempty,phone"`
	Email  *string         `json:"email" validate:"omitempty,email"`
	Salary decimal.Decimal `json:"salary" validate:"gt=0"`
	Lines  []lineRequest   `json:"lines" validate:"dive"`
}

func newBodyRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSONBodyAcceptsValidInput(t *testing.T) {
	var req sampleRequest
	err := DecodeJSONBody(newBodyRequest(`{"name":"Ivan","phone":"+7 (900) 123-45-67","salary":"45000.50","lines":[{"id":1,"quantity":2}],"extra":true}`), &req)
	require.NoError(t, err)
	assert.Equal(t, "45000.5", req.Salary.String())
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	var req sampleRequest
	err := DecodeJSONBody(newBodyRequest(`{"name":"I","phone":"call me","salary":0,"lines":[{"id":1,"quantity":0}]}`), &req)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be at least 2 characters", details["name"])
	assert.Equal(t, "must be a valid phone number", details["phone"])
	assert.Equal(t, "must be greater than 0", details["salary"])
	assert.Equal(t, "is required", details["lines[0].quantity"])
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	var req sampleRequest
	err := DecodeJSONBody(newBodyRequest(`{"name":`), &req)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestParseURLID(t *testing.T) {
	withParam := func(value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", value)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}

	id, err := ParseURLID(withParam("42"), "id")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, err := ParseURLID(withParam(bad), "id")
		assert.Error(t, err, bad)
	}
}

func TestQueryValuePrefersFirstKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?startDate=2025-01-01&start_date=2025-02-01", nil)
	assert.Equal(t, "2025-02-01", QueryValue(r, "start_date", "startDate"))

	r = httptest.NewRequest(http.MethodGet, "/?startDate=2025-01-01", nil)
	assert.Equal(t, "2025-01-01", QueryValue(r, "start_date", "startDate"))
	assert.Empty(t, QueryValue(r, "type"))
}

func TestSanitizeOptional(t *testing.T) {
	blank := "   "
	assert.Nil(t, SanitizeOptional(&blank, 10))
	assert.Nil(t, SanitizeOptional(nil, 10))
	v := "  Camry  "
	assert.Equal(t, "Camry", *SanitizeOptional(&v, 10))
}

func TestSanitizeStringCountsRunes(t *testing.T) {
	assert.Equal(t, "Иван", SanitizeString("  Иванов ", 4))
	assert.Equal(t, "Petrov", SanitizeString("Petrov", 50))
	assert.Equal(t, "Pet", SanitizeString("Pet rov", 4), "trailing space after the cut is trimmed")
	assert.Equal(t, "unbounded", SanitizeString(" unbounded ", 0))
}
