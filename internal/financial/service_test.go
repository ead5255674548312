package financial

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garagehub/autoshop-backend/pkg/db/dbtest"
	"github.com/garagehub/autoshop-backend/pkg/db/models"
	"github.com/garagehub/autoshop-backend/pkg/enums"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"github.com/garagehub/autoshop-backend/pkg/types"
)

func mustDate(t *testing.T, raw string) types.Date {
	t.Helper()
	d, err := types.ParseDate(raw)
	require.NoError(t, err)
	return d
}

func seedLedger(t *testing.T, repo *Repository) {
	t.Helper()
	ctx := context.Background()
	rows := []models.FinancialOperation{
		{Type: enums.FinancialOperationIncome, Amount: decimal.NewFromInt(2000), OperationDate: mustDate(t, "2025-03-01")},
		{Type: enums.FinancialOperationExpense, Amount: decimal.NewFromInt(300), OperationDate: mustDate(t, "2025-03-05")},
		{Type: enums.FinancialOperationIncome, Amount: decimal.RequireFromString("1500.50"), OperationDate: mustDate(t, "2025-03-10")},
		{Type: enums.FinancialOperationExpense, Amount: decimal.NewFromInt(700), OperationDate: mustDate(t, "2025-04-01")},
	}
	for i := range rows {
		require.NoError(t, repo.Create(ctx, &rows[i]))
	}
}

func newTestLedger(t *testing.T) (*Repository, *service) {
	t.Helper()
	repo := NewRepository(dbtest.New(t))
	svc, err := NewService(repo)
	require.NoError(t, err)
	return repo, svc.(*service)
}

func TestListWithoutFilterSummarizesEverything(t *testing.T) {
	repo, svc := newTestLedger(t)
	seedLedger(t, repo)

	report, err := svc.List(context.Background(), FilterInput{})
	require.NoError(t, err)
	require.Len(t, report.Operations, 4)
	assert.Equal(t, "2025-04-01", report.Operations[0].OperationDate.String(), "latest operation first")
	assert.Equal(t, "2025-03-01", report.Operations[3].OperationDate.String())

	assert.True(t, report.Summary.Income.Equal(decimal.RequireFromString("3500.50")), "income %s", report.Summary.Income)
	assert.True(t, report.Summary.Expense.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.Summary.Balance.Equal(decimal.RequireFromString("2500.50")))
	assert.Nil(t, report.Filters.StartDate)
}

func TestDateBoundsAreInclusive(t *testing.T) {
	repo, svc := newTestLedger(t)
	seedLedger(t, repo)

	report, err := svc.List(context.Background(), FilterInput{StartDate: "2025-03-05", EndDate: "2025-03-10"})
	require.NoError(t, err)
	require.Len(t, report.Operations, 2)
	assert.True(t, report.Summary.Income.Equal(decimal.RequireFromString("1500.5")))
	assert.True(t, report.Summary.Expense.Equal(decimal.NewFromInt(300)))
	assert.True(t, report.Summary.Balance.Equal(report.Summary.Income.Sub(report.Summary.Expense)))
	require.NotNil(t, report.Filters.StartDate)
	assert.Equal(t, "2025-03-05", *report.Filters.StartDate)
}

func TestTypeFilterAppliesToListAndSummary(t *testing.T) {
	repo, svc := newTestLedger(t)
	seedLedger(t, repo)

	report, err := svc.List(context.Background(), FilterInput{Type: "expense"})
	require.NoError(t, err)
	require.Len(t, report.Operations, 2)
	for _, op := range report.Operations {
		assert.Equal(t, enums.FinancialOperationExpense, op.Type)
	}
	assert.True(t, report.Summary.Income.IsZero())
	assert.True(t, report.Summary.Balance.Equal(decimal.NewFromInt(-1000)))
}

func TestUnknownTypeIsIgnored(t *testing.T) {
	repo, svc := newTestLedger(t)
	seedLedger(t, repo)

	report, err := svc.List(context.Background(), FilterInput{Type: "refund"})
	require.NoError(t, err)
	assert.Len(t, report.Operations, 4)
	assert.Nil(t, report.Filters.Type)
}

func TestMalformedDateRejected(t *testing.T) {
	_, svc := newTestLedger(t)

	_, err := svc.List(context.Background(), FilterInput{StartDate: "03/01/2025"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Details(), "start_date")
}

func TestEmptyLedgerSummaryIsZero(t *testing.T) {
	_, svc := newTestLedger(t)

	summary, err := svc.Summarize(context.Background(), Filter{})
	require.NoError(t, err)
	assert.True(t, summary.Income.IsZero())
	assert.True(t, summary.Expense.IsZero())
	assert.True(t, summary.Balance.IsZero())
}

func TestCreateStampsToday(t *testing.T) {
	repo, svc := newTestLedger(t)
	fixed := types.NewDate(time.Date(2025, 5, 20, 15, 0, 0, 0, time.UTC))
	svc.today = func() types.Date { return fixed }

	desc := "Brake fluid purchase"
	id, err := svc.Create(context.Background(), CreateInput{Type: "expense", Amount: decimal.NewFromInt(450), Description: &desc})
	require.NoError(t, err)
	require.NotZero(t, id)

	rows, err := repo.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-05-20", rows[0].OperationDate.String())
	assert.Nil(t, rows[0].RelatedOrderID)
}

func TestCreateValidatesInput(t *testing.T) {
	_, svc := newTestLedger(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Type: "gift", Amount: decimal.NewFromInt(1)})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(ctx, CreateInput{Type: "income", Amount: decimal.Zero})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	missing := uint64(999)
	_, err = svc.Create(ctx, CreateInput{Type: "income", Amount: decimal.NewFromInt(5), RelatedOrderID: &missing})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
