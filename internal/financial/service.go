package financial

import (
	"context"
	"fmt"

	"github.com/garagehub/autoshop-backend/pkg/db"
	"github.com/garagehub/autoshop-backend/pkg/db/models"
	"github.com/garagehub/autoshop-backend/pkg/enums"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"github.com/garagehub/autoshop-backend/pkg/types"
)

type ledgerRepository interface {
	List(ctx context.Context, f Filter) ([]models.FinancialOperation, error)
	Totals(ctx context.Context, f Filter) ([]TypeTotal, error)
	Create(ctx context.Context, op *models.FinancialOperation) error
}

// Service exposes the financial ledger.
type Service interface {
	List(ctx context.Context, input FilterInput) (*Report, error)
	Summarize(ctx context.Context, f Filter) (Summary, error)
	Create(ctx context.Context, input CreateInput) (uint64, error)
}

type service struct {
	repo  ledgerRepository
	today func() types.Date
}

func NewService(repo ledgerRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("financial repository required")
	}
	return &service{repo: repo, today: types.Today}, nil
}

func (s *service) List(ctx context.Context, input FilterInput) (*Report, error) {
	f, applied, err := ParseFilter(input)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list financial operations")
	}
	summary, err := s.Summarize(ctx, f)
	if err != nil {
		return nil, err
	}

	ops := make([]OperationDTO, 0, len(rows))
	for i := range rows {
		ops = append(ops, fromModel(&rows[i]))
	}
	return &Report{Operations: ops, Summary: summary, Filters: applied}, nil
}

func (s *service) Summarize(ctx context.Context, f Filter) (Summary, error) {
	totals, err := s.repo.Totals(ctx, f)
	if err != nil {
		return Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: summarize financial operations")
	}
	return summarize(totals), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (uint64, error) {
	opType, err := enums.ParseFinancialOperationType(input.Type)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "type must be income or expense").
			WithDetails(map[string]string{"type": "must be one of income, expense"})
	}
	if !input.Amount.IsPositive() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive").
			WithDetails(map[string]string{"amount": "must be greater than 0"})
	}

	op := &models.FinancialOperation{
		Type:           opType,
		Amount:         input.Amount,
		Description:    input.Description,
		Category:       input.Category,
		RelatedOrderID: input.RelatedOrderID,
		OperationDate:  s.today(),
	}
	if err := s.repo.Create(ctx, op); err != nil {
		if db.IsForeignKeyViolation(err) {
			return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "related order does not exist").
				WithDetails(map[string]string{"related_order_id": "must reference an existing order"})
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create financial operation")
	}
	return op.ID, nil
}
