package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/garagehub/autoshop-backend/pkg/db"
	"github.com/garagehub/autoshop-backend/pkg/db/models"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"gorm.io/gorm"
)

type employeeRepository interface {
	List(ctx context.Context) ([]models.Employee, error)
	FindByID(ctx context.Context, id uint64) (*models.Employee, error)
	Create(ctx context.Context, employee *models.Employee) error
	Replace(ctx context.Context, id uint64, employee *models.Employee) (int64, error)
	Delete(ctx context.Context, id uint64) (int64, error)
}

// Service exposes employee operations.
type Service interface {
	List(ctx context.Context) ([]EmployeeDTO, error)
	GetByID(ctx context.Context, id uint64) (*EmployeeDTO, error)
	Create(ctx context.Context, input EmployeeInput) (*EmployeeDTO, error)
	Update(ctx context.Context, id uint64, input EmployeeInput) (*EmployeeDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type service struct {
	repo employeeRepository
}

func NewService(repo employeeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]EmployeeDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list employees")
	}
	out := make([]EmployeeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (*EmployeeDTO, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Employee not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load employee")
	}
	return FromModel(employee), nil
}

func (s *service) Create(ctx context.Context, input EmployeeInput) (*EmployeeDTO, error) {
	if !input.Salary.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary must be positive")
	}
	model := input.toModel()
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create employee")
	}
	return s.GetByID(ctx, model.ID)
}

func (s *service) Update(ctx context.Context, id uint64, input EmployeeInput) (*EmployeeDTO, error) {
	affected, err := s.repo.Replace(ctx, id, input.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update employee")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Employee not found")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "employee is assigned to service orders")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete employee")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Employee not found")
	}
	return nil
}
