package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/garagehub/autoshop-backend/pkg/db"
	"github.com/garagehub/autoshop-backend/pkg/db/models"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
)

type serviceRepository interface {
	List(ctx context.Context) ([]models.Service, error)
	FindByID(ctx context.Context, id uint64) (*models.Service, error)
	Create(ctx context.Context, svc *models.Service) error
	Replace(ctx context.Context, id uint64, svc *models.Service) (int64, error)
	Delete(ctx context.Context, id uint64) (int64, error)
}

// Service exposes catalog operations.
type Service interface {
	List(ctx context.Context) ([]ServiceDTO, error)
	GetByID(ctx context.Context, id uint64) (*ServiceDTO, error)
	Create(ctx context.Context, input ServiceInput) (*ServiceDTO, error)
	Update(ctx context.Context, id uint64, input ServiceInput) (*ServiceDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type service struct {
	repo serviceRepository
}

func NewService(repo serviceRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("service repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ServiceDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list services")
	}
	out := make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (*ServiceDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load service")
	}
	return FromModel(row), nil
}

func (s *service) Create(ctx context.Context, input ServiceInput) (*ServiceDTO, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	model := input.toModel()
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create service")
	}
	return s.GetByID(ctx, model.ID)
}

func (s *service) Update(ctx context.Context, id uint64, input ServiceInput) (*ServiceDTO, error) {
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	affected, err := s.repo.Replace(ctx, id, input.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update service")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Service not found")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "service is referenced by service orders")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete service")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Service not found")
	}
	return nil
}
