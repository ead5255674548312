package parts

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/garagehub/autoshop-backend/pkg/db"
	"github.com/garagehub/autoshop-backend/pkg/db/models"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
)

type partRepository interface {
	List(ctx context.Context) ([]models.PartWithCategory, error)
	ListLowStock(ctx context.Context) ([]models.PartWithCategory, error)
	FindByID(ctx context.Context, id uint64) (*models.PartWithCategory, error)
	Create(ctx context.Context, part *models.Part) error
	Replace(ctx context.Context, id uint64, part *models.Part) (int64, error)
	Delete(ctx context.Context, id uint64) (int64, error)
	ListCategories(ctx context.Context) ([]models.PartCategory, error)
	CreateCategory(ctx context.Context, category *models.PartCategory) error
}

// Service exposes inventory and part category operations.
type Service interface {
	List(ctx context.Context) ([]PartDTO, error)
	ListLowStock(ctx context.Context) ([]PartDTO, error)
	GetByID(ctx context.Context, id uint64) (*PartDTO, error)
	Create(ctx context.Context, input PartInput) (*PartDTO, error)
	Update(ctx context.Context, id uint64, input PartInput) (*PartDTO, error)
	Delete(ctx context.Context, id uint64) error
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
}

type service struct {
	repo partRepository
}

func NewService(repo partRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("part repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]PartDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list parts")
	}
	return fromModels(rows), nil
}

func (s *service) ListLowStock(ctx context.Context) ([]PartDTO, error) {
	rows, err := s.repo.ListLowStock(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list low stock parts")
	}
	return fromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (*PartDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load part")
	}
	return FromModel(row), nil
}

func (s *service) Create(ctx context.Context, input PartInput) (*PartDTO, error) {
	if err := validateStock(input); err != nil {
		return nil, err
	}
	model := input.toModel()
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, mapWriteError(err, "db: create part")
	}
	return s.GetByID(ctx, model.ID)
}

func (s *service) Update(ctx context.Context, id uint64, input PartInput) (*PartDTO, error) {
	if err := validateStock(input); err != nil {
		return nil, err
	}
	affected, err := s.repo.Replace(ctx, id, input.toModel())
	if err != nil {
		return nil, mapWriteError(err, "db: update part")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Part not found")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "part is referenced by service orders")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete part")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Part not found")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list part categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, categoryFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	model := &models.PartCategory{Name: input.Name, Description: input.Description}
	if err := s.repo.CreateCategory(ctx, model); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "part category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create part category")
	}
	dto := categoryFromModel(model)
	return &dto, nil
}

func validateStock(input PartInput) error {
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if input.MinQuantity != nil && *input.MinQuantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "min_quantity must not be negative")
	}
	return nil
}

func mapWriteError(err error, msg string) error {
	switch {
	case db.IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "part category does not exist").
			WithDetails(map[string]string{"category_id": "must reference an existing category"})
	case db.IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "quantity must not be negative")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
