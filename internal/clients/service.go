package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/garagehub/autoshop-backend/pkg/db"
	"github.com/garagehub/autoshop-backend/pkg/db/models"
	pkgerrors "github.com/garagehub/autoshop-backend/pkg/errors"
	"gorm.io/gorm"
)

type clientRepository interface {
	List(ctx context.Context) ([]models.Client, error)
	FindByID(ctx context.Context, id uint64) (*models.Client, error)
	Create(ctx context.Context, client *models.Client) error
	Replace(ctx context.Context, id uint64, client *models.Client) (int64, error)
	Delete(ctx context.Context, id uint64) (int64, error)
}

// Service exposes client operations.
type Service interface {
	List(ctx context.Context) ([]ClientDTO, error)
	GetByID(ctx context.Context, id uint64) (*ClientDTO, error)
	Create(ctx context.Context, input ClientInput) (*ClientDTO, error)
	Update(ctx context.Context, id uint64, input ClientInput) (*ClientDTO, error)
	Delete(ctx context.Context, id uint64) error
}

type service struct {
	repo clientRepository
}

// NewService builds a client service with the provided repository.
func NewService(repo clientRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("client repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ClientDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list clients")
	}
	out := make([]ClientDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (*ClientDTO, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Client not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load client")
	}
	return FromModel(client), nil
}

func (s *service) Create(ctx context.Context, input ClientInput) (*ClientDTO, error) {
	model := input.toModel()
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create client")
	}
	return s.GetByID(ctx, model.ID)
}

func (s *service) Update(ctx context.Context, id uint64, input ClientInput) (*ClientDTO, error) {
	affected, err := s.repo.Replace(ctx, id, input.toModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update client")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Client not found")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "client has service orders")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete client")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Client not found")
	}
	return nil
}
