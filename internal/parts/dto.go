package parts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/garagehub/autoshop-backend/pkg/db/models"
)

// DefaultMinQuantity is the reorder threshold applied when none is supplied.
const DefaultMinQuantity = 5

// PartDTO is the API shape of a part, including its category name.
type PartDTO struct {
	ID           uint64          `json:"id"`
	Name         string          `json:"name"`
	CategoryID   *uint64         `json:"category_id"`
	CategoryName *string         `json:"category_name"`
	PartNumber   *string         `json:"part_number"`
	Manufacturer *string         `json:"manufacturer"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	MinQuantity  int             `json:"min_quantity"`
	Location     *string         `json:"location"`
	CreatedAt    time.Time       `json:"created_at"`
}

// PartInput carries the writable part fields. A nil MinQuantity falls back to
// DefaultMinQuantity.
type PartInput struct {
	Name         string
	CategoryID   *uint64
	PartNumber   *string
	Manufacturer *string
	Price        decimal.Decimal
	Quantity     int
	MinQuantity  *int
	Location     *string
}

// CategoryDTO is the API shape of a part category.
type CategoryDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string
	Description *string
}

func FromModel(m *models.PartWithCategory) *PartDTO {
	if m == nil {
		return nil
	}
	return &PartDTO{
		ID:           m.ID,
		Name:         m.Name,
		CategoryID:   m.CategoryID,
		CategoryName: m.CategoryName,
		PartNumber:   m.PartNumber,
		Manufacturer: m.Manufacturer,
		Price:        m.Price,
		Quantity:     m.Quantity,
		MinQuantity:  m.MinQuantity,
		Location:     m.Location,
		CreatedAt:    m.CreatedAt,
	}
}

func fromModels(rows []models.PartWithCategory) []PartDTO {
	out := make([]PartDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func (in PartInput) toModel() *models.Part {
	minQty := DefaultMinQuantity
	if in.MinQuantity != nil {
		minQty = *in.MinQuantity
	}
	return &models.Part{
		Name:         in.Name,
		CategoryID:   in.CategoryID,
		PartNumber:   in.PartNumber,
		Manufacturer: in.Manufacturer,
		Price:        in.Price,
		Quantity:     in.Quantity,
		MinQuantity:  minQty,
		Location:     in.Location,
	}
}

func categoryFromModel(m *models.PartCategory) CategoryDTO {
	return CategoryDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
	}
}
