// Package catalog manages the product and category master data the budget
// builder draws from. Deletion is soft on both tables so mistakes can be
// undone from the trash.
package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
)

// ProductDTO is the API view of a catalog product.
type ProductDTO struct {
	ID           uuid.UUID  `json:"id"`
	CategoryID   *uuid.UUID `json:"category_id"`
	CategoryName string     `json:"category_name,omitempty"`
	Name         string     `json:"name"`
	Code         *string    `json:"code"`
	Image        *string    `json:"image"`
	Alt          *string    `json:"alt"`
	HasPDF       bool       `json:"has_pdf"`
	FinalPrice   float64    `json:"final_price"`
	Cost         float64    `json:"cost"`
	Labor        float64    `json:"labor"`
	Profit       float64    `json:"profit"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CategoryDTO is the API view of a product category.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Icon      *string   `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductInput is the create/update payload for a product. Profit is always
// derived from price and cost, never taken from the client.
type ProductInput struct {
	CategoryID *uuid.UUID `json:"category_id"`
	Name       string     `json:"name" validate:"required,max=200"`
	Code       *string    `json:"code"`
	Image      *string    `json:"image"`
	Alt        *string    `json:"alt"`
	HasPDF     bool       `json:"has_pdf"`
	FinalPrice float64    `json:"final_price" validate:"gte=0"`
	Cost       float64    `json:"cost" validate:"gte=0"`
	Labor      float64    `json:"labor" validate:"gte=0"`
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name string  `json:"name" validate:"required,max=120"`
	Icon *string `json:"icon"`
}

// ListOptions filters the product listing.
type ListOptions struct {
	CategoryID *uuid.UUID
	Search     string
}

func toProductDTO(p models.Product) ProductDTO {
	dto := ProductDTO{
		ID:         p.ID,
		CategoryID: p.CategoryID,
		Name:       p.Name,
		Code:       p.Code,
		Image:      p.Image,
		Alt:        p.Alt,
		HasPDF:     p.HasPDF,
		FinalPrice: p.FinalPrice,
		Cost:       p.Cost,
		Labor:      p.Labor,
		Profit:     p.Profit,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Category != nil {
		dto.CategoryName = p.Category.Name
	}
	return dto
}

func toCategoryDTO(c models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Icon:      c.Icon,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
