package projects

import (
	"time"

	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
)

// ProjectDTO is the API view of a project. Subtotal and Total are the
// snapshot written by the last budget save.
type ProjectDTO struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Client          *string             `json:"client"`
	ProjectType     *string             `json:"project_type"`
	Status          enums.ProjectStatus `json:"status"`
	StartDate       *time.Time          `json:"start_date"`
	EndDate         *time.Time          `json:"end_date"`
	DiscountPercent float64             `json:"discount_percent"`
	Subtotal        float64             `json:"subtotal"`
	Total           float64             `json:"total"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CreateInput is the payload for opening a project.
type CreateInput struct {
	Name            string     `json:"name" validate:"required,max=200"`
	Client          *string    `json:"client"`
	ProjectType     *string    `json:"project_type"`
	Status          string     `json:"status"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	DiscountPercent float64    `json:"discount_percent" validate:"gte=0,lte=100"`
}

// UpdateInput is the payload for editing a project. Nil fields are left
// untouched.
type UpdateInput struct {
	Name            *string    `json:"name" validate:"omitempty,max=200"`
	Client          *string    `json:"client"`
	ProjectType     *string    `json:"project_type"`
	Status          *string    `json:"status"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	DiscountPercent *float64   `json:"discount_percent" validate:"omitempty,gte=0,lte=100"`
}

func toDTO(p models.Project) ProjectDTO {
	return ProjectDTO{
		ID:              p.ID,
		Name:            p.Name,
		Client:          p.Client,
		ProjectType:     p.ProjectType,
		Status:          p.Status,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		DiscountPercent: p.DiscountPercent,
		Subtotal:        p.Subtotal,
		Total:           p.Total,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
