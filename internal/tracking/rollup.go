// Package tracking implements the budget-vs-actual tracker: allocation
// buckets written straight to storage and the rollup that grades spending
// against the overspend thresholds.
package tracking

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/money"
)

// CategoryDTO is one allocation bucket with its derived consumption fields.
type CategoryDTO struct {
	ID                 uuid.UUID              `json:"id"`
	ProjectID          uuid.UUID              `json:"project_id"`
	Name               string                 `json:"name"`
	AllocatedAmount    float64                `json:"allocated_amount"`
	SpentAmount        float64                `json:"spent_amount"`
	Remaining          float64                `json:"remaining"`
	SpentPercent       float64                `json:"spent_percent"`
	AlertLevel         enums.BudgetAlertLevel `json:"alert_level"`
	Color              *string                `json:"color"`
	FormattedAllocated string                 `json:"formatted_allocated"`
	FormattedSpent     string                 `json:"formatted_spent"`
	FormattedRemaining string                 `json:"formatted_remaining"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// Summary is the project-level rollup across every bucket.
type Summary struct {
	Categories         []CategoryDTO          `json:"categories"`
	TotalAllocated     float64                `json:"total_allocated"`
	TotalSpent         float64                `json:"total_spent"`
	TotalRemaining     float64                `json:"total_remaining"`
	SpentPercent       float64                `json:"spent_percent"`
	AlertLevel         enums.BudgetAlertLevel `json:"alert_level"`
	FormattedAllocated string                 `json:"formatted_allocated"`
	FormattedSpent     string                 `json:"formatted_spent"`
	FormattedRemaining string                 `json:"formatted_remaining"`
}

// Rollup folds the buckets into the tracker view. It is pure: an empty slice
// yields a zero summary with a normal alert level, and a zero allocation
// never divides.
func Rollup(categories []models.BudgetCategory, loc money.Locale) Summary {
	out := Summary{Categories: make([]CategoryDTO, 0, len(categories))}

	for _, cat := range categories {
		dto := toCategoryDTO(cat, loc)
		out.Categories = append(out.Categories, dto)
		out.TotalAllocated += cat.AllocatedAmount
		out.TotalSpent += cat.SpentAmount
	}

	out.TotalRemaining = out.TotalAllocated - out.TotalSpent
	out.SpentPercent = spentPercent(out.TotalSpent, out.TotalAllocated)
	out.AlertLevel = enums.AlertLevelFor(out.SpentPercent)
	out.FormattedAllocated = money.FormatCurrency(out.TotalAllocated, loc)
	out.FormattedSpent = money.FormatCurrency(out.TotalSpent, loc)
	out.FormattedRemaining = money.FormatCurrency(out.TotalRemaining, loc)
	return out
}

func toCategoryDTO(cat models.BudgetCategory, loc money.Locale) CategoryDTO {
	percent := spentPercent(cat.SpentAmount, cat.AllocatedAmount)
	return CategoryDTO{
		ID:                 cat.ID,
		ProjectID:          cat.ProjectID,
		Name:               cat.Name,
		AllocatedAmount:    cat.AllocatedAmount,
		SpentAmount:        cat.SpentAmount,
		Remaining:          cat.AllocatedAmount - cat.SpentAmount,
		SpentPercent:       percent,
		AlertLevel:         enums.AlertLevelFor(percent),
		Color:              cat.Color,
		FormattedAllocated: money.FormatCurrency(cat.AllocatedAmount, loc),
		FormattedSpent:     money.FormatCurrency(cat.SpentAmount, loc),
		FormattedRemaining: money.FormatCurrency(cat.AllocatedAmount-cat.SpentAmount, loc),
		CreatedAt:          cat.CreatedAt,
		UpdatedAt:          cat.UpdatedAt,
	}
}

func spentPercent(spent, allocated float64) float64 {
	if allocated <= 0 {
		return 0
	}
	return math.Round(spent/allocated*1000) / 10
}
