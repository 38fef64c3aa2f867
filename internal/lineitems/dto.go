package lineitems

import (
	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/internal/budget"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
)

// BudgetDTO is the builder's load payload: the reconstructed cart plus the
// totals aggregated with the project's saved discount. The Formatted* fields
// render under the builder's own currency pair, which differs from the
// tracker's.
type BudgetDTO struct {
	Items             []budget.CartItem `json:"items"`
	Totals            budget.Totals     `json:"totals"`
	FormattedSubtotal string            `json:"formatted_subtotal"`
	FormattedDiscount string            `json:"formatted_discount"`
	FormattedTotal    string            `json:"formatted_total"`
}

// RowDTO is one line item in the editor view. Total is the display amount
// qty x unit cost x (1 + markup/100); it is derived, never stored.
type RowDTO struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	UnitCost  float64   `json:"unit_cost"`
	Markup    float64   `json:"markup"`
	LaborCost float64   `json:"labor_cost"`
	Total     float64   `json:"total"`
}

// RowInput is the editor's create/update payload.
type RowInput struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
	Markup    float64 `json:"markup"`
	LaborCost float64 `json:"labor_cost"`
}

// BudgetSnapshot is the denormalized totals written onto the project row at
// save time so list views do not re-aggregate.
type BudgetSnapshot struct {
	Subtotal        float64
	DiscountPercent float64
	Total           float64
}

func toRowDTO(row models.LineItem) RowDTO {
	return RowDTO{
		ID:        row.ID,
		ProjectID: row.ProjectID,
		Name:      row.Name,
		Category:  row.Category,
		Quantity:  row.Quantity,
		UnitCost:  row.UnitCost,
		Markup:    row.Markup,
		LaborCost: row.LaborCost,
		Total:     float64(row.Quantity) * row.UnitCost * (1 + row.Markup/100),
	}
}
