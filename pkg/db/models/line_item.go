package models

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is the persisted form of one budget entry. Storage keeps
// cost + markup rather than the sale price; the price the builder shows is
// derived on load. LaborCost rides along untouched by the markup math.
type LineItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	Category  string    `gorm:"column:category;not null;default:General"`
	Quantity  int       `gorm:"column:quantity;not null;default:1"`
	UnitCost  float64   `gorm:"column:unit_cost;not null;default:0"`
	Markup    float64   `gorm:"column:markup;not null;default:0"`
	LaborCost float64   `gorm:"column:labor_cost;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
