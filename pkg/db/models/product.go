package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog entry: the materials and labor cost of one
// installable item plus its list price. FinalPrice is what the client pays
// per unit; Cost is the internal unit cost; Labor is tracked alongside but is
// never folded into the price. Soft deleted rows stay queryable for the
// trash view.
type Product struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	CategoryID *uuid.UUID `gorm:"column:category_id;type:uuid;index"`
	Name       string     `gorm:"column:name;not null"`
	Code       *string    `gorm:"column:code"`
	Image      *string    `gorm:"column:image"`
	Alt        *string    `gorm:"column:alt"`
	HasPDF     bool       `gorm:"column:has_pdf;not null;default:false"`
	FinalPrice float64    `gorm:"column:final_price;not null;default:0"`
	Cost       float64    `gorm:"column:cost;not null;default:0"`
	Labor      float64    `gorm:"column:labor;not null;default:0"`
	Profit     float64    `gorm:"column:profit;not null;default:0"`
	DeletedAt  *time.Time `gorm:"column:deleted_at;index"`
	DeletedBy  *uuid.UUID `gorm:"column:deleted_by;type:uuid"`
	Category   *Category  `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
