package models

import (
	"time"

	"github.com/google/uuid"
)

// BudgetCategory is one allocation bucket of the budget-vs-actual tracker.
// It is written directly against storage; unlike line items there is no
// staged cart in front of it.
type BudgetCategory struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID       uuid.UUID `gorm:"column:project_id;type:uuid;not null;index"`
	Name            string    `gorm:"column:name;not null"`
	AllocatedAmount float64   `gorm:"column:allocated_amount;not null;default:0"`
	SpentAmount     float64   `gorm:"column:spent_amount;not null;default:0"`
	Color           *string   `gorm:"column:color"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
