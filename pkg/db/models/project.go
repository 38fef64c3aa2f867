package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
)

// Project is a client engagement. Subtotal/Total snapshot the last saved
// budget so list views render totals without re-aggregating line items.
type Project struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	Name            string              `gorm:"column:name;not null"`
	Client          *string             `gorm:"column:client"`
	ProjectType     *string             `gorm:"column:project_type"`
	Status          enums.ProjectStatus `gorm:"column:status;not null;default:active"`
	StartDate       *time.Time          `gorm:"column:start_date"`
	EndDate         *time.Time          `gorm:"column:end_date"`
	DiscountPercent float64             `gorm:"column:discount_percent;not null;default:0"`
	Subtotal        float64             `gorm:"column:subtotal;not null;default:0"`
	Total           float64             `gorm:"column:total;not null;default:0"`
	DeletedAt       *time.Time          `gorm:"column:deleted_at;index"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
