package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
)

// Milestone is one entry on a project timeline, with an optional checklist of
// tasks.
type Milestone struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID   uuid.UUID             `gorm:"column:project_id;type:uuid;not null;index"`
	Title       string                `gorm:"column:title;not null"`
	Description *string               `gorm:"column:description"`
	StartDate   *time.Time            `gorm:"column:start_date"`
	EndDate     *time.Time            `gorm:"column:end_date"`
	Status      enums.MilestoneStatus `gorm:"column:status;not null;default:pending"`
	Progress    int                   `gorm:"column:progress;not null;default:0"`
	Tasks       []MilestoneTask       `gorm:"foreignKey:MilestoneID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
