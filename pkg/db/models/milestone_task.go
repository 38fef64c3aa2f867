package models

import (
	"time"

	"github.com/google/uuid"
)

// MilestoneTask is a single checklist entry under a milestone.
type MilestoneTask struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MilestoneID uuid.UUID `gorm:"column:milestone_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Completed   bool      `gorm:"column:completed;not null;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
