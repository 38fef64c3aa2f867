package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups catalog products. Deletion is soft: DeletedAt/DeletedBy are
// set and the row moves to the trash until restored or purged.
type Category struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	Name      string     `gorm:"column:name;not null"`
	Icon      *string    `gorm:"column:icon"`
	DeletedAt *time.Time `gorm:"column:deleted_at;index"`
	DeletedBy *uuid.UUID `gorm:"column:deleted_by;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
