// Package milestones manages project timelines: milestones with their status,
// progress, and an optional task checklist that drives the progress figure.
package milestones

import (
	"time"

	"github.com/google/uuid"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
)

// TaskDTO is one checklist entry.
type TaskDTO struct {
	ID          uuid.UUID `json:"id"`
	MilestoneID uuid.UUID `json:"milestone_id"`
	Name        string    `json:"name"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// MilestoneDTO is the API view of a milestone. When the checklist is
// non-empty, Progress is derived from it and the stored value is ignored.
type MilestoneDTO struct {
	ID          uuid.UUID             `json:"id"`
	ProjectID   uuid.UUID             `json:"project_id"`
	Title       string                `json:"title"`
	Description *string               `json:"description"`
	StartDate   *time.Time            `json:"start_date"`
	EndDate     *time.Time            `json:"end_date"`
	Status      enums.MilestoneStatus `json:"status"`
	Progress    int                   `json:"progress"`
	Tasks       []TaskDTO             `json:"tasks"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// MilestoneInput is the create/update payload for a milestone.
type MilestoneInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress" validate:"gte=0,lte=100"`
}

// TaskInput is the create/update payload for a checklist entry.
type TaskInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	Completed bool   `json:"completed"`
}

func toTaskDTO(t models.MilestoneTask) TaskDTO {
	return TaskDTO{
		ID:          t.ID,
		MilestoneID: t.MilestoneID,
		Name:        t.Name,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
}

func toDTO(m models.Milestone) MilestoneDTO {
	tasks := make([]TaskDTO, 0, len(m.Tasks))
	for _, task := range m.Tasks {
		tasks = append(tasks, toTaskDTO(task))
	}
	return MilestoneDTO{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		Title:       m.Title,
		Description: m.Description,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		Status:      m.Status,
		Progress:    effectiveProgress(m),
		Tasks:       tasks,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// effectiveProgress prefers the checklist over the stored slider value.
func effectiveProgress(m models.Milestone) int {
	if len(m.Tasks) == 0 {
		return clampProgress(m.Progress)
	}
	done := 0
	for _, task := range m.Tasks {
		if task.Completed {
			done++
		}
	}
	return done * 100 / len(m.Tasks)
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
