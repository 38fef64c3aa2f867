package milestones

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/internal/realtime"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
	pkgerrors "github.com/mgiordano-dev/presupuestador-backend/pkg/errors"
)

// Store is the persistence surface the service needs.
type Store interface {
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Milestone, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.Milestone, error)
	Create(ctx context.Context, row *models.Milestone) error
	Update(ctx context.Context, row *models.Milestone) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindTaskByID(ctx context.Context, id uuid.UUID) (models.MilestoneTask, error)
	CreateTask(ctx context.Context, row *models.MilestoneTask) error
	UpdateTask(ctx context.Context, row *models.MilestoneTask) error
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// ProjectSource resolves a project scoped to its owner.
type ProjectSource interface {
	FindOwned(ctx context.Context, userID, projectID uuid.UUID) (models.Project, error)
}

// ServiceParams groups dependencies for the milestone service.
type ServiceParams struct {
	Repo     Store
	Projects ProjectSource
	Events   realtime.Publisher
}

// Service exposes timeline management for a project.
type Service interface {
	List(ctx context.Context, userID, projectID uuid.UUID) ([]MilestoneDTO, error)
	Create(ctx context.Context, userID, projectID uuid.UUID, input MilestoneInput) (MilestoneDTO, error)
	Update(ctx context.Context, userID, projectID, milestoneID uuid.UUID, input MilestoneInput) (MilestoneDTO, error)
	Delete(ctx context.Context, userID, projectID, milestoneID uuid.UUID) error
	AddTask(ctx context.Context, userID, projectID, milestoneID uuid.UUID, input TaskInput) (MilestoneDTO, error)
	UpdateTask(ctx context.Context, userID, projectID, milestoneID, taskID uuid.UUID, input TaskInput) (MilestoneDTO, error)
	DeleteTask(ctx context.Context, userID, projectID, milestoneID, taskID uuid.UUID) (MilestoneDTO, error)
}

type service struct {
	repo     Store
	projects ProjectSource
	events   realtime.Publisher
}

// NewService builds a milestone service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "milestone repo is required")
	}
	if params.Projects == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project source is required")
	}
	events := params.Events
	if events == nil {
		events = realtime.NoopPublisher{}
	}
	return &service{repo: params.Repo, projects: params.Projects, events: events}, nil
}

// List returns the project timeline.
func (s *service) List(ctx context.Context, userID, projectID uuid.UUID) ([]MilestoneDTO, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list milestones")
	}
	out := make([]MilestoneDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

// Create adds one milestone to the timeline.
func (s *service) Create(ctx context.Context, userID, projectID uuid.UUID, input MilestoneInput) (MilestoneDTO, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return MilestoneDTO{}, err
	}
	row, err := milestoneFromInput(projectID, input)
	if err != nil {
		return MilestoneDTO{}, err
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return MilestoneDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create milestone")
	}
	dto := toDTO(row)
	s.events.PublishChange(ctx, realtime.TableMilestones, enums.ChangeEventInsert, projectID.String(), dto, nil)
	return dto, nil
}

// Update rewrites one milestone.
func (s *service) Update(ctx context.Context, userID, projectID, milestoneID uuid.UUID, input MilestoneInput) (MilestoneDTO, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return MilestoneDTO{}, err
	}
	existing, err := s.findMilestone(ctx, projectID, milestoneID)
	if err != nil {
		return MilestoneDTO{}, err
	}
	row, err := milestoneFromInput(projectID, input)
	if err != nil {
		return MilestoneDTO{}, err
	}
	row.ID = existing.ID
	row.Tasks = existing.Tasks
	if err := s.repo.Update(ctx, &row); err != nil {
		return MilestoneDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update milestone")
	}
	dto := toDTO(row)
	s.events.PublishChange(ctx, realtime.TableMilestones, enums.ChangeEventUpdate, projectID.String(), dto, toDTO(existing))
	return dto, nil
}

// Delete removes one milestone and its checklist.
func (s *service) Delete(ctx context.Context, userID, projectID, milestoneID uuid.UUID) error {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return err
	}
	existing, err := s.findMilestone(ctx, projectID, milestoneID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, milestoneID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete milestone")
	}
	s.events.PublishChange(ctx, realtime.TableMilestones, enums.ChangeEventDelete, projectID.String(), nil, toDTO(existing))
	return nil
}

// AddTask appends one checklist entry and returns the refreshed milestone.
func (s *service) AddTask(ctx context.Context, userID, projectID, milestoneID uuid.UUID, input TaskInput) (MilestoneDTO, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return MilestoneDTO{}, err
	}
	if _, err := s.findMilestone(ctx, projectID, milestoneID); err != nil {
		return MilestoneDTO{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return MilestoneDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "task name is required")
	}
	task := models.MilestoneTask{MilestoneID: milestoneID, Name: name, Completed: input.Completed}
	if err := s.repo.CreateTask(ctx, &task); err != nil {
		return MilestoneDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create milestone task")
	}
	return s.refresh(ctx, projectID, milestoneID)
}

// UpdateTask edits one checklist entry and returns the refreshed milestone.
func (s *service) UpdateTask(ctx context.Context, userID, projectID, milestoneID, taskID uuid.UUID, input TaskInput) (MilestoneDTO, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return MilestoneDTO{}, err
	}
	if _, err := s.findMilestone(ctx, projectID, milestoneID); err != nil {
		return MilestoneDTO{}, err
	}
	task, err := s.findTask(ctx, milestoneID, taskID)
	if err != nil {
		return MilestoneDTO{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return MilestoneDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "task name is required")
	}
	task.Name = name
	task.Completed = input.Completed
	if err := s.repo.UpdateTask(ctx, &task); err != nil {
		return MilestoneDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update milestone task")
	}
	return s.refresh(ctx, projectID, milestoneID)
}

// DeleteTask removes one checklist entry and returns the refreshed milestone.
func (s *service) DeleteTask(ctx context.Context, userID, projectID, milestoneID, taskID uuid.UUID) (MilestoneDTO, error) {
	if err := s.ensureProject(ctx, userID, projectID); err != nil {
		return MilestoneDTO{}, err
	}
	if _, err := s.findMilestone(ctx, projectID, milestoneID); err != nil {
		return MilestoneDTO{}, err
	}
	if _, err := s.findTask(ctx, milestoneID, taskID); err != nil {
		return MilestoneDTO{}, err
	}
	if err := s.repo.DeleteTask(ctx, taskID); err != nil {
		return MilestoneDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete milestone task")
	}
	return s.refresh(ctx, projectID, milestoneID)
}

func (s *service) refresh(ctx context.Context, projectID, milestoneID uuid.UUID) (MilestoneDTO, error) {
	row, err := s.repo.FindByID(ctx, milestoneID)
	if err != nil {
		return MilestoneDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload milestone")
	}
	dto := toDTO(row)
	s.events.PublishChange(ctx, realtime.TableMilestones, enums.ChangeEventUpdate, projectID.String(), dto, nil)
	return dto, nil
}

func (s *service) ensureProject(ctx context.Context, userID, projectID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if projectID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	if _, err := s.projects.FindOwned(ctx, userID, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "project not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load project")
	}
	return nil
}

func (s *service) findMilestone(ctx context.Context, projectID, milestoneID uuid.UUID) (models.Milestone, error) {
	if milestoneID == uuid.Nil {
		return models.Milestone{}, pkgerrors.New(pkgerrors.CodeValidation, "milestone id is required")
	}
	row, err := s.repo.FindByID(ctx, milestoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Milestone{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "milestone not found")
		}
		return models.Milestone{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load milestone")
	}
	if row.ProjectID != projectID {
		return models.Milestone{}, pkgerrors.New(pkgerrors.CodeNotFound, "milestone not found")
	}
	return row, nil
}

func (s *service) findTask(ctx context.Context, milestoneID, taskID uuid.UUID) (models.MilestoneTask, error) {
	if taskID == uuid.Nil {
		return models.MilestoneTask{}, pkgerrors.New(pkgerrors.CodeValidation, "task id is required")
	}
	row, err := s.repo.FindTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.MilestoneTask{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "task not found")
		}
		return models.MilestoneTask{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load task")
	}
	if row.MilestoneID != milestoneID {
		return models.MilestoneTask{}, pkgerrors.New(pkgerrors.CodeNotFound, "task not found")
	}
	return row, nil
}

func milestoneFromInput(projectID uuid.UUID, input MilestoneInput) (models.Milestone, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Milestone{}, pkgerrors.New(pkgerrors.CodeValidation, "milestone title is required")
	}
	status := enums.MilestoneStatusPending
	if input.Status != "" {
		parsed, err := enums.ParseMilestoneStatus(input.Status)
		if err != nil {
			return models.Milestone{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid milestone status")
		}
		status = parsed
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return models.Milestone{}, pkgerrors.New(pkgerrors.CodeValidation, "milestone end date precedes start date")
	}
	return models.Milestone{
		ProjectID:   projectID,
		Title:       title,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      status,
		Progress:    clampProgress(input.Progress),
	}, nil
}
