package projects

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
	"github.com/mgiordano-dev/presupuestador-backend/pkg/money"
)

// Store is the persistence surface the service needs.
type Store interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Project, error)
	FindOwned(ctx context.Context, userID, projectID uuid.UUID) (models.Project, error)
	Create(ctx context.Context, row *models.Project) error
	Update(ctx context.Context, row *models.Project) error
	SoftDelete(ctx context.Context, userID, projectID uuid.UUID) error
}

// ServiceParams groups dependencies for the project service.
type ServiceParams struct {
	Repo   Store
	Events realtime.Publisher
}

// Service exposes project lifecycle management. Deleting sends the project to
// the trash; restore and purge are the trash service's business.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]ProjectDTO, error)
	Get(ctx context.Context, userID, projectID uuid.UUID) (ProjectDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (ProjectDTO, error)
	Update(ctx context.Context, userID, projectID uuid.UUID, input UpdateInput) (ProjectDTO, error)
	Delete(ctx context.Context, userID, projectID uuid.UUID) error
}

type service struct {
	repo   Store
	events realtime.Publisher
}

// NewService builds a project service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project repo is required")
	}
	events := params.Events
	if events == nil {
		events = realtime.NoopPublisher{}
	}
	return &service{repo: params.Repo, events: events}, nil
}

// List returns the user's live projects.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ProjectDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list projects")
	}
	out := make([]ProjectDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDTO(row))
	}
	return out, nil
}

// Get loads one live project.
func (s *service) Get(ctx context.Context, userID, projectID uuid.UUID) (ProjectDTO, error) {
	row, err := s.find(ctx, userID, projectID)
	if err != nil {
		return ProjectDTO{}, err
	}
	return toDTO(row), nil
}

// Create opens a project. Status defaults to active; the budget snapshot
// starts at zero until the first save.
func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (ProjectDTO, error) {
	if userID == uuid.Nil {
		return ProjectDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ProjectDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "project name is required")
	}

	status := enums.ProjectStatusActive
	if input.Status != "" {
		parsed, err := enums.ParseProjectStatus(input.Status)
		if err != nil {
			return ProjectDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid project status")
		}
		status = parsed
	}

	row := models.Project{
		UserID:          userID,
		Name:            name,
		Client:          input.Client,
		ProjectType:     input.ProjectType,
		Status:          status,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		DiscountPercent: money.ClampRange(input.DiscountPercent, 0, 100),
	}
	if err := s.repo.Create(ctx, &row); err != nil {
		return ProjectDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create project")
	}

	dto := toDTO(row)
	s.events.PublishChange(ctx, realtime.TableProjects, enums.ChangeEventInsert, row.ID.String(), dto, nil)
	return dto, nil
}

// Update edits the provided fields and leaves the rest untouched.
func (s *service) Update(ctx context.Context, userID, projectID uuid.UUID, input UpdateInput) (ProjectDTO, error) {
	row, err := s.find(ctx, userID, projectID)
	if err != nil {
		return ProjectDTO{}, err
	}
	previous := toDTO(row)

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ProjectDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "project name cannot be empty")
		}
		row.Name = name
	}
	if input.Client != nil {
		row.Client = input.Client
	}
	if input.ProjectType != nil {
		row.ProjectType = input.ProjectType
	}
	if input.Status != nil {
		parsed, err := enums.ParseProjectStatus(*input.Status)
		if err != nil {
			return ProjectDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid project status")
		}
		row.Status = parsed
	}
	if input.StartDate != nil {
		row.StartDate = input.StartDate
	}
	if input.EndDate != nil {
		row.EndDate = input.EndDate
	}
	if input.DiscountPercent != nil {
		row.DiscountPercent = money.ClampRange(*input.DiscountPercent, 0, 100)
	}

	if err := s.repo.Update(ctx, &row); err != nil {
		return ProjectDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update project")
	}

	dto := toDTO(row)
	s.events.PublishChange(ctx, realtime.TableProjects, enums.ChangeEventUpdate, row.ID.String(), dto, previous)
	return dto, nil
}

// Delete sends the project to the trash. Its line items, budget categories
// and milestones stay put and come back intact on restore.
func (s *service) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	row, err := s.find(ctx, userID, projectID)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, userID, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "project not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete project")
	}
	s.events.PublishChange(ctx, realtime.TableProjects, enums.ChangeEventDelete, projectID.String(), nil, toDTO(row))
	return nil
}

func (s *service) find(ctx context.Context, userID, projectID uuid.UUID) (models.Project, error) {
	if userID == uuid.Nil {
		return models.Project{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if projectID == uuid.Nil {
		return models.Project{}, pkgerrors.New(pkgerrors.CodeValidation, "project id is required")
	}
	row, err := s.repo.FindOwned(ctx, userID, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "project not found")
		}
		return models.Project{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load project")
	}
	return row, nil
}
