package milestones

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mgiordano-dev/presupuestador-backend/pkg/db/models"
	"github.com/mgiordano-dev/presupuestador-backend/pkg/enums"
	pkgerrors "github.com/mgiordano-dev/presupuestador-backend/pkg/errors"
)

type stubStore struct {
	milestones map[uuid.UUID]models.Milestone
	tasks      map[uuid.UUID]models.MilestoneTask
	deleted    []uuid.UUID
}

func newStubStore() *stubStore {
	return &stubStore{
		milestones: make(map[uuid.UUID]models.Milestone),
		tasks:      make(map[uuid.UUID]models.MilestoneTask),
	}
}

func (s *stubStore) ListByProject(_ context.Context, projectID uuid.UUID) ([]models.Milestone, error) {
	var out []models.Milestone
	for _, row := range s.milestones {
		if row.ProjectID == projectID {
			out = append(out, s.withTasks(row))
		}
	}
	return out, nil
}

func (s *stubStore) FindByID(_ context.Context, id uuid.UUID) (models.Milestone, error) {
	row, ok := s.milestones[id]
	if !ok {
		return models.Milestone{}, gorm.ErrRecordNotFound
	}
	return s.withTasks(row), nil
}

func (s *stubStore) withTasks(row models.Milestone) models.Milestone {
	row.Tasks = nil
	for _, task := range s.tasks {
		if task.MilestoneID == row.ID {
			row.Tasks = append(row.Tasks, task)
		}
	}
	return row
}

func (s *stubStore) Create(_ context.Context, row *models.Milestone) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	s.milestones[row.ID] = *row
	return nil
}

func (s *stubStore) Update(_ context.Context, row *models.Milestone) error {
	s.milestones[row.ID] = *row
	return nil
}

func (s *stubStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.milestones, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubStore) FindTaskByID(_ context.Context, id uuid.UUID) (models.MilestoneTask, error) {
	row, ok := s.tasks[id]
	if !ok {
		return models.MilestoneTask{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *stubStore) CreateTask(_ context.Context, row *models.MilestoneTask) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	s.tasks[row.ID] = *row
	return nil
}

func (s *stubStore) UpdateTask(_ context.Context, row *models.MilestoneTask) error {
	s.tasks[row.ID] = *row
	return nil
}

func (s *stubStore) DeleteTask(_ context.Context, id uuid.UUID) error {
	delete(s.tasks, id)
	return nil
}

type stubProjects struct {
	project models.Project
	err     error
}

func (s *stubProjects) FindOwned(context.Context, uuid.UUID, uuid.UUID) (models.Project, error) {
	return s.project, s.err
}

func newTestService(t *testing.T, store *stubStore, projectID uuid.UUID) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     store,
		Projects: &stubProjects{project: models.Project{ID: projectID}},
	})
	require.NoError(t, err)
	return svc
}

func TestCreateDefaultsToPending(t *testing.T) {
	store := newStubStore()
	projectID := uuid.New()
	svc := newTestService(t, store, projectID)

	dto, err := svc.Create(context.Background(), uuid.New(), projectID, MilestoneInput{Title: "Tendido de cableado"})
	require.NoError(t, err)

	assert.Equal(t, enums.MilestoneStatusPending, dto.Status)
	assert.Zero(t, dto.Progress)
	assert.Empty(t, dto.Tasks)
}

func TestCreateRejectsInvertedDates(t *testing.T) {
	projectID := uuid.New()
	svc := newTestService(t, newStubStore(), projectID)

	start := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -3)
	_, err := svc.Create(context.Background(), uuid.New(), projectID, MilestoneInput{
		Title:     "Pruebas finales",
		StartDate: &start,
		EndDate:   &end,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestChecklistDrivesProgress(t *testing.T) {
	store := newStubStore()
	projectID := uuid.New()
	userID := uuid.New()
	svc := newTestService(t, store, projectID)

	dto, err := svc.Create(context.Background(), userID, projectID, MilestoneInput{Title: "Montaje", Progress: 40})
	require.NoError(t, err)
	assert.Equal(t, 40, dto.Progress)

	// Once tasks exist the stored slider value no longer matters.
	dto, err = svc.AddTask(context.Background(), userID, projectID, dto.ID, TaskInput{Name: "Fijar soportes", Completed: true})
	require.NoError(t, err)
	dto, err = svc.AddTask(context.Background(), userID, projectID, dto.ID, TaskInput{Name: "Pasar cables"})
	require.NoError(t, err)
	dto, err = svc.AddTask(context.Background(), userID, projectID, dto.ID, TaskInput{Name: "Conectar equipos"})
	require.NoError(t, err)

	assert.Len(t, dto.Tasks, 3)
	assert.Equal(t, 33, dto.Progress)

	var pending TaskDTO
	for _, task := range dto.Tasks {
		if !task.Completed && task.Name == "Pasar cables" {
			pending = task
		}
	}
	dto, err = svc.UpdateTask(context.Background(), userID, projectID, dto.ID, pending.ID, TaskInput{Name: pending.Name, Completed: true})
	require.NoError(t, err)
	assert.Equal(t, 66, dto.Progress)
}

func TestTaskScopedToMilestone(t *testing.T) {
	store := newStubStore()
	projectID := uuid.New()
	userID := uuid.New()
	svc := newTestService(t, store, projectID)

	first, err := svc.Create(context.Background(), userID, projectID, MilestoneInput{Title: "Fase 1"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), userID, projectID, MilestoneInput{Title: "Fase 2"})
	require.NoError(t, err)

	withTask, err := svc.AddTask(context.Background(), userID, projectID, first.ID, TaskInput{Name: "Replanteo"})
	require.NoError(t, err)

	_, err = svc.UpdateTask(context.Background(), userID, projectID, second.ID, withTask.Tasks[0].ID, TaskInput{Name: "x"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteMilestone(t *testing.T) {
	store := newStubStore()
	projectID := uuid.New()
	userID := uuid.New()
	svc := newTestService(t, store, projectID)

	dto, err := svc.Create(context.Background(), userID, projectID, MilestoneInput{Title: "Entrega"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userID, projectID, dto.ID))
	require.Len(t, store.deleted, 1)

	_, err = svc.Update(context.Background(), userID, projectID, dto.ID, MilestoneInput{Title: "Entrega"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestUnknownProjectBlocksTimeline(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Repo:     newStubStore(),
		Projects: &stubProjects{err: gorm.ErrRecordNotFound},
	})
	require.NoError(t, err)

	_, err = svc.List(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
