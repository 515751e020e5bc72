package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/baharkarakas/taskmanager-backend/internal/api/validate"
	"github.com/baharkarakas/taskmanager-backend/internal/models"
	repo "github.com/baharkarakas/taskmanager-backend/internal/repository"
)

// TaskService works on the caller's own tasks only. Every repository call
// carries the owner, so a task of another user looks exactly like a missing one.
type TaskService struct {
	tasks repo.Tasks
	log   *slog.Logger
}

func NewTaskService(tasks repo.Tasks, log *slog.Logger) *TaskService {
	return &TaskService{tasks: tasks, log: log}
}

var descriptionRules = []validate.Rule[string]{validate.Required()}

// Create ignores keys other than description and completed, owner included.
func (s *TaskService) Create(ctx context.Context, ownerID string, f Fields) (models.Task, error) {
	t := models.Task{OwnerID: ownerID}
	if _, err := f.decode("description", &t.Description); err != nil {
		return models.Task{}, err
	}
	if _, err := f.decode("completed", &t.Completed); err != nil {
		return models.Task{}, err
	}
	t.Description = strings.TrimSpace(t.Description)
	if err := validate.Collect(validate.Field("description", t.Description, descriptionRules...)); err != nil {
		return models.Task{}, invalid(err)
	}

	out, err := s.tasks.Create(ctx, t)
	if err != nil {
		return models.Task{}, notFound(err)
	}
	s.log.DebugContext(ctx, "task created", "task_id", out.ID, "owner_id", ownerID)
	return out, nil
}

func (s *TaskService) List(ctx context.Context, ownerID string, q models.TaskQuery) ([]models.Task, error) {
	return s.tasks.ListOwned(ctx, ownerID, q)
}

func (s *TaskService) Get(ctx context.Context, ownerID, id string) (models.Task, error) {
	t, err := s.tasks.GetOwned(ctx, id, ownerID)
	if err != nil {
		return models.Task{}, notFound(err)
	}
	return t, nil
}

// Update accepts description and completed; any other key rejects the request.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, f Fields) (models.Task, error) {
	if err := f.only("description", "completed"); err != nil {
		return models.Task{}, err
	}
	t, err := s.tasks.GetOwned(ctx, id, ownerID)
	if err != nil {
		return models.Task{}, notFound(err)
	}
	if _, err := f.decode("description", &t.Description); err != nil {
		return models.Task{}, err
	}
	if _, err := f.decode("completed", &t.Completed); err != nil {
		return models.Task{}, err
	}
	t.Description = strings.TrimSpace(t.Description)
	if err := validate.Collect(validate.Field("description", t.Description, descriptionRules...)); err != nil {
		return models.Task{}, invalid(err)
	}

	out, err := s.tasks.UpdateOwned(ctx, t)
	if err != nil {
		return models.Task{}, notFound(err)
	}
	return out, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id string) (models.Task, error) {
	t, err := s.tasks.DeleteOwned(ctx, id, ownerID)
	if err != nil {
		return models.Task{}, notFound(err)
	}
	return t, nil
}
