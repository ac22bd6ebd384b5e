package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// TaskService handles task business logic. Every operation that targets a
// specific task resolves it through the ownership guard first; a task that
// exists under another user's project is reported as not found.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	now         func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		now:         time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	ProjectID   string
	Priority    models.TaskPriority
	DueDate     *time.Time
	Order       int
}

// UpdateTaskInput represents input for partially updating a task. Nil
// fields are left unchanged. CompletedAt is not accepted: it is derived
// from status transitions and nothing else.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	Order        *int
}

// applyStatusTransition is the single normalization step for the
// completed-at invariant: entering DONE stamps the completion time,
// leaving DONE clears it, and an unchanged status touches nothing.
func applyStatusTransition(task *models.Task, newStatus models.TaskStatus, now time.Time) {
	if task.Status == newStatus {
		return
	}
	if newStatus == models.TaskStatusDone {
		completedAt := now
		task.CompletedAt = &completedAt
	} else if task.Status == models.TaskStatusDone {
		task.CompletedAt = nil
	}
	task.Status = newStatus
}

// Create creates a task in a project owned by userID. New tasks start as
// TODO with no completion time; the display order is taken verbatim from
// the caller and duplicates are permitted.
func (s *TaskService) Create(userID string, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	project, err := s.projectRepo.FindOwned(input.ProjectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Order:       input.Order,
		ProjectID:   project.ID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	task.Project = *project
	return task, nil
}

// Update applies the provided fields to an owned task. Status changes go
// through the completion normalization step, so a caller can never leave
// a DONE task without a completion time or vice versa.
func (s *TaskService) Update(userID, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findOwned(taskID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Order != nil {
		task.Order = *input.Order
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		applyStatusTransition(task, *input.Status, s.now())
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// UpdateStatus changes only the status of an owned task. Repeating the
// same target status is a no-op for the completion time: it is not
// re-stamped.
func (s *TaskService) UpdateStatus(userID, taskID string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.findOwned(taskID, userID)
	if err != nil {
		return nil, err
	}

	applyStatusTransition(task, status, s.now())

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return task, nil
}

// Reorder overwrites the display order of an owned task. Sibling orders
// are not renumbered and collisions are allowed.
func (s *TaskService) Reorder(userID, taskID string, newOrder int) (*models.Task, error) {
	task, err := s.findOwned(taskID, userID)
	if err != nil {
		return nil, err
	}

	task.Order = newOrder

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to reorder task: %w", err)
	}

	return task, nil
}

// Delete removes an owned task
func (s *TaskService) Delete(userID, taskID string) error {
	task, err := s.findOwned(taskID, userID)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListAll returns all tasks across the user's projects, each annotated
// with its parent project, most recent first.
func (s *TaskService) ListAll(userID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListUpcoming returns the user's tasks that have a due date and are not
// done, ordered by due date ascending.
func (s *TaskService) ListUpcoming(userID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListUpcoming(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) findOwned(taskID, userID string) (*models.Task, error) {
	task, err := s.taskRepo.FindOwned(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
