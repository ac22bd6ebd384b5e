package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskflow-dev/taskflow/internal/constants"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNameRequired    = errors.New("project name is required")
)

// Stats summarizes a user's projects and tasks.
type Stats struct {
	TotalProjects     int `json:"totalProjects"`
	TotalTasks        int `json:"totalTasks"`
	InProgressTasks   int `json:"inProgressTasks"`
	CompletedThisWeek int `json:"completedThisWeek"`
}

// ProjectService handles project business logic. All narrow reads and
// mutations go through the ownership guard; missing and not-owned
// projects are reported identically as not found.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	now         func() time.Time
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		now:         time.Now,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	Color       string
}

// UpdateProjectInput represents input for partially updating a project.
// Nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Color       *string
}

// Create creates a project owned by userID. The color falls back to the
// default when not provided.
func (s *ProjectService) Create(userID string, input CreateProjectInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	if input.Color == "" {
		input.Color = constants.DefaultProjectColor
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		UserID:      userID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// Update applies the provided fields to an owned project
func (s *ProjectService) Update(userID, projectID string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findOwned(projectID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Color != nil {
		project.Color = *input.Color
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Delete removes an owned project and all of its tasks. The cascade is a
// single transaction, so no orphan tasks remain on failure.
func (s *ProjectService) Delete(userID, projectID string) error {
	project, err := s.findOwned(projectID, userID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.DeleteCascade(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// List returns the user's projects, most recent first, with tasks
// preloaded so callers can report per-project task counts.
func (s *ProjectService) List(userID string) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Get returns an owned project with its tasks, ordered by due date
// ascending (tasks without a due date last), then creation time.
func (s *ProjectService) Get(userID, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindOwnedWithTasks(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// GetStats aggregates the user's projects and tasks in a single pass.
// completedThisWeek counts DONE tasks completed within the trailing seven
// days of the call, inclusive of the window's lower bound. The window is
// recomputed on every call.
func (s *ProjectService) GetStats(userID string) (*Stats, error) {
	projects, err := s.projectRepo.ListByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects for stats: %w", err)
	}

	weekAgo := s.now().Add(-7 * 24 * time.Hour)

	stats := &Stats{TotalProjects: len(projects)}
	for _, project := range projects {
		stats.TotalTasks += len(project.Tasks)
		for _, task := range project.Tasks {
			if task.Status == models.TaskStatusInProgress {
				stats.InProgressTasks++
			}
			if task.Status == models.TaskStatusDone &&
				task.CompletedAt != nil &&
				!task.CompletedAt.Before(weekAgo) {
				stats.CompletedThisWeek++
			}
		}
	}

	return stats, nil
}

func (s *ProjectService) findOwned(projectID, userID string) (*models.Project, error) {
	project, err := s.projectRepo.FindOwned(projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
