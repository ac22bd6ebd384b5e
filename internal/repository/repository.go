package repository

import (
	"github.com/taskflow-dev/taskflow/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProjectRepository defines the interface for project data access.
//
// FindOwned and FindOwnedWithTasks double as the authorization guard:
// existence and ownership are checked in a single query, so a project
// that exists but belongs to someone else is indistinguishable from one
// that does not exist.
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindOwned finds a project by ID, scoped to its owner
	FindOwned(projectID, userID string) (*models.Project, error)

	// FindOwnedWithTasks finds an owned project with its tasks preloaded,
	// ordered by due date ascending (tasks without a due date last), then
	// creation time ascending
	FindOwnedWithTasks(projectID, userID string) (*models.Project, error)

	// ListByOwner lists a user's projects ordered by creation time
	// descending, with tasks preloaded
	ListByOwner(userID string) ([]models.Project, error)

	// Update saves a project
	Update(project *models.Project) error

	// DeleteCascade deletes a project and all of its tasks in one
	// transaction
	DeleteCascade(projectID string) error
}

// TaskRepository defines the interface for task data access.
//
// FindOwned is the task-side authorization guard: ownership is resolved
// transitively through the parent project in the same lookup.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindOwned finds a task by ID, scoped to the owner of its project
	FindOwned(taskID, userID string) (*models.Task, error)

	// Update saves a task
	Update(task *models.Task) error

	// Delete deletes a task
	Delete(id string) error

	// ListByOwner lists all tasks across a user's projects with the parent
	// project preloaded, ordered by creation time descending
	ListByOwner(userID string) ([]models.Task, error)

	// ListUpcoming lists a user's not-done tasks that have a due date,
	// ordered by due date ascending
	ListUpcoming(userID string) ([]models.Task, error)
}
