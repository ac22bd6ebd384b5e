package repository

import (
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindOwned finds a task by ID, scoped to the owner of its project.
// A task in another user's project behaves exactly like a missing task.
func (r *GormTaskRepository) FindOwned(taskID, userID string) (*models.Task, error) {
	var task models.Task
	ownerSubQuery := r.db.Model(&models.Project{}).
		Select("1").
		Where("projects.id = tasks.project_id").
		Where("projects.user_id = ?", userID)

	if err := r.db.
		Where("tasks.id = ?", taskID).
		Where("EXISTS (?)", ownerSubQuery).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// Update saves a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Delete(&models.Task{}, "id = ?", id).Error
}

// ListByOwner lists all tasks across a user's projects
func (r *GormTaskRepository) ListByOwner(userID string) ([]models.Task, error) {
	var tasks []models.Task
	ownerSubQuery := r.db.Model(&models.Project{}).
		Select("1").
		Where("projects.id = tasks.project_id").
		Where("projects.user_id = ?", userID)

	if err := r.db.
		Preload("Project").
		Where("EXISTS (?)", ownerSubQuery).
		Order("tasks.created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListUpcoming lists a user's not-done tasks that have a due date
func (r *GormTaskRepository) ListUpcoming(userID string) ([]models.Task, error) {
	var tasks []models.Task
	ownerSubQuery := r.db.Model(&models.Project{}).
		Select("1").
		Where("projects.id = tasks.project_id").
		Where("projects.user_id = ?", userID)

	if err := r.db.
		Preload("Project").
		Where("EXISTS (?)", ownerSubQuery).
		Where("tasks.due_date IS NOT NULL").
		Where("tasks.status <> ?", models.TaskStatusDone).
		Order("tasks.due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
