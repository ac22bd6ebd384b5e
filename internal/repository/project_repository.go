package repository

import (
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/gorm"
)

// taskDueDateOrder sorts tasks by due date ascending with missing due
// dates last, breaking ties by creation time ascending.
const taskDueDateOrder = "CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC, tasks.created_at ASC"

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindOwned finds a project by ID, scoped to its owner
func (r *GormProjectRepository) FindOwned(projectID, userID string) (*models.Project, error) {
	var project models.Project
	if err := r.db.
		Where("id = ? AND user_id = ?", projectID, userID).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindOwnedWithTasks finds an owned project with its tasks preloaded
func (r *GormProjectRepository) FindOwnedWithTasks(projectID, userID string) (*models.Project, error) {
	var project models.Project
	if err := r.db.
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order(taskDueDateOrder)
		}).
		Where("id = ? AND user_id = ?", projectID, userID).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByOwner lists a user's projects with tasks preloaded
func (r *GormProjectRepository) ListByOwner(userID string) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.
		Preload("Tasks").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Update saves a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// DeleteCascade deletes a project and all of its tasks in one transaction
func (r *GormProjectRepository) DeleteCascade(projectID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, "id = ?", projectID).Error
	})
}
