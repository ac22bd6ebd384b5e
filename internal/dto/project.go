package dto

import (
	"time"

	"github.com/taskflow-dev/taskflow/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProjectListItemDTO represents a project in list responses, decorated
// with its task count
type ProjectListItemDTO struct {
	ProjectDTO
	TaskCount int `json:"task_count"`
}

// ProjectDetailDTO represents a project with its tasks
type ProjectDetailDTO struct {
	ProjectDTO
	Tasks []TaskDTO `json:"tasks"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Color:       project.Color,
		UserID:      project.UserID,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ToProjectListItemDTO converts a Project model to ProjectListItemDTO
func ToProjectListItemDTO(project models.Project) ProjectListItemDTO {
	return ProjectListItemDTO{
		ProjectDTO: ToProjectDTO(project),
		TaskCount:  len(project.Tasks),
	}
}

// ToProjectListItemDTOs converts a slice of projects
func ToProjectListItemDTOs(projects []models.Project) []ProjectListItemDTO {
	dtos := make([]ProjectListItemDTO, len(projects))
	for i, project := range projects {
		dtos[i] = ToProjectListItemDTO(project)
	}
	return dtos
}

// ToProjectDetailDTO converts a Project model with preloaded tasks to
// ProjectDetailDTO
func ToProjectDetailDTO(project models.Project) ProjectDetailDTO {
	return ProjectDetailDTO{
		ProjectDTO: ToProjectDTO(project),
		Tasks:      ToTaskDTOs(project.Tasks),
	}
}
