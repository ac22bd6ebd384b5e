// Command seed populates the database with a demo user, projects and
// tasks for local development.
package main

import (
	"log"
	"time"

	"github.com/taskflow-dev/taskflow/internal/config"
	"github.com/taskflow-dev/taskflow/internal/database"
	"github.com/taskflow-dev/taskflow/internal/logger"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/repository"
	"github.com/taskflow-dev/taskflow/internal/services"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Development); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := database.Connect(cfg); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo)

	user, err := authService.Signup(services.SignupInput{
		Name:     "Demo User",
		Email:    "demo@taskflow.dev",
		Password: "demo-password",
	})
	if err != nil {
		logger.Fatal("Failed to create demo user", err)
	}

	work, err := projectService.Create(user.ID, services.CreateProjectInput{
		Name:        "Work",
		Description: "Day job tasks",
	})
	if err != nil {
		logger.Fatal("Failed to create project", err)
	}

	personal, err := projectService.Create(user.ID, services.CreateProjectInput{
		Name:        "Personal",
		Description: "Errands and hobbies",
		Color:       "#10B981",
	})
	if err != nil {
		logger.Fatal("Failed to create project", err)
	}

	tomorrow := time.Now().Add(24 * time.Hour)
	nextWeek := time.Now().Add(7 * 24 * time.Hour)

	seedTasks := []services.CreateTaskInput{
		{Title: "Write quarterly report", ProjectID: work.ID, Priority: models.TaskPriorityHigh, DueDate: &tomorrow, Order: 0},
		{Title: "Review pull requests", ProjectID: work.ID, Priority: models.TaskPriorityMedium, Order: 1},
		{Title: "Plan team offsite", ProjectID: work.ID, Priority: models.TaskPriorityLow, DueDate: &nextWeek, Order: 2},
		{Title: "Buy groceries", ProjectID: personal.ID, Priority: models.TaskPriorityMedium, DueDate: &tomorrow, Order: 0},
		{Title: "Book dentist appointment", ProjectID: personal.ID, Priority: models.TaskPriorityLow, Order: 1},
	}

	for _, input := range seedTasks {
		if _, err := taskService.Create(user.ID, input); err != nil {
			logger.Fatal("Failed to create task", err)
		}
	}

	// Mark one task done so the stats dashboard has data
	tasks, err := taskService.ListAll(user.ID)
	if err != nil {
		logger.Fatal("Failed to list tasks", err)
	}
	if len(tasks) > 0 {
		if _, err := taskService.UpdateStatus(user.ID, tasks[len(tasks)-1].ID, models.TaskStatusDone); err != nil {
			logger.Fatal("Failed to complete task", err)
		}
	}

	logger.Info("Seed data created: demo@taskflow.dev / demo-password")
}
