package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/taskflow-dev/taskflow/internal/constants"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProjectServiceTestSuite defines the test suite for ProjectService
type ProjectServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ProjectService
	now     time.Time
}

// SetupTest runs before each test
func (suite *ProjectServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	projectRepo := repository.NewProjectRepository(suite.db)
	suite.service = NewProjectService(projectRepo)

	suite.now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	suite.service.now = func() time.Time { return suite.now }
}

// TearDownTest runs after each test
func (suite *ProjectServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectServiceTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ProjectServiceTestSuite) createTestProject(name, userID string, createdAt time.Time) *models.Project {
	project := &models.Project{
		Name:      name,
		Color:     "#3B82F6",
		UserID:    userID,
		CreatedAt: createdAt,
	}
	suite.Require().NoError(suite.db.Create(project).Error)
	return project
}

func (suite *ProjectServiceTestSuite) createTestTask(title, projectID string, mutate func(*models.Task)) *models.Task {
	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusTodo,
		Priority:  models.TaskPriorityMedium,
		ProjectID: projectID,
		CreatedAt: suite.now,
	}
	if mutate != nil {
		mutate(task)
	}
	suite.Require().NoError(suite.db.Create(task).Error)
	return task
}

func (suite *ProjectServiceTestSuite) TestCreate_DefaultColor() {
	user := suite.createTestUser("owner@example.com")

	project, err := suite.service.Create(user.ID, CreateProjectInput{Name: "Work"})
	suite.Require().NoError(err)
	suite.Equal(constants.DefaultProjectColor, project.Color)
	suite.Equal(user.ID, project.UserID)
}

func (suite *ProjectServiceTestSuite) TestCreate_EmptyName() {
	user := suite.createTestUser("owner@example.com")

	_, err := suite.service.Create(user.ID, CreateProjectInput{Name: ""})
	suite.ErrorIs(err, ErrNameRequired)
}

func (suite *ProjectServiceTestSuite) TestUpdate_PartialLeavesOtherFields() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Work", user.ID, suite.now)

	description := "new description"
	updated, err := suite.service.Update(user.ID, project.ID, UpdateProjectInput{
		Description: &description,
	})
	suite.Require().NoError(err)

	suite.Equal("Work", updated.Name)
	suite.Equal("#3B82F6", updated.Color)
	suite.Equal("new description", updated.Description)
}

func (suite *ProjectServiceTestSuite) TestUpdate_EmptyName() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Work", user.ID, suite.now)

	empty := ""
	_, err := suite.service.Update(user.ID, project.ID, UpdateProjectInput{Name: &empty})
	suite.ErrorIs(err, ErrNameRequired)
}

// Non-existence and non-ownership are indistinguishable to the caller.
func (suite *ProjectServiceTestSuite) TestForeignProject_NotFound() {
	owner := suite.createTestUser("owner@example.com")
	intruder := suite.createTestUser("intruder@example.com")
	project := suite.createTestProject("Work", owner.ID, suite.now)

	_, err := suite.service.Get(intruder.ID, project.ID)
	suite.ErrorIs(err, ErrProjectNotFound)

	name := "stolen"
	_, err = suite.service.Update(intruder.ID, project.ID, UpdateProjectInput{Name: &name})
	suite.ErrorIs(err, ErrProjectNotFound)

	err = suite.service.Delete(intruder.ID, project.ID)
	suite.ErrorIs(err, ErrProjectNotFound)

	_, err = suite.service.Get(owner.ID, "no-such-id")
	suite.ErrorIs(err, ErrProjectNotFound)
}

func (suite *ProjectServiceTestSuite) TestDelete_CascadesToTasks() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Work", user.ID, suite.now)
	keep := suite.createTestProject("Home", user.ID, suite.now)

	suite.createTestTask("T1", project.ID, nil)
	suite.createTestTask("T2", project.ID, nil)
	suite.createTestTask("survivor", keep.ID, nil)

	suite.Require().NoError(suite.service.Delete(user.ID, project.ID))

	var orphanCount int64
	suite.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&orphanCount)
	suite.Equal(int64(0), orphanCount)

	var remaining int64
	suite.db.Model(&models.Task{}).Count(&remaining)
	suite.Equal(int64(1), remaining)
}

func (suite *ProjectServiceTestSuite) TestList_MostRecentFirstWithCounts() {
	user := suite.createTestUser("owner@example.com")
	older := suite.createTestProject("Older", user.ID, suite.now.Add(-time.Hour))
	newer := suite.createTestProject("Newer", user.ID, suite.now)

	suite.createTestTask("T1", older.ID, nil)
	suite.createTestTask("T2", older.ID, nil)

	projects, err := suite.service.List(user.ID)
	suite.Require().NoError(err)
	suite.Require().Len(projects, 2)

	suite.Equal(newer.ID, projects[0].ID)
	suite.Equal(older.ID, projects[1].ID)
	suite.Len(projects[0].Tasks, 0)
	suite.Len(projects[1].Tasks, 2)
}

func (suite *ProjectServiceTestSuite) TestGet_TasksOrderedByDueDateNullsLast() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Work", user.ID, suite.now)

	early := suite.now.Add(24 * time.Hour)
	late := suite.now.Add(96 * time.Hour)

	suite.createTestTask("late due", project.ID, func(t *models.Task) { t.DueDate = &late })
	suite.createTestTask("no due newer", project.ID, func(t *models.Task) { t.CreatedAt = suite.now.Add(time.Minute) })
	suite.createTestTask("early due", project.ID, func(t *models.Task) { t.DueDate = &early })
	suite.createTestTask("no due older", project.ID, func(t *models.Task) { t.CreatedAt = suite.now.Add(-time.Minute) })

	got, err := suite.service.Get(user.ID, project.ID)
	suite.Require().NoError(err)
	suite.Require().Len(got.Tasks, 4)

	suite.Equal("early due", got.Tasks[0].Title)
	suite.Equal("late due", got.Tasks[1].Title)
	suite.Equal("no due older", got.Tasks[2].Title)
	suite.Equal("no due newer", got.Tasks[3].Title)
}

func (suite *ProjectServiceTestSuite) TestGetStats_Aggregation() {
	user := suite.createTestUser("owner@example.com")
	other := suite.createTestUser("other@example.com")
	work := suite.createTestProject("Work", user.ID, suite.now)
	home := suite.createTestProject("Home", user.ID, suite.now)
	foreign := suite.createTestProject("Foreign", other.ID, suite.now)

	completedRecently := suite.now.Add(-time.Hour)
	suite.createTestTask("todo", work.ID, nil)
	suite.createTestTask("in progress", work.ID, func(t *models.Task) { t.Status = models.TaskStatusInProgress })
	suite.createTestTask("done", home.ID, func(t *models.Task) {
		t.Status = models.TaskStatusDone
		t.CompletedAt = &completedRecently
	})
	suite.createTestTask("not mine", foreign.ID, nil)

	stats, err := suite.service.GetStats(user.ID)
	suite.Require().NoError(err)

	suite.Equal(2, stats.TotalProjects)
	suite.Equal(3, stats.TotalTasks)
	suite.Equal(1, stats.InProgressTasks)
	suite.Equal(1, stats.CompletedThisWeek)
}

// The trailing 7-day window is inclusive at its lower bound: a task
// completed exactly 7x24h ago counts, one second earlier does not.
func (suite *ProjectServiceTestSuite) TestGetStats_WeekBoundary() {
	user := suite.createTestUser("owner@example.com")
	project := suite.createTestProject("Work", user.ID, suite.now)

	onBoundary := suite.now.Add(-7 * 24 * time.Hour)
	pastBoundary := onBoundary.Add(-time.Second)

	suite.createTestTask("included", project.ID, func(t *models.Task) {
		t.Status = models.TaskStatusDone
		t.CompletedAt = &onBoundary
	})
	suite.createTestTask("excluded", project.ID, func(t *models.Task) {
		t.Status = models.TaskStatusDone
		t.CompletedAt = &pastBoundary
	})

	stats, err := suite.service.GetStats(user.ID)
	suite.Require().NoError(err)
	suite.Equal(1, stats.CompletedThisWeek)
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
