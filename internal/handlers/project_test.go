package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/taskflow-dev/taskflow/internal/constants"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/repository"
	"github.com/taskflow-dev/taskflow/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db             *gorm.DB
	projectHandler *ProjectHandler
	taskHandler    *TaskHandler
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
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
	taskRepo := repository.NewTaskRepository(suite.db)
	suite.projectHandler = NewProjectHandler(services.NewProjectService(projectRepo))
	suite.taskHandler = NewTaskHandler(services.NewTaskService(taskRepo, projectRepo))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// newRouter builds a router with all project and task routes, with the
// session middleware replaced by a stub that authenticates as userID.
func (suite *ProjectHandlerTestSuite) newRouter(userID string) *gin.Engine {
	r := gin.New()
	authAs := func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}

	api := r.Group("/api")
	projects := api.Group("/projects", authAs)
	{
		projects.GET("", suite.projectHandler.ListProjects)
		projects.POST("", suite.projectHandler.CreateProject)
		projects.GET("/stats", suite.projectHandler.GetStats)
		projects.GET("/:id", suite.projectHandler.GetProject)
		projects.PATCH("/:id", suite.projectHandler.UpdateProject)
		projects.DELETE("/:id", suite.projectHandler.DeleteProject)
	}
	tasks := api.Group("/tasks", authAs)
	{
		tasks.GET("", suite.taskHandler.ListTasks)
		tasks.POST("", suite.taskHandler.CreateTask)
	}
	return r
}

func (suite *ProjectHandlerTestSuite) doRequest(r *gin.Engine, method, url string, payload any) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (suite *ProjectHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ProjectHandlerTestSuite) TestCreateProject() {
	user := suite.createTestUser("owner@example.com")
	r := suite.newRouter(user.ID)

	w := suite.doRequest(r, http.MethodPost, "/api/projects", gin.H{
		"name": "Work",
	})
	suite.Equal(http.StatusCreated, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Work", response["name"])
	suite.Equal("#3B82F6", response["color"])
	suite.Equal(user.ID, response["user_id"])
}

func (suite *ProjectHandlerTestSuite) TestCreateProject_MissingName() {
	user := suite.createTestUser("owner@example.com")
	r := suite.newRouter(user.ID)

	w := suite.doRequest(r, http.MethodPost, "/api/projects", gin.H{
		"description": "no name",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ProjectHandlerTestSuite) TestUpdateProject_Partial() {
	user := suite.createTestUser("owner@example.com")
	r := suite.newRouter(user.ID)

	w := suite.doRequest(r, http.MethodPost, "/api/projects", gin.H{
		"name":  "Work",
		"color": "#FF0000",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var created map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	projectID := created["id"].(string)

	w = suite.doRequest(r, http.MethodPatch, "/api/projects/"+projectID, gin.H{
		"description": "new",
	})
	suite.Equal(http.StatusOK, w.Code)

	var updated map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &updated))
	suite.Equal("Work", updated["name"])
	suite.Equal("#FF0000", updated["color"])
	suite.Equal("new", updated["description"])
}

func (suite *ProjectHandlerTestSuite) TestForeignProject_NotFound() {
	owner := suite.createTestUser("owner@example.com")
	intruder := suite.createTestUser("intruder@example.com")

	ownerRouter := suite.newRouter(owner.ID)
	w := suite.doRequest(ownerRouter, http.MethodPost, "/api/projects", gin.H{"name": "Private"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var created map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	projectID := created["id"].(string)

	intruderRouter := suite.newRouter(intruder.ID)
	suite.Equal(http.StatusNotFound, suite.doRequest(intruderRouter, http.MethodGet, "/api/projects/"+projectID, nil).Code)
	suite.Equal(http.StatusNotFound, suite.doRequest(intruderRouter, http.MethodPatch, "/api/projects/"+projectID, gin.H{"name": "mine"}).Code)
	suite.Equal(http.StatusNotFound, suite.doRequest(intruderRouter, http.MethodDelete, "/api/projects/"+projectID, nil).Code)
}

func (suite *ProjectHandlerTestSuite) TestDeleteProject_CascadesToTasks() {
	user := suite.createTestUser("owner@example.com")
	r := suite.newRouter(user.ID)

	w := suite.doRequest(r, http.MethodPost, "/api/projects", gin.H{"name": "Doomed"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var created map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	projectID := created["id"].(string)

	for _, title := range []string{"T1", "T2"} {
		w = suite.doRequest(r, http.MethodPost, "/api/tasks", gin.H{
			"title":      title,
			"project_id": projectID,
		})
		suite.Require().Equal(http.StatusCreated, w.Code)
	}

	w = suite.doRequest(r, http.MethodDelete, "/api/projects/"+projectID, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.doRequest(r, http.MethodGet, "/api/tasks", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var listed struct {
		Tasks []map[string]any `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	suite.Empty(listed.Tasks)
}

// Scenario from the dashboard flow: create a project, add a high
// priority task, then read the project detail and the stats.
func (suite *ProjectHandlerTestSuite) TestEndToEndScenario() {
	user := suite.createTestUser("owner@example.com")
	r := suite.newRouter(user.ID)

	w := suite.doRequest(r, http.MethodPost, "/api/projects", gin.H{
		"name":  "Work",
		"color": "#3B82F6",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var project map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &project))
	projectID := project["id"].(string)

	w = suite.doRequest(r, http.MethodPost, "/api/tasks", gin.H{
		"title":      "Report",
		"priority":   "HIGH",
		"project_id": projectID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.doRequest(r, http.MethodGet, "/api/projects/"+projectID, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var detail struct {
		Tasks []map[string]any `json:"tasks"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &detail))
	suite.Require().Len(detail.Tasks, 1)
	suite.Equal("Report", detail.Tasks[0]["title"])
	suite.Equal("HIGH", detail.Tasks[0]["priority"])

	w = suite.doRequest(r, http.MethodGet, "/api/projects/stats", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var stats struct {
		TotalProjects     int `json:"totalProjects"`
		TotalTasks        int `json:"totalTasks"`
		InProgressTasks   int `json:"inProgressTasks"`
		CompletedThisWeek int `json:"completedThisWeek"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &stats))
	suite.Equal(1, stats.TotalProjects)
	suite.Equal(1, stats.TotalTasks)
	suite.Equal(0, stats.InProgressTasks)
	suite.Equal(0, stats.CompletedThisWeek)
}

func (suite *ProjectHandlerTestSuite) TestListProjects_TaskCounts() {
	user := suite.createTestUser("owner@example.com")
	r := suite.newRouter(user.ID)

	w := suite.doRequest(r, http.MethodPost, "/api/projects", gin.H{"name": "Work"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var created map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	projectID := created["id"].(string)

	w = suite.doRequest(r, http.MethodPost, "/api/tasks", gin.H{
		"title":      "Only task",
		"project_id": projectID,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.doRequest(r, http.MethodGet, "/api/projects", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var listed struct {
		Projects []map[string]any `json:"projects"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &listed))
	suite.Require().Len(listed.Projects, 1)
	suite.Equal(float64(1), listed.Projects[0]["task_count"])
}

func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
