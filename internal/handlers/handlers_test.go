package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
	"github.com/mohammed-tarek-rezk/Taskify/internal/middleware"
	"github.com/mohammed-tarek-rezk/Taskify/internal/repository"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
	"github.com/mohammed-tarek-rezk/Taskify/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testUserHeader = "X-Test-User"

// apiEnv serves the resource handlers behind a stand-in for RequireAuth that
// trusts the X-Test-User header.
type apiEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tasks  *services.TaskService
}

func newAPIEnv(t *testing.T, generator services.TaskGenerator) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	relationRepo := repository.NewRelationRepository(db)

	taskService := services.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, relationRepo, generator)
	uploads := services.NewUploadService(t.TempDir())
	teamHandler := NewTeamHandler(services.NewTeamService(teamRepo, projectRepo, userRepo, relationRepo))
	projectHandler := NewProjectHandler(services.NewProjectService(projectRepo, teamRepo, userRepo, relationRepo))
	taskHandler := NewTaskHandler(taskService)
	userHandler := NewUserHandler(services.NewUserService(userRepo, teamRepo, projectRepo, taskRepo), uploads)
	uploadHandler := NewUploadHandler(uploads)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id, err := strconv.ParseUint(c.GetHeader(testUserHeader), 10, 64); err == nil {
			c.Set(constants.ContextKeyUserID, id)
		}
		c.Next()
	})
	withID := middleware.RequireIDParams("id")
	withMember := middleware.RequireIDParams("id", "memberId")

	r.GET("/teams", teamHandler.ListTeams)
	r.POST("/teams", teamHandler.CreateTeam)
	r.GET("/teams/:id", withID, teamHandler.GetTeam)
	r.PUT("/teams/:id", withID, teamHandler.UpdateTeam)
	r.DELETE("/teams/:id", withID, teamHandler.DeleteTeam)
	r.POST("/teams/:id/members", withID, teamHandler.AddMember)
	r.DELETE("/teams/:id/members/:memberId", withMember, teamHandler.RemoveMember)

	r.GET("/projects", projectHandler.ListProjects)
	r.POST("/projects", projectHandler.CreateProject)
	r.GET("/projects/:id", withID, projectHandler.GetProject)
	r.PUT("/projects/:id", withID, projectHandler.UpdateProject)
	r.DELETE("/projects/:id", withID, projectHandler.DeleteProject)
	r.POST("/projects/:id/members", withID, projectHandler.AddMember)
	r.DELETE("/projects/:id/members/:memberId", withMember, projectHandler.RemoveMember)

	r.GET("/tasks", taskHandler.ListTasks)
	r.POST("/tasks", taskHandler.CreateTask)
	r.POST("/tasks/generate", taskHandler.GenerateTasks)
	r.GET("/tasks/:id", withID, taskHandler.GetTask)
	r.PUT("/tasks/:id", withID, taskHandler.UpdateTask)
	r.DELETE("/tasks/:id", withID, taskHandler.DeleteTask)
	r.POST("/tasks/:id/comments", withID, taskHandler.AddComment)
	r.PUT("/tasks/:id/comments/:commentId", withID, taskHandler.UpdateComment)
	r.DELETE("/tasks/:id/comments/:commentId", withID, taskHandler.DeleteComment)
	r.DELETE("/tasks/:id/comments/:commentId/attachments/:index", withID, taskHandler.DeleteCommentAttachment)
	r.POST("/tasks/:id/attachments", withID, taskHandler.AddAttachments)
	r.DELETE("/tasks/:id/attachments/:index", withID, taskHandler.DeleteAttachment)

	r.GET("/users/profile", userHandler.GetProfile)
	r.PUT("/users/profile", userHandler.UpdateProfile)
	r.PUT("/users/password", userHandler.ChangePassword)
	r.POST("/users/profile/image", userHandler.UploadProfileImage)
	r.GET("/users", userHandler.ListUsers)
	r.GET("/users/:id", withID, userHandler.GetUser)
	r.POST("/upload", uploadHandler.Upload)

	return &apiEnv{db: db, router: r, tasks: taskService}
}

// do sends a JSON request as userID (0 for anonymous).
func (e *apiEnv) do(t *testing.T, method, path string, payload any, userID uint64) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		var body []byte
		switch p := payload.(type) {
		case string:
			body = []byte(p)
		default:
			var err error
			body, err = json.Marshal(p)
			require.NoError(t, err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != 0 {
		req.Header.Set(testUserHeader, strconv.FormatUint(userID, 10))
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func inDays(n int) string {
	return time.Now().UTC().AddDate(0, 0, n).Format(time.RFC3339)
}
