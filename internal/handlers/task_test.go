package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
	"github.com/mohammed-tarek-rezk/Taskify/internal/dto"
	apierrors "github.com/mohammed-tarek-rezk/Taskify/internal/errors"
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
	"github.com/mohammed-tarek-rezk/Taskify/internal/testutil"
	"github.com/stretchr/testify/suite"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env     *apiEnv
	alice   *models.User
	bob     *models.User
	eve     *models.User
	team    *models.Team
	project *models.Project
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	suite.env = newAPIEnv(suite.T(), nil)
	db := suite.env.db

	suite.alice = testutil.CreateUser(suite.T(), db, "Alice", "alice@example.com")
	suite.bob = testutil.CreateUser(suite.T(), db, "Bob", "bob@example.com")
	suite.eve = testutil.CreateUser(suite.T(), db, "Eve", "eve@example.com")
	suite.team = testutil.CreateTeam(suite.T(), db, "Eng", suite.alice, suite.bob)
	suite.project = testutil.CreateProject(suite.T(), db, "Website", suite.team, suite.alice, suite.bob)
}

// createTask creates a project task through the API as alice
func (suite *TaskHandlerTestSuite) createTask(payload map[string]any) dto.TaskDTO {
	if _, ok := payload["project"]; !ok {
		payload["project"] = suite.project.ID
	}
	w := suite.env.do(suite.T(), http.MethodPost, "/tasks", payload, suite.alice.ID)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return decode[dto.TaskDTO](suite.T(), w)
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	task := suite.createTask(map[string]any{
		"title":      "Design homepage",
		"assignedTo": suite.bob.ID,
		"dueDate":    inDays(3),
		"priority":   "high",
		"tags":       []string{" ui ", ""},
	})

	suite.Equal("Design homepage", task.Title)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(models.PriorityHigh, task.Priority)
	suite.Require().NotNil(task.AssignedTo)
	suite.Equal("Bob", task.AssignedTo.Name)
	suite.Require().NotNil(task.Project)
	suite.Equal("Website", task.Project.Name)
	suite.Equal("Alice", task.CreatedBy.Name)
	suite.Equal([]string{"ui"}, task.Tags)
	suite.NotNil(task.DueDate)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Validation() {
	cases := []struct {
		name    string
		payload map[string]any
		message string
	}{
		{"blank title", map[string]any{"title": "   "}, "Title is required"},
		{"due date in the past", map[string]any{"title": "Late", "dueDate": inDays(-1)}, "Due date must be after the current date"},
		{"malformed due date", map[string]any{"title": "Odd", "dueDate": "next tuesday"}, "Invalid due date"},
		{"bad priority", map[string]any{"title": "Odd", "priority": "urgent"}, "Invalid priority"},
		{"assignee outside project", map[string]any{"title": "Odd", "assignedTo": suite.eve.ID}, "Assigned user must be a member of the project or its team"},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			tc.payload["project"] = suite.project.ID
			w := suite.env.do(suite.T(), http.MethodPost, "/tasks", tc.payload, suite.alice.ID)
			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Contains(w.Body.String(), tc.message)
		})
	}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_BindErrorsNameTheField() {
	w := suite.env.do(suite.T(), http.MethodPost, "/tasks", `{"title":"Draft","project":"abc"}`, suite.alice.ID)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	apiErr := decode[struct {
		Message string       `json:"message"`
		Details []FieldError `json:"error"`
	}](suite.T(), w)
	suite.Equal("Invalid value for project", apiErr.Message)
	suite.Equal([]FieldError{{Field: "project", Rule: "type"}}, apiErr.Details)

	w = suite.env.do(suite.T(), http.MethodPost, "/tasks", map[string]any{"description": "no title"}, suite.alice.ID)
	suite.Require().Equal(http.StatusBadRequest, w.Code)
	apiErr = decode[struct {
		Message string       `json:"message"`
		Details []FieldError `json:"error"`
	}](suite.T(), w)
	suite.Equal("Title is required", apiErr.Message)
	suite.Equal([]FieldError{{Field: "title", Rule: "required"}}, apiErr.Details)

	w = suite.env.do(suite.T(), http.MethodPost, "/tasks", `{"title":`, suite.alice.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "Invalid request body")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_ProjectAccess() {
	w := suite.env.do(suite.T(), http.MethodPost, "/tasks", map[string]any{"title": "Sneaky", "project": suite.project.ID}, suite.eve.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, "/tasks", map[string]any{"title": "Lost", "project": 9999}, suite.eve.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Unauthenticated() {
	w := suite.env.do(suite.T(), http.MethodPost, "/tasks", map[string]any{"title": "Anon"}, 0)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_NotFoundBeforeForbidden() {
	task := suite.createTask(map[string]any{"title": "Private"})

	w := suite.env.do(suite.T(), http.MethodGet, "/tasks/9999", nil, suite.eve.ID)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), nil, suite.eve.ID)
	suite.Equal(http.StatusForbidden, w.Code)
	apiErr := decode[apierrors.APIError](suite.T(), w)
	suite.Equal(apierrors.ErrCodeForbidden, apiErr.Code)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks/abc", nil, suite.alice.ID)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), nil, suite.bob.ID)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_PartialAndNullClears() {
	task := suite.createTask(map[string]any{
		"title":       "Design homepage",
		"description": "hero and nav",
		"assignedTo":  suite.bob.ID,
		"dueDate":     inDays(3),
	})
	url := fmt.Sprintf("/tasks/%d", task.ID)

	w := suite.env.do(suite.T(), http.MethodPut, url, `{"status":"in-progress"}`, suite.bob.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	updated := decode[dto.TaskDTO](suite.T(), w)
	suite.Equal(models.TaskStatusInProgress, updated.Status)
	suite.Equal("hero and nav", updated.Description)
	suite.NotNil(updated.DueDate)
	suite.NotNil(updated.AssignedTo)

	w = suite.env.do(suite.T(), http.MethodPut, url, `{"dueDate":null,"assignedTo":null,"description":""}`, suite.alice.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	updated = decode[dto.TaskDTO](suite.T(), w)
	suite.Nil(updated.DueDate)
	suite.Nil(updated.AssignedTo)
	suite.Empty(updated.Description)
	suite.Equal("Design homepage", updated.Title)

	for _, body := range []string{`{"title":""}`, `{"title":null}`, `{"status":"done"}`, `{"assignedTo":"bob"}`} {
		w = suite.env.do(suite.T(), http.MethodPut, url, body, suite.alice.ID)
		suite.Equal(http.StatusBadRequest, w.Code, body)
	}

	w = suite.env.do(suite.T(), http.MethodPut, url, `{"title":"Stolen"}`, suite.eve.ID)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := suite.createTask(map[string]any{"title": "Throwaway", "assignedTo": suite.bob.ID})
	url := fmt.Sprintf("/tasks/%d", task.ID)

	w := suite.env.do(suite.T(), http.MethodDelete, url, nil, suite.bob.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(suite.T(), http.MethodDelete, url, nil, suite.alice.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("Task removed", decode[dto.MessageResponse](suite.T(), w).Message)

	w = suite.env.do(suite.T(), http.MethodGet, url, nil, suite.alice.ID)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_FiltersSortAndPaginate() {
	suite.createTask(map[string]any{"title": "Low", "priority": "low", "dueDate": inDays(5)})
	suite.createTask(map[string]any{"title": "High", "priority": "high", "dueDate": inDays(2)})
	suite.createTask(map[string]any{"title": "Medium", "priority": "medium"})

	w := suite.env.do(suite.T(), http.MethodGet, "/tasks?sortBy=priority&sortOrder=desc&page=1&limit=2", nil, suite.bob.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("3", w.Header().Get(constants.TotalCountHeaderName))
	tasks := decode[[]dto.TaskDTO](suite.T(), w)
	suite.Require().Len(tasks, 2)
	suite.Equal("High", tasks[0].Title)
	suite.Equal("Medium", tasks[1].Title)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks", nil, suite.alice.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(w.Header().Get(constants.TotalCountHeaderName))
	tasks = decode[[]dto.TaskDTO](suite.T(), w)
	suite.Require().Len(tasks, 3)
	suite.Equal("High", tasks[0].Title, "default sort is dueDate ascending")
	suite.Equal("Medium", tasks[2].Title, "tasks without a due date sort last")

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks?search=HIG", nil, suite.alice.ID)
	suite.Len(decode[[]dto.TaskDTO](suite.T(), w), 1)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks", nil, suite.eve.ID)
	suite.Empty(decode[[]dto.TaskDTO](suite.T(), w))

	for _, q := range []string{"sortBy=color", "sortOrder=up"} {
		w = suite.env.do(suite.T(), http.MethodGet, "/tasks?"+q, nil, suite.alice.ID)
		suite.Equal(http.StatusBadRequest, w.Code, q)
	}

	for _, q := range []string{"status=done", "priority=urgent", "project=abc", "assignedTo=-1", "createdBy=x", "startDate=yesterday"} {
		w = suite.env.do(suite.T(), http.MethodGet, "/tasks?"+q, nil, suite.alice.ID)
		suite.Require().Equal(http.StatusOK, w.Code, q)
		suite.Len(decode[[]dto.TaskDTO](suite.T(), w), 3, "unrecognized filter %s is ignored", q)
	}
}

func (suite *TaskHandlerTestSuite) TestListTasks_MixedOffsetDueDates() {
	suite.createTask(map[string]any{"title": "First", "dueDate": "2030-01-01T01:00:00+05:00"})
	suite.createTask(map[string]any{"title": "Second", "dueDate": "2029-12-31T22:00:00Z"})

	w := suite.env.do(suite.T(), http.MethodGet, "/tasks?sortBy=dueDate&sortOrder=asc", nil, suite.alice.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	tasks := decode[[]dto.TaskDTO](suite.T(), w)
	suite.Require().Len(tasks, 2)
	suite.Equal("First", tasks[0].Title, "01:00+05:00 is 20:00 UTC")
	suite.Equal("Second", tasks[1].Title)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks?endDate=2029-12-31", nil, suite.alice.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(decode[[]dto.TaskDTO](suite.T(), w), 2)

	w = suite.env.do(suite.T(), http.MethodGet, "/tasks?startDate=2029-12-31T21:00:00Z", nil, suite.alice.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	tasks = decode[[]dto.TaskDTO](suite.T(), w)
	suite.Require().Len(tasks, 1)
	suite.Equal("Second", tasks[0].Title)
}

func (suite *TaskHandlerTestSuite) TestComments() {
	task := suite.createTask(map[string]any{"title": "Discuss"})
	base := fmt.Sprintf("/tasks/%d/comments", task.ID)
	attachment := map[string]any{"name": "brief.pdf", "url": "/uploads/brief.pdf", "type": "application/pdf", "size": 1024}

	w := suite.env.do(suite.T(), http.MethodPost, base, map[string]any{"text": "  "}, suite.bob.ID)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, base, map[string]any{"text": "Looks good", "attachments": []any{attachment}}, suite.bob.ID)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	withComment := decode[dto.TaskDTO](suite.T(), w)
	suite.Require().Len(withComment.Comments, 1)
	comment := withComment.Comments[0]
	suite.Equal("Bob", comment.User.Name)
	suite.Len(comment.Attachments, 1)

	w = suite.env.do(suite.T(), http.MethodPost, base, map[string]any{"text": "me too"}, suite.eve.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	commentURL := base + "/" + comment.ID
	w = suite.env.do(suite.T(), http.MethodPut, commentURL, map[string]any{"text": "edited"}, suite.alice.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(suite.T(), http.MethodPut, commentURL, map[string]any{"text": "edited"}, suite.bob.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	edited := decode[dto.TaskDTO](suite.T(), w).Comments[0]
	suite.Equal("edited", edited.Text)
	suite.Len(edited.Attachments, 1, "attachments survive a text-only edit")

	w = suite.env.do(suite.T(), http.MethodDelete, commentURL+"/attachments/x", nil, suite.bob.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
	w = suite.env.do(suite.T(), http.MethodDelete, commentURL+"/attachments/0", nil, suite.bob.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(decode[dto.TaskDTO](suite.T(), w).Comments[0].Attachments)

	w = suite.env.do(suite.T(), http.MethodDelete, base+"/missing", nil, suite.bob.ID)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.env.do(suite.T(), http.MethodDelete, commentURL, nil, suite.bob.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(decode[dto.TaskDTO](suite.T(), w).Comments)
}

func (suite *TaskHandlerTestSuite) TestAttachments() {
	task := suite.createTask(map[string]any{"title": "Files", "assignedTo": suite.bob.ID})
	base := fmt.Sprintf("/tasks/%d/attachments", task.ID)
	attachment := map[string]any{"name": "logo.png", "url": "/uploads/logo.png", "type": "image/png", "size": 10}

	w := suite.env.do(suite.T(), http.MethodPost, base, map[string]any{"attachments": []any{}}, suite.bob.ID)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, base, map[string]any{"attachments": []any{map[string]any{"name": "half"}}}, suite.bob.ID)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, base, map[string]any{"attachments": []any{attachment}}, suite.bob.ID)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Len(decode[dto.TaskDTO](suite.T(), w).Attachments, 1)

	w = suite.env.do(suite.T(), http.MethodDelete, base+"/5", nil, suite.bob.ID)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.env.do(suite.T(), http.MethodDelete, base+"/0", nil, suite.eve.ID)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.do(suite.T(), http.MethodDelete, base+"/0", nil, suite.alice.ID)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Empty(decode[dto.TaskDTO](suite.T(), w).Attachments)
}

func (suite *TaskHandlerTestSuite) TestGenerateTasks_NotConfigured() {
	w := suite.env.do(suite.T(), http.MethodPost, "/tasks/generate", map[string]any{"text": "Plan the launch"}, suite.alice.ID)
	suite.Equal(http.StatusServiceUnavailable, w.Code)

	w = suite.env.do(suite.T(), http.MethodPost, "/tasks/generate", map[string]any{"text": " "}, suite.alice.ID)
	suite.Equal(http.StatusBadRequest, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}

type fixedGenerator []services.GeneratedTask

func (g fixedGenerator) GenerateTasksFromText(context.Context, string) ([]services.GeneratedTask, error) {
	return g, nil
}

func TestGenerateTasks_ReturnsDrafts(t *testing.T) {
	env := newAPIEnv(t, fixedGenerator{
		{Title: "Write copy", Priority: models.PriorityHigh},
		{Title: "  ", Priority: models.PriorityLow},
		{Title: "Pick fonts", Priority: "urgent"},
	})
	alice := testutil.CreateUser(t, env.db, "Alice", "alice@example.com")

	w := env.do(t, http.MethodPost, "/tasks/generate", map[string]any{"text": "Launch the website"}, alice.ID)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decode[struct {
		Tasks []services.GeneratedTask `json:"tasks"`
	}](t, w)
	if len(body.Tasks) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(body.Tasks))
	}
	if body.Tasks[1].Priority != models.PriorityMedium {
		t.Errorf("invalid priority should fall back to medium, got %q", body.Tasks[1].Priority)
	}
}
