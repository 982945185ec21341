package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/dto"
	apierrors "github.com/mohammed-tarek-rezk/Taskify/internal/errors"
	"github.com/mohammed-tarek-rezk/Taskify/internal/middleware"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks visible to the current user
// Supports search, status/priority/project/assignee/creator filters and sorting
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	query := listQuery(c)
	page, err := h.taskService.List(userID, query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	setTotalCount(c, query, page.Total)
	c.JSON(http.StatusOK, dto.ToTaskDTOs(page.Tasks, page.Authors))
}

// GetTask returns a specific task by ID with comment authors resolved
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	detail, err := h.taskService.Get(userID, middleware.IDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, http.StatusOK, detail)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if !bindJSON(c, &req, map[string]string{"title": services.ErrTaskTitleRequired.Error()}) {
		return
	}

	dueDate, err := parseDateField(req.DueDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid due date")
		return
	}

	detail, err := h.taskService.Create(services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		ProjectID:    req.Project,
		AssignedToID: req.AssignedTo,
		CreatorID:    userID,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      dueDate,
		Tags:         req.Tags,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, http.StatusCreated, detail)
}

// UpdateTask applies the fields present in the body; null clears dueDate and assignedTo
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req, nil) {
		return
	}
	if req.Title.Cleared() {
		apierrors.BadRequest(c, services.ErrTaskTitleRequired.Error())
		return
	}

	input := services.UpdateTaskInput{
		Title:        req.Title.Ptr(),
		Description:  req.Description.Ptr(),
		Status:       req.Status.Ptr(),
		Priority:     req.Priority.Ptr(),
		ClearDueDate: req.DueDate.Cleared(),
		AssignedToID: req.AssignedTo.Ptr(),
		Unassign:     req.AssignedTo.Cleared(),
	}
	if req.Description.Cleared() {
		empty := ""
		input.Description = &empty
	}
	if raw := req.DueDate.Ptr(); raw != nil {
		var err error
		if *raw == "" {
			input.ClearDueDate = true
		} else if input.DueDate, err = parseDateField(raw); err != nil {
			apierrors.BadRequest(c, "Invalid due date")
			return
		}
	}
	if req.Tags.Set {
		input.Tags = []string{}
		if tags := req.Tags.Ptr(); tags != nil {
			input.Tags = append(input.Tags, *tags...)
		}
	}

	detail, err := h.taskService.Update(userID, middleware.IDParam(c, "id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, http.StatusOK, detail)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(userID, middleware.IDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Task removed"))
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !bindJSON(c, &req, nil) {
		return
	}

	detail, err := h.taskService.AddComment(c.Request.Context(), userID, middleware.IDParam(c, "id"), services.CommentInput{
		Text:        req.Text,
		Attachments: req.Attachments,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, http.StatusCreated, detail)
}

func (h *TaskHandler) UpdateComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CommentRequest
	if !bindJSON(c, &req, nil) {
		return
	}

	detail, err := h.taskService.UpdateComment(c.Request.Context(), userID, middleware.IDParam(c, "id"), c.Param("commentId"), services.CommentInput{
		Text:        req.Text,
		Attachments: req.Attachments,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, http.StatusOK, detail)
}

func (h *TaskHandler) DeleteComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	detail, err := h.taskService.DeleteComment(c.Request.Context(), userID, middleware.IDParam(c, "id"), c.Param("commentId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, http.StatusOK, detail)
}

func (h *TaskHandler) DeleteCommentAttachment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	detail, err := h.taskService.DeleteCommentAttachment(
		c.Request.Context(), userID, middleware.IDParam(c, "id"), c.Param("commentId"), parseIndex(c, "index"),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, http.StatusOK, detail)
}

func (h *TaskHandler) AddAttachments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.AttachmentsRequest
	if !bindJSON(c, &req, nil) {
		return
	}

	detail, err := h.taskService.AddAttachments(c.Request.Context(), userID, middleware.IDParam(c, "id"), req.Attachments)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, http.StatusOK, detail)
}

func (h *TaskHandler) DeleteAttachment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	detail, err := h.taskService.DeleteAttachment(c.Request.Context(), userID, middleware.IDParam(c, "id"), parseIndex(c, "index"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondTask(c, http.StatusOK, detail)
}

// GenerateTasks drafts tasks from free text using AI. The drafts are returned, not saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.GenerateTasksRequest
	if !bindJSON(c, &req, map[string]string{"text": services.ErrGenerateTextRequired.Error()}) {
		return
	}

	generated, err := h.taskService.GenerateSuggestions(c.Request.Context(), userID, services.GenerateTasksInput{
		Text:      req.Text,
		ProjectID: req.Project,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": generated,
	})
}

func respondTask(c *gin.Context, status int, detail *services.TaskDetail) {
	c.JSON(status, dto.ToTaskDTO(*detail.Task, detail.Authors))
}
