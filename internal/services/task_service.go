package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
	"github.com/mohammed-tarek-rezk/Taskify/internal/logging"
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/mohammed-tarek-rezk/Taskify/internal/policy"
	"github.com/mohammed-tarek-rezk/Taskify/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskTitleRequired    = newError(ErrValidation, "Title is required")
	ErrInvalidTaskStatus    = newError(ErrValidation, "Invalid task status")
	ErrGenerateTextRequired = newError(ErrValidation, "Text is required")
	ErrAINoValidTasks       = newError(ErrValidation, "No valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	projectRepo  repository.ProjectRepository
	teamRepo     repository.TeamRepository
	userRepo     repository.UserRepository
	relationRepo repository.RelationRepository
	generator    TaskGenerator
	rel          relations
}

// NewTaskService creates a new TaskService. generator may be nil when no AI backend is configured.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	relationRepo repository.RelationRepository,
	generator TaskGenerator,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		projectRepo:  projectRepo,
		teamRepo:     teamRepo,
		userRepo:     userRepo,
		relationRepo: relationRepo,
		generator:    generator,
		rel:          relations{teams: teamRepo, projects: projectRepo},
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	ProjectID    *uint64
	AssignedToID *uint64
	CreatorID    uint64
	Status       *models.TaskStatus
	Priority     *models.Priority
	DueDate      *time.Time
	Tags         []string
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.Priority
	DueDate      *time.Time
	ClearDueDate bool
	AssignedToID *uint64
	Unassign     bool
	Tags         []string // nil leaves tags unchanged
}

// CommentInput carries a comment body. On update a nil Attachments keeps the existing ones.
type CommentInput struct {
	Text        string
	Attachments []models.Attachment
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	Text      string
	ProjectID *uint64
}

// TaskDetail is a task with the authors of its comments.
type TaskDetail struct {
	Task    *models.Task
	Authors map[uint64]models.User
}

// TaskPage is one page of a task listing.
type TaskPage struct {
	Tasks   []models.Task
	Total   int64
	Authors map[uint64]models.User
}

var taskDetail = []string{"Project", "AssignedTo", "CreatedBy"}

// List returns tasks the user created, is assigned, or can reach through a project
func (s *TaskService) List(userID uint64, query ListQuery) (*TaskPage, error) {
	filter, err := s.buildFilter(userID, query)
	if err != nil {
		return nil, err
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	authors, err := s.commentAuthors(tasks...)
	if err != nil {
		return nil, err
	}
	return &TaskPage{Tasks: tasks, Total: total, Authors: authors}, nil
}

func (s *TaskService) buildFilter(userID uint64, query ListQuery) (repository.TaskFilter, error) {
	filter := repository.TaskFilter{
		VisibleTo:  userID,
		Search:     strings.TrimSpace(query.Search),
		Pagination: query.Pagination,
	}

	filter.Status = parseEnum(query.Status, models.TaskStatus.Valid)
	filter.Priority = parseEnum(query.Priority, models.Priority.Valid)
	filter.ProjectID = parseIDParam(query.Project)
	filter.AssignedToID = parseIDParam(query.AssignedTo)
	filter.CreatedByID = parseIDParam(query.CreatedBy)
	filter.DueFrom, filter.DueTo = parseDateRange(query.StartDate, query.EndDate)

	var err error
	filter.SortBy, filter.SortOrder, err = parseSort(query.SortBy, query.SortOrder, repository.IsTaskSortField, repository.SortAsc)
	return filter, err
}

// Get returns a task the user can view
func (s *TaskService) Get(userID, taskID uint64) (*TaskDetail, error) {
	if _, err := s.authorize(userID, taskID, policy.View, "Not authorized to access this task"); err != nil {
		return nil, err
	}
	return s.detail(taskID)
}

// Create creates a personal or project task
func (s *TaskService) Create(input CreateTaskInput) (*TaskDetail, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}

	task := &models.Task{
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		CreatedByID: input.CreatorID,
		Status:      models.TaskStatusTodo,
		Priority:    models.PriorityMedium,
		Tags:        cleanTags(input.Tags),
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil && !input.DueDate.After(now()) {
		return nil, ErrDueDateNotFuture
	}

	var project *models.Project
	if input.ProjectID != nil {
		var err error
		project, err = s.projectRepo.FindByID(*input.ProjectID)
		if err != nil {
			return nil, notFoundOr(err, ErrProjectNotFound, "project")
		}
		rel, err := s.rel.project(project, input.CreatorID)
		if err != nil {
			return nil, err
		}
		if !policy.Allowed(policy.Project, policy.View, rel) {
			return nil, forbidden("Not authorized to create tasks for this project")
		}
		task.ProjectID = &project.ID
	}

	if input.DueDate != nil {
		if err := checkDueDate(*input.DueDate, project); err != nil {
			return nil, err
		}
		task.DueDate = input.DueDate
	}

	if input.AssignedToID != nil {
		if err := s.checkAssignee(*input.AssignedToID, project); err != nil {
			return nil, err
		}
		task.AssignedToID = input.AssignedToID
	}

	task.Normalize()
	if err := s.relationRepo.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return s.detail(task.ID)
}

// Update applies a partial update to a task
func (s *TaskService) Update(userID, taskID uint64, input UpdateTaskInput) (*TaskDetail, error) {
	task, err := s.authorize(userID, taskID, policy.Update, "Not authorized to update this task")
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.Tags != nil {
		task.Tags = cleanTags(input.Tags)
	}

	project, err := s.parentProject(task)
	if err != nil {
		return nil, err
	}

	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		if !input.DueDate.After(now()) {
			return nil, ErrDueDateNotFuture
		}
		if err := checkDueDate(*input.DueDate, project); err != nil {
			return nil, err
		}
		task.DueDate = input.DueDate
	}

	if input.Unassign {
		task.AssignedToID = nil
	} else if input.AssignedToID != nil {
		if err := s.checkAssignee(*input.AssignedToID, project); err != nil {
			return nil, err
		}
		task.AssignedToID = input.AssignedToID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return s.detail(task.ID)
}

// Delete removes a task
func (s *TaskService) Delete(userID, taskID uint64) error {
	task, err := s.authorize(userID, taskID, policy.Delete, "Not authorized to delete this task")
	if err != nil {
		return err
	}

	if err := s.relationRepo.DeleteTask(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	logging.LogEvent("task_deleted", map[string]interface{}{
		"task_id":  task.ID,
		"user_id":  userID,
		"comments": len(task.Comments),
	})
	return nil
}

// AddComment appends a comment authored by the user
func (s *TaskService) AddComment(ctx context.Context, userID, taskID uint64, input CommentInput) (*TaskDetail, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}
	if err := validateAttachments(input.Attachments); err != nil {
		return nil, err
	}

	if _, err := s.authorize(userID, taskID, policy.AddComment, "Not authorized to comment on this task"); err != nil {
		return nil, err
	}

	_, err := s.taskRepo.Mutate(ctx, taskID, func(task *models.Task) error {
		createdAt := now()
		task.Comments = append(task.Comments, models.Comment{
			ID:          uuid.NewString(),
			Text:        text,
			UserID:      userID,
			Attachments: input.Attachments,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		})
		return nil
	})
	if err != nil {
		return nil, mutateError(err)
	}
	return s.detail(taskID)
}

// UpdateComment edits a comment; author only
func (s *TaskService) UpdateComment(ctx context.Context, userID, taskID uint64, commentID string, input CommentInput) (*TaskDetail, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrCommentTextRequired
	}
	if err := validateAttachments(input.Attachments); err != nil {
		return nil, err
	}

	_, err := s.taskRepo.Mutate(ctx, taskID, func(task *models.Task) error {
		comment, err := authorizeComment(task, commentID, userID, policy.Update, "Not authorized to update this comment")
		if err != nil {
			return err
		}
		comment.Text = text
		if input.Attachments != nil {
			comment.Attachments = input.Attachments
		}
		comment.UpdatedAt = now()
		return nil
	})
	if err != nil {
		return nil, mutateError(err)
	}
	return s.detail(taskID)
}

// DeleteComment removes a comment; author only
func (s *TaskService) DeleteComment(ctx context.Context, userID, taskID uint64, commentID string) (*TaskDetail, error) {
	_, err := s.taskRepo.Mutate(ctx, taskID, func(task *models.Task) error {
		if _, err := authorizeComment(task, commentID, userID, policy.Delete, "Not authorized to delete this comment"); err != nil {
			return err
		}
		idx := task.FindComment(commentID)
		task.Comments = append(task.Comments[:idx], task.Comments[idx+1:]...)
		return nil
	})
	if err != nil {
		return nil, mutateError(err)
	}
	return s.detail(taskID)
}

// DeleteCommentAttachment removes one attachment from a comment; author only
func (s *TaskService) DeleteCommentAttachment(ctx context.Context, userID, taskID uint64, commentID string, index int) (*TaskDetail, error) {
	_, err := s.taskRepo.Mutate(ctx, taskID, func(task *models.Task) error {
		comment, err := authorizeComment(task, commentID, userID, policy.Detach, "Not authorized to modify this comment")
		if err != nil {
			return err
		}
		if index < 0 || index >= len(comment.Attachments) {
			return ErrInvalidAttachmentIdx
		}
		comment.Attachments = append(comment.Attachments[:index], comment.Attachments[index+1:]...)
		return nil
	})
	if err != nil {
		return nil, mutateError(err)
	}
	return s.detail(taskID)
}

// AddAttachments appends attachments to the task; creator or assignee only
func (s *TaskService) AddAttachments(ctx context.Context, userID, taskID uint64, attachments []models.Attachment) (*TaskDetail, error) {
	if len(attachments) == 0 {
		return nil, ErrNoAttachments
	}
	if err := validateAttachments(attachments); err != nil {
		return nil, err
	}

	_, err := s.taskRepo.Mutate(ctx, taskID, func(task *models.Task) error {
		if err := checkTaskRow(task, userID, policy.Attach); err != nil {
			return err
		}
		task.Attachments = append(task.Attachments, attachments...)
		return nil
	})
	if err != nil {
		return nil, mutateError(err)
	}
	return s.detail(taskID)
}

// DeleteAttachment removes the attachment at index; creator or assignee only
func (s *TaskService) DeleteAttachment(ctx context.Context, userID, taskID uint64, index int) (*TaskDetail, error) {
	_, err := s.taskRepo.Mutate(ctx, taskID, func(task *models.Task) error {
		if err := checkTaskRow(task, userID, policy.Detach); err != nil {
			return err
		}
		if index < 0 || index >= len(task.Attachments) {
			return ErrInvalidAttachmentIdx
		}
		task.Attachments = append(task.Attachments[:index], task.Attachments[index+1:]...)
		return nil
	})
	if err != nil {
		return nil, mutateError(err)
	}
	return s.detail(taskID)
}

// GenerateSuggestions uses AI to draft tasks from text. Nothing is persisted.
func (s *TaskService) GenerateSuggestions(ctx context.Context, userID uint64, input GenerateTasksInput) ([]GeneratedTask, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrGenerateTextRequired
	}
	if s.generator == nil {
		return nil, ErrAIServiceNotConfigured
	}

	var project *models.Project
	if input.ProjectID != nil {
		var err error
		project, err = s.projectRepo.FindByID(*input.ProjectID)
		if err != nil {
			return nil, notFoundOr(err, ErrProjectNotFound, "project")
		}
		rel, err := s.rel.project(project, userID)
		if err != nil {
			return nil, err
		}
		if !policy.Allowed(policy.Project, policy.View, rel) {
			return nil, forbidden("Not authorized to access this project")
		}
	}

	aiTasks, err := s.generator.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		return nil, validationf("AI generated too many tasks (max %d)", constants.MaxAIGeneratedTasks)
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}
		if !aiTask.Priority.Valid() {
			aiTask.Priority = models.PriorityMedium
		}
		if aiTask.DueDate != nil && checkDueDate(*aiTask.DueDate, project) != nil {
			aiTask.DueDate = nil
		}
		if aiTask.DueDate != nil && !aiTask.DueDate.After(now()) {
			aiTask.DueDate = nil
		}
		if aiTask.DueDate != nil {
			due := aiTask.DueDate.UTC()
			aiTask.DueDate = &due
		}

		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}
	return validTasks, nil
}

// authorize loads the task and checks the action against the caller's full relation
func (s *TaskService) authorize(userID, taskID uint64, action policy.Action, deny string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return nil, notFoundOr(err, ErrTaskNotFound, "task")
	}

	rel, err := s.rel.task(task, userID)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(policy.TaskResource(task.ProjectID != nil), action, rel); err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			return nil, forbidden(deny)
		}
		return nil, err
	}
	return task, nil
}

// parentProject returns the task's project, or nil for personal tasks and dangling references
func (s *TaskService) parentProject(task *models.Task) (*models.Project, error) {
	if task.ProjectID == nil {
		return nil, nil
	}
	project, err := s.projectRepo.FindByID(*task.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// checkAssignee requires the user to exist and, for project tasks, to belong to the project or its team
func (s *TaskService) checkAssignee(assigneeID uint64, project *models.Project) error {
	if _, err := s.userRepo.FindByID(assigneeID); err != nil {
		return notFoundOr(err, ErrAssigneeNotFound, "user")
	}
	if project == nil || assigneeID == project.LeaderID {
		return nil
	}

	member, err := s.projectRepo.IsMember(project.ID, assigneeID)
	if err != nil {
		return fmt.Errorf("failed to check project membership: %w", err)
	}
	if member {
		return nil
	}

	if project.TeamID != nil {
		member, err = s.teamRepo.IsMember(*project.TeamID, assigneeID)
		if err != nil {
			return fmt.Errorf("failed to check team membership: %w", err)
		}
		if member {
			return nil
		}
	}
	return ErrAssigneeNotInProject
}

func (s *TaskService) detail(taskID uint64) (*TaskDetail, error) {
	task, err := s.taskRepo.FindByID(taskID, taskDetail...)
	if err != nil {
		return nil, notFoundOr(err, ErrTaskNotFound, "task")
	}

	authors, err := s.commentAuthors(*task)
	if err != nil {
		return nil, err
	}
	return &TaskDetail{Task: task, Authors: authors}, nil
}

func (s *TaskService) commentAuthors(tasks ...models.Task) (map[uint64]models.User, error) {
	seen := make(map[uint64]struct{})
	var ids []uint64
	for _, task := range tasks {
		for _, comment := range task.Comments {
			if _, ok := seen[comment.UserID]; ok {
				continue
			}
			seen[comment.UserID] = struct{}{}
			ids = append(ids, comment.UserID)
		}
	}

	authors, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load comment authors: %w", err)
	}
	return authors, nil
}

// checkDueDate requires a project task's due date to fall after the project start.
func checkDueDate(due time.Time, project *models.Project) error {
	if project != nil && !due.After(project.StartDate) {
		return ErrDueBeforeProjectStart
	}
	return nil
}

// checkTaskRow applies rules that depend only on the task row itself.
func checkTaskRow(task *models.Task, userID uint64, action policy.Action) error {
	rel := taskRowRelation(task, userID)
	if !policy.Allowed(policy.TaskResource(task.ProjectID != nil), action, rel) {
		return forbidden("Not authorized to modify this task")
	}
	return nil
}

func authorizeComment(task *models.Task, commentID string, userID uint64, action policy.Action, deny string) (*models.Comment, error) {
	idx := task.FindComment(commentID)
	if idx < 0 {
		return nil, ErrCommentNotFound
	}
	comment := &task.Comments[idx]
	if !policy.Allowed(policy.Comment, action, policy.Relation{IsAuthor: comment.UserID == userID}) {
		return nil, forbidden(deny)
	}
	return comment, nil
}

func validateAttachments(attachments []models.Attachment) error {
	for _, a := range attachments {
		if !a.Complete() {
			return ErrInvalidAttachment
		}
	}
	return nil
}

func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}

// mutateError maps a failed Mutate to a service error.
func mutateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTaskNotFound
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return err
	}
	return fmt.Errorf("failed to update task: %w", err)
}
