package dto

import (
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
)

// UserSummary represents a user embedded in another resource
type UserSummary struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

// ProjectRef is the short form of a project inside a task
type ProjectRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// CommentDTO represents a comment with its author populated
type CommentDTO struct {
	ID          string              `json:"id"`
	Text        string              `json:"text"`
	User        UserSummary         `json:"user"`
	Attachments []models.Attachment `json:"attachments"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Project     *ProjectRef         `json:"project"`
	AssignedTo  *UserSummary        `json:"assignedTo"`
	CreatedBy   UserSummary         `json:"createdBy"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.Priority     `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
	Tags        []string            `json:"tags"`
	Comments    []CommentDTO        `json:"comments"`
	Attachments []models.Attachment `json:"attachments"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskSummary represents a task listed under a project or profile
type TaskSummary struct {
	ID           uint64            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Status       models.TaskStatus `json:"status"`
	Priority     models.Priority   `json:"priority"`
	DueDate      *time.Time        `json:"dueDate"`
	AssignedToID *uint64           `json:"assignedTo"`
	Project      *ProjectRef       `json:"project,omitempty"`
}

// Conversion functions

// ToUserSummary converts a User model to UserSummary
func ToUserSummary(user models.User) UserSummary {
	summary := UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
	if user.ProfileImage != "" {
		image := user.ProfileImage
		summary.ProfileImage = &image
	}
	return summary
}

// ToUserSummaries converts a slice of users, never returning nil
func ToUserSummaries(users []models.User) []UserSummary {
	out := make([]UserSummary, len(users))
	for i, u := range users {
		out[i] = ToUserSummary(u)
	}
	return out
}

// ToTaskDTO converts a Task model to TaskDTO. Comment authors missing from
// authors (deleted users) are rendered with their id only.
func ToTaskDTO(task models.Task, authors map[uint64]models.User) TaskDTO {
	task.Normalize()

	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		CreatedBy:   ToUserSummary(task.CreatedBy),
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		Tags:        task.Tags,
		Comments:    make([]CommentDTO, len(task.Comments)),
		Attachments: task.Attachments,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	// Include project if preloaded
	if task.Project != nil {
		dto.Project = &ProjectRef{ID: task.Project.ID, Name: task.Project.Name}
	}

	// Include assignee if preloaded
	if task.AssignedTo != nil {
		assignee := ToUserSummary(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}

	for i, comment := range task.Comments {
		author, ok := authors[comment.UserID]
		if !ok {
			author = models.User{ID: comment.UserID}
		}
		dto.Comments[i] = CommentDTO{
			ID:          comment.ID,
			Text:        comment.Text,
			User:        ToUserSummary(author),
			Attachments: comment.Attachments,
			CreatedAt:   comment.CreatedAt,
			UpdatedAt:   comment.UpdatedAt,
		}
	}

	return dto
}

// ToTaskDTOs converts a task listing
func ToTaskDTOs(tasks []models.Task, authors map[uint64]models.User) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		out[i] = ToTaskDTO(task, authors)
	}
	return out
}

// ToTaskSummary converts a Task model to TaskSummary
func ToTaskSummary(task models.Task) TaskSummary {
	summary := TaskSummary{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		AssignedToID: task.AssignedToID,
	}
	if task.Project != nil {
		summary.Project = &ProjectRef{ID: task.Project.ID, Name: task.Project.Name}
	}
	return summary
}
