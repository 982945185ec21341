package dto

import (
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,notblank"`
	Description string `json:"description"`
}

// UpdateTeamRequest uses Optional so absent fields stay untouched.
type UpdateTeamRequest struct {
	Name        Optional[string]            `json:"name"`
	Description Optional[string]            `json:"description"`
	Status      Optional[models.TeamStatus] `json:"status"`
}

type MemberRequest struct {
	Email string `json:"email" binding:"required,notblank"`
}

type CreateProjectRequest struct {
	Name        string                `json:"name" binding:"required,notblank"`
	Description string                `json:"description"`
	Team        *uint64               `json:"team"`
	Status      *models.ProjectStatus `json:"status"`
	Priority    *models.Priority      `json:"priority"`
	StartDate   *string               `json:"startDate"`
	EndDate     *string               `json:"endDate"`
	// Members is accepted for compatibility and ignored; members are added by email.
	Members []uint64 `json:"members"`
}

type UpdateProjectRequest struct {
	Name        Optional[string]               `json:"name"`
	Description Optional[string]               `json:"description"`
	Status      Optional[models.ProjectStatus] `json:"status"`
	Priority    Optional[models.Priority]      `json:"priority"`
	EndDate     Optional[string]               `json:"endDate"`
}

type CreateTaskRequest struct {
	Title       string             `json:"title" binding:"required,notblank"`
	Description string             `json:"description"`
	Project     *uint64            `json:"project"`
	AssignedTo  *uint64            `json:"assignedTo"`
	Status      *models.TaskStatus `json:"status"`
	Priority    *models.Priority   `json:"priority"`
	DueDate     *string            `json:"dueDate"`
	Tags        []string           `json:"tags"`
}

type UpdateTaskRequest struct {
	Title       Optional[string]            `json:"title"`
	Description Optional[string]            `json:"description"`
	Status      Optional[models.TaskStatus] `json:"status"`
	Priority    Optional[models.Priority]   `json:"priority"`
	DueDate     Optional[string]            `json:"dueDate"`
	AssignedTo  Optional[uint64]            `json:"assignedTo"`
	Tags        Optional[[]string]          `json:"tags"`
}

type CommentRequest struct {
	Text        string              `json:"text"`
	Attachments []models.Attachment `json:"attachments"`
}

type AttachmentsRequest struct {
	Attachments []models.Attachment `json:"attachments"`
}

type GenerateTasksRequest struct {
	Text    string  `json:"text" binding:"required,notblank"`
	Project *uint64 `json:"project"`
}

type UpdateProfileRequest struct {
	Name  Optional[string] `json:"name"`
	Email Optional[string] `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// MessageResponse is the body of delete and other acknowledgement responses
type MessageResponse struct {
	Message string `json:"message"`
}
