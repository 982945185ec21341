package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error a service returns on purpose wraps exactly one of these;
// anything else is an internal failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("unavailable")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func validationf(format string, args ...any) error {
	return newError(ErrValidation, fmt.Sprintf(format, args...))
}

var (
	ErrUserNotFound       = newError(ErrNotFound, "User not found")
	ErrTeamNotFound       = newError(ErrNotFound, "Team not found")
	ErrProjectNotFound    = newError(ErrNotFound, "Project not found")
	ErrTaskNotFound       = newError(ErrNotFound, "Task not found")
	ErrCommentNotFound    = newError(ErrNotFound, "Comment not found")
	ErrAssigneeNotFound   = newError(ErrNotFound, "Assigned user not found")
	ErrNotTeamMember      = newError(ErrNotFound, "User is not a member of this team")
	ErrNotProjectMember   = newError(ErrNotFound, "User is not a member of this project")
	ErrEmailTaken         = newError(ErrConflict, "User already exists")
	ErrEmailInUse         = newError(ErrConflict, "Email is already taken")
	ErrAlreadyTeamMember  = newError(ErrConflict, "User is already a member of this team")
	ErrAlreadyProjMember  = newError(ErrConflict, "User is already a member of this project")
	ErrInvalidCredentials = newError(ErrUnauthorized, "Invalid credentials")
	ErrWrongPassword      = newError(ErrUnauthorized, "Current password is incorrect")

	ErrMissingFields         = newError(ErrValidation, "Please provide all required fields")
	ErrInvalidEmail          = newError(ErrValidation, "Please provide a valid email")
	ErrPasswordTooShort      = newError(ErrValidation, "Password must be at least 8 characters long")
	ErrCannotRemoveLeader    = newError(ErrValidation, "Cannot remove the team leader")
	ErrCannotRemoveProjLead  = newError(ErrValidation, "Cannot remove the project leader")
	ErrEndDateNotFuture      = newError(ErrValidation, "End date must be after the current date")
	ErrEndBeforeStart        = newError(ErrValidation, "End date must be after the project start date")
	ErrDueDateNotFuture      = newError(ErrValidation, "Due date must be after the current date")
	ErrDueBeforeProjectStart = newError(ErrValidation, "Due date must be after the project start date")
	ErrAssigneeNotInProject  = newError(ErrValidation, "Assigned user must be a member of the project or its team")
	ErrCommentTextRequired   = newError(ErrValidation, "Comment text is required")
	ErrInvalidAttachment     = newError(ErrValidation, "Each attachment must have name, url, type, and size")
	ErrNoAttachments         = newError(ErrValidation, "No attachments provided")
	ErrInvalidAttachmentIdx  = newError(ErrValidation, "Invalid attachment index")

	ErrAIServiceNotConfigured = newError(ErrUnavailable, "AI service is not configured")
	ErrAINoTasksGenerated     = newError(ErrValidation, "AI did not generate any tasks")
)

// forbidden builds a resource-specific forbidden error.
func forbidden(msg string) error {
	return newError(ErrForbidden, msg)
}
