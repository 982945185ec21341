package models

import (
	"time"

	"gorm.io/datatypes"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID           uint64                          `gorm:"primarykey" json:"id"`
	Title        string                          `gorm:"type:varchar(255);not null" json:"title"`
	Description  string                          `gorm:"type:text" json:"description"`
	ProjectID    *uint64                         `gorm:"index" json:"projectId"`
	AssignedToID *uint64                         `gorm:"index" json:"assignedToId"`
	CreatedByID  uint64                          `gorm:"not null;index" json:"createdById"`
	Status       TaskStatus                      `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Priority     Priority                        `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate      *time.Time                      `gorm:"index" json:"dueDate"`
	Tags         datatypes.JSONSlice[string]     `json:"tags"`
	Comments     datatypes.JSONSlice[Comment]    `json:"comments"`
	Attachments  datatypes.JSONSlice[Attachment] `json:"attachments"`
	CreatedAt    time.Time                       `json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`

	// Relations
	Project    *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo *User    `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
	CreatedBy  User     `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
}

// FindComment returns the index of the comment with the given id, or -1.
func (t *Task) FindComment(id string) int {
	for i := range t.Comments {
		if t.Comments[i].ID == id {
			return i
		}
	}
	return -1
}

// Normalize replaces nil JSON slices with empty ones so they persist as [] rather than null.
func (t *Task) Normalize() {
	if t.Tags == nil {
		t.Tags = datatypes.JSONSlice[string]{}
	}
	if t.Comments == nil {
		t.Comments = datatypes.JSONSlice[Comment]{}
	}
	if t.Attachments == nil {
		t.Attachments = datatypes.JSONSlice[Attachment]{}
	}
	for i := range t.Comments {
		if t.Comments[i].Attachments == nil {
			t.Comments[i].Attachments = []Attachment{}
		}
	}
}
