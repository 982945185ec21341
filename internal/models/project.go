package models

import "time"

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusReview     ProjectStatus = "review"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusReview,
		ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Project struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	TeamID      *uint64       `gorm:"index" json:"teamId"`
	LeaderID    uint64        `gorm:"not null;index" json:"leaderId"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'planning'" json:"status"`
	Priority    Priority      `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	StartDate   time.Time     `gorm:"not null;index" json:"startDate"`
	EndDate     *time.Time    `json:"endDate"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`

	// Relations
	Team    *Team  `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Leader  User   `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
	Members []User `gorm:"many2many:project_members;" json:"members,omitempty"`
	Tasks   []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}

// ProjectMember is the join row behind Project.Members and User.Projects.
type ProjectMember struct {
	ProjectID uint64    `gorm:"primarykey" json:"projectId"`
	UserID    uint64    `gorm:"primarykey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
