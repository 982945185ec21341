package models

import "time"

type TeamStatus string

const (
	TeamStatusActive   TeamStatus = "active"
	TeamStatusInactive TeamStatus = "inactive"
	TeamStatusArchived TeamStatus = "archived"
)

func (s TeamStatus) Valid() bool {
	switch s {
	case TeamStatusActive, TeamStatusInactive, TeamStatusArchived:
		return true
	}
	return false
}

type Team struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	LeaderID    uint64     `gorm:"not null;index" json:"leaderId"`
	Status      TeamStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Relations
	Leader   User      `gorm:"foreignKey:LeaderID" json:"leader,omitempty"`
	Members  []User    `gorm:"many2many:team_members;" json:"members,omitempty"`
	Projects []Project `gorm:"foreignKey:TeamID" json:"projects,omitempty"`
}

// TeamMember is the join row behind Team.Members and User.Teams.
// The composite primary key keeps a user from appearing twice in one team.
type TeamMember struct {
	TeamID    uint64    `gorm:"primarykey" json:"teamId"`
	UserID    uint64    `gorm:"primarykey" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}
