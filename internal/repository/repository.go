package repository

import (
	"context"

	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByIDs returns the users with the given IDs keyed by ID
	FindByIDs(ids []uint64) (map[uint64]models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns every user ordered by name
	List() ([]models.User, error)

	// Update persists name, email, password hash and profile image
	Update(user *models.User) error
}

// TeamRepository defines the interface for team reads and scalar updates.
// Structural writes (create, delete, membership) go through RelationRepository.
type TeamRepository interface {
	// FindByID finds a team by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Team, error)

	// ListForUser lists teams the user leads or belongs to
	ListForUser(userID uint64) ([]models.Team, error)

	// Update updates name, description and status
	Update(team *models.Team) error

	// IsMember reports whether the user is in the team's member set
	IsMember(teamID, userID uint64) (bool, error)
}

// ProjectRepository defines the interface for project reads and scalar updates
type ProjectRepository interface {
	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// List retrieves projects visible to filter.VisibleTo
	List(filter ProjectFilter) ([]models.Project, int64, error)

	// Update updates name, description, status, priority and end date
	Update(project *models.Project) error

	// IsMember reports whether the user is in the project's member set
	IsMember(projectID, userID uint64) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks visible to filter.VisibleTo
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates the task's scalar fields and tags
	Update(task *models.Task) error

	// Mutate locks the task row, applies fn and persists its comments and attachments
	// in one transaction. fn must not touch the database.
	Mutate(ctx context.Context, id uint64, fn func(task *models.Task) error) (*models.Task, error)
}

// RelationRepository keeps both sides of every relationship consistent.
// Each method runs in a single transaction.
type RelationRepository interface {
	// CreateTeam inserts the team and its leader membership
	CreateTeam(team *models.Team) error

	// CreateProject inserts the project and its leader membership
	CreateProject(project *models.Project) error

	// CreateTask inserts the task
	CreateTask(task *models.Task) error

	// LinkTeamMember adds the user to the team; linking twice is a no-op
	LinkTeamMember(teamID, userID uint64) error

	// UnlinkTeamMember removes the user from the team
	UnlinkTeamMember(teamID, userID uint64) error

	// LinkProjectMember adds the user to the project; linking twice is a no-op
	LinkProjectMember(projectID, userID uint64) error

	// UnlinkProjectMember removes the user from the project
	UnlinkProjectMember(projectID, userID uint64) error

	// DeleteTeam detaches the team's projects, drops its memberships and deletes it.
	// It returns the number of projects detached.
	DeleteTeam(id uint64) (int64, error)

	// DeleteProject detaches the project's tasks, drops its memberships and deletes it.
	// It returns the number of tasks detached.
	DeleteProject(id uint64) (int64, error)

	// DeleteTask deletes the task
	DeleteTask(id uint64) error
}
