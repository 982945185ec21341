package testutil

import (
	"testing"
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/database"
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database and installs it as the default.
// A single connection keeps every query on the same in-memory database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.SetDB(db)

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, PasswordHash: "hashed", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTeam inserts a team led by leader with the given extra members.
func CreateTeam(t *testing.T, db *gorm.DB, name string, leader *models.User, members ...*models.User) *models.Team {
	t.Helper()
	team := &models.Team{Name: name, LeaderID: leader.ID, Status: models.TeamStatusActive}
	require.NoError(t, db.Omit("Leader", "Members", "Projects").Create(team).Error)
	for _, u := range append([]*models.User{leader}, members...) {
		require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: u.ID}).Error)
	}
	return team
}

// CreateProject inserts a project in team (nil for none) led by leader with extra members.
func CreateProject(t *testing.T, db *gorm.DB, name string, team *models.Team, leader *models.User, members ...*models.User) *models.Project {
	t.Helper()
	project := &models.Project{
		Name:      name,
		LeaderID:  leader.ID,
		Status:    models.ProjectStatusPlanning,
		Priority:  models.PriorityMedium,
		StartDate: time.Now().UTC().Add(-time.Hour),
	}
	if team != nil {
		project.TeamID = &team.ID
	}
	require.NoError(t, db.Omit("Team", "Leader", "Members", "Tasks").Create(project).Error)
	for _, u := range append([]*models.User{leader}, members...) {
		require.NoError(t, db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: u.ID}).Error)
	}
	return project
}

// CreateTask inserts a task created by creator, optionally in project and assigned.
func CreateTask(t *testing.T, db *gorm.DB, title string, creator *models.User, project *models.Project, assignee *models.User) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:       title,
		CreatedByID: creator.ID,
		Status:      models.TaskStatusTodo,
		Priority:    models.PriorityMedium,
	}
	if project != nil {
		task.ProjectID = &project.ID
	}
	if assignee != nil {
		task.AssignedToID = &assignee.ID
	}
	task.Normalize()
	require.NoError(t, db.Omit("Project", "AssignedTo", "CreatedBy").Create(task).Error)
	return task
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
