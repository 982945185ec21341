package services

import (
	"context"
	"testing"
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/repository"
	"github.com/mohammed-tarek-rezk/Taskify/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	auth     *AuthService
	tokens   *TokenService
	users    *UserService
	teams    *TeamService
	projects *ProjectService
	tasks    *TaskService
}

func newFixture(t *testing.T, generator TaskGenerator) *fixture {
	t.Helper()
	db := testutil.NewDB(t)

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	relationRepo := repository.NewRelationRepository(db)
	tokens := NewTokenService("test-secret", 24*time.Hour)

	return &fixture{
		db:       db,
		auth:     NewAuthService(userRepo, tokens),
		tokens:   tokens,
		users:    NewUserService(userRepo, teamRepo, projectRepo, taskRepo),
		teams:    NewTeamService(teamRepo, projectRepo, userRepo, relationRepo),
		projects: NewProjectService(projectRepo, teamRepo, userRepo, relationRepo),
		tasks:    NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, relationRepo, generator),
	}
}

// freezeClock pins the service clock for the duration of the test.
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

type stubGenerator struct {
	tasks []GeneratedTask
	err   error
	calls int
}

func (g *stubGenerator) GenerateTasksFromText(_ context.Context, _ string) ([]GeneratedTask, error) {
	g.calls++
	return g.tasks, g.err
}
