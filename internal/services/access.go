package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/mohammed-tarek-rezk/Taskify/internal/policy"
	"github.com/mohammed-tarek-rezk/Taskify/internal/repository"
	"gorm.io/gorm"
)

// now is the service clock.
var now = func() time.Time { return time.Now().UTC() }

// relations computes policy.Relation values from stored state.
type relations struct {
	teams    repository.TeamRepository
	projects repository.ProjectRepository
}

func (r relations) team(team *models.Team, userID uint64) (policy.Relation, error) {
	member, err := r.teams.IsMember(team.ID, userID)
	if err != nil {
		return policy.Relation{}, fmt.Errorf("failed to check team membership: %w", err)
	}
	return policy.Relation{
		IsLeader: team.LeaderID == userID,
		IsMember: member,
	}, nil
}

func (r relations) project(project *models.Project, userID uint64) (policy.Relation, error) {
	member, err := r.projects.IsMember(project.ID, userID)
	if err != nil {
		return policy.Relation{}, fmt.Errorf("failed to check project membership: %w", err)
	}
	return policy.Relation{
		IsLeader: project.LeaderID == userID,
		IsMember: member,
	}, nil
}

// task computes the caller's relation to a task. A dangling project reference
// contributes nothing.
func (r relations) task(task *models.Task, userID uint64) (policy.Relation, error) {
	rel := taskRowRelation(task, userID)
	if task.ProjectID == nil {
		return rel, nil
	}

	project, err := r.projects.FindByID(*task.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return rel, nil
		}
		return rel, fmt.Errorf("failed to find project: %w", err)
	}
	projectRel, err := r.project(project, userID)
	if err != nil {
		return rel, err
	}
	rel.IsProjectLeader = projectRel.IsLeader
	rel.IsProjectMember = projectRel.IsMember
	return rel, nil
}

// taskRowRelation uses only the task's own columns.
func taskRowRelation(task *models.Task, userID uint64) policy.Relation {
	return policy.Relation{
		IsCreator:  task.CreatedByID == userID,
		IsAssignee: task.AssignedToID != nil && *task.AssignedToID == userID,
	}
}

func notFoundOr(err, notFound error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("failed to find %s: %w", what, err)
}
