package repository

import (
	"errors"
	"fmt"

	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCreateTeam is returned when inserting the team row fails.
	ErrCreateTeam = errors.New("relation repository: create team failed")
	// ErrCreateProject is returned when inserting the project row fails.
	ErrCreateProject = errors.New("relation repository: create project failed")
	// ErrLinkLeader is returned when the leader membership cannot be written.
	ErrLinkLeader = errors.New("relation repository: link leader failed")
)

// GormRelationRepository is a GORM implementation of RelationRepository
type GormRelationRepository struct {
	db *gorm.DB
}

// NewRelationRepository creates a new RelationRepository
func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &GormRelationRepository{db: db}
}

// CreateTeam inserts the team and its leader membership atomically.
func (r *GormRelationRepository) CreateTeam(team *models.Team) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateTeam, err)
		}
		if err := linkTeamMember(tx, team.ID, team.LeaderID); err != nil {
			return fmt.Errorf("%w: %v", ErrLinkLeader, err)
		}
		return nil
	})
}

// CreateProject inserts the project and its leader membership atomically.
// The team side needs no write: Team.Projects is derived from projects.team_id.
func (r *GormRelationRepository) CreateProject(project *models.Project) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateProject, err)
		}
		if err := linkProjectMember(tx, project.ID, project.LeaderID); err != nil {
			return fmt.Errorf("%w: %v", ErrLinkLeader, err)
		}
		return nil
	})
}

// CreateTask inserts the task
func (r *GormRelationRepository) CreateTask(task *models.Task) error {
	task.Normalize()
	return r.db.Omit(clause.Associations).Create(task).Error
}

// LinkTeamMember adds the user to the team; linking twice is a no-op
func (r *GormRelationRepository) LinkTeamMember(teamID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return linkTeamMember(tx, teamID, userID)
	})
}

// UnlinkTeamMember removes the user from the team
func (r *GormRelationRepository) UnlinkTeamMember(teamID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("team_id = ? AND user_id = ?", teamID, userID).
			Delete(&models.TeamMember{}).Error
	})
}

// LinkProjectMember adds the user to the project; linking twice is a no-op
func (r *GormRelationRepository) LinkProjectMember(projectID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return linkProjectMember(tx, projectID, userID)
	})
}

// UnlinkProjectMember removes the user from the project
func (r *GormRelationRepository) UnlinkProjectMember(projectID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Where("project_id = ? AND user_id = ?", projectID, userID).
			Delete(&models.ProjectMember{}).Error
	})
}

// DeleteTeam detaches the team's projects, drops its memberships and deletes it.
// It returns the number of projects detached.
func (r *GormRelationRepository) DeleteTeam(id uint64) (int64, error) {
	var detached int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Projects outlive their team
		res := tx.Model(&models.Project{}).
			Where("team_id = ?", id).
			Update("team_id", nil)
		if res.Error != nil {
			return res.Error
		}
		detached = res.RowsAffected

		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Team{}, id).Error
	})
	return detached, err
}

// DeleteProject detaches the project's tasks, drops its memberships and deletes it.
// It returns the number of tasks detached.
func (r *GormRelationRepository) DeleteProject(id uint64) (int64, error) {
	var detached int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Tasks outlive their project and become personal
		res := tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Update("project_id", nil)
		if res.Error != nil {
			return res.Error
		}
		detached = res.RowsAffected

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
	return detached, err
}

// DeleteTask deletes the task. Project, creator and assignee reference it only
// through its own columns, so removing the row detaches it everywhere.
func (r *GormRelationRepository) DeleteTask(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Delete(&models.Task{}, id).Error
	})
}

func linkTeamMember(tx *gorm.DB, teamID, userID uint64) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.TeamMember{TeamID: teamID, UserID: userID}).Error
}

func linkProjectMember(tx *gorm.DB, projectID, userID uint64) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProjectMember{ProjectID: projectID, UserID: userID}).Error
}
