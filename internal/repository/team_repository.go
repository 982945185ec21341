package repository

import (
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// FindByID finds a team by ID with optional preloading
func (r *GormTeamRepository) FindByID(id uint64, preload ...string) (*models.Team, error) {
	var team models.Team
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// ListForUser lists teams the user leads or belongs to
func (r *GormTeamRepository) ListForUser(userID uint64) ([]models.Team, error) {
	memberOf := r.db.Model(&models.TeamMember{}).Select("team_id").Where("user_id = ?", userID)

	var teams []models.Team
	err := r.db.
		Where("(teams.leader_id = ? OR teams.id IN (?))", userID, memberOf).
		Preload("Leader").
		Preload("Members").
		Order("teams.created_at DESC").
		Order("teams.id DESC").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// Update updates name, description and status
func (r *GormTeamRepository) Update(team *models.Team) error {
	return r.db.Model(team).
		Select("name", "description", "status", "updated_at").
		Updates(team).Error
}

// IsMember reports whether the user is in the team's member set
func (r *GormTeamRepository) IsMember(teamID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}
