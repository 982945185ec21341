package repository

import (
	"github.com/mohammed-tarek-rezk/Taskify/internal/database"
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// List retrieves projects the caller leads or belongs to, filtered and sorted
func (r *GormProjectRepository) List(filter ProjectFilter) ([]models.Project, int64, error) {
	memberOf := r.db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", filter.VisibleTo)

	query := r.db.Model(&models.Project{}).
		Where("(projects.leader_id = ? OR projects.id IN (?))", filter.VisibleTo, memberOf)

	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(projects.name) LIKE ? ESCAPE '!' OR LOWER(projects.description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("projects.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("projects.priority = ?", *filter.Priority)
	}
	if filter.TeamID != nil {
		query = query.Where("projects.team_id = ?", *filter.TeamID)
	}
	if filter.LeaderID != nil {
		query = query.Where("projects.leader_id = ?", *filter.LeaderID)
	}
	if filter.StartFrom != nil {
		query = query.Where("projects.start_date >= ?", *filter.StartFrom)
	}
	if filter.StartTo != nil {
		query = query.Where("projects.start_date <= ?", *filter.StartTo)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := projectSortColumns[filter.SortBy]
	if !ok {
		col = projectSortColumns["startDate"]
	}
	order := filter.SortOrder
	if !order.Valid() {
		order = SortDesc
	}

	listQuery := query
	for _, term := range orderClauses(col, order, "projects.id") {
		listQuery = listQuery.Order(term)
	}

	var projects []models.Project
	err := listQuery.
		Scopes(database.Paginate(filter.Pagination)).
		Preload("Team").
		Preload("Leader").
		Preload("Members").
		Find(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates name, description, status, priority and end date
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Model(project).
		Select("name", "description", "status", "priority", "end_date", "updated_at").
		Updates(project).Error
}

// IsMember reports whether the user is in the project's member set
func (r *GormProjectRepository) IsMember(projectID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}
