package repository

import (
	"context"

	"github.com/mohammed-tarek-rezk/Taskify/internal/database"
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	task.Normalize()
	return &task, nil
}

// List retrieves tasks the caller created, is assigned, or can reach through a project
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	memberOf := r.db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", filter.VisibleTo)
	leads := r.db.Model(&models.Project{}).Select("id").Where("leader_id = ?", filter.VisibleTo)

	query := r.db.Model(&models.Task{})
	if filter.InvolvedOnly {
		query = query.Where("(tasks.created_by_id = ? OR tasks.assigned_to_id = ?)", filter.VisibleTo, filter.VisibleTo)
	} else {
		query = query.Where("(tasks.created_by_id = ? OR tasks.assigned_to_id = ? OR tasks.project_id IN (?) OR tasks.project_id IN (?))",
			filter.VisibleTo, filter.VisibleTo, memberOf, leads)
	}

	// Apply filters
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(tasks.title) LIKE ? ESCAPE '!' OR LOWER(tasks.description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.AssignedToID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.AssignedToID)
	}
	if filter.CreatedByID != nil {
		query = query.Where("tasks.created_by_id = ?", *filter.CreatedByID)
	}
	if filter.DueFrom != nil {
		query = query.Where("tasks.due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("tasks.due_date <= ?", *filter.DueTo)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := taskSortColumns[filter.SortBy]
	if !ok {
		col = taskSortColumns["dueDate"]
	}
	order := filter.SortOrder
	if !order.Valid() {
		order = SortAsc
	}

	listQuery := query
	for _, term := range orderClauses(col, order, "tasks.id") {
		listQuery = listQuery.Order(term)
	}

	var tasks []models.Task
	err := listQuery.
		Scopes(database.Paginate(filter.Pagination)).
		Preload("Project").
		Preload("AssignedTo").
		Preload("CreatedBy").
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range tasks {
		tasks[i].Normalize()
	}
	return tasks, total, nil
}

// Update updates the task's scalar fields and tags. Comments and attachments are
// left alone so a concurrent Mutate is never overwritten.
func (r *GormTaskRepository) Update(task *models.Task) error {
	task.Normalize()
	return r.db.Model(task).
		Select("title", "description", "status", "priority", "due_date", "assigned_to_id", "tags", "updated_at").
		Updates(task).Error
}

// Mutate locks the task row, applies fn and persists comments and attachments
func (r *GormTaskRepository) Mutate(ctx context.Context, id uint64, fn func(task *models.Task) error) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, id).Error; err != nil {
			return err
		}

		task.Normalize()
		if err := fn(&task); err != nil {
			return err
		}
		task.Normalize()

		return tx.Model(&task).
			Select("comments", "attachments", "updated_at").
			Updates(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}
