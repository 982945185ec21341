package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/mohammed-tarek-rezk/Taskify/internal/utils"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func (o SortOrder) Valid() bool {
	return o == SortAsc || o == SortDesc
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	VisibleTo    uint64
	InvolvedOnly bool // only tasks the caller created or is assigned
	Search       string
	Status       *models.TaskStatus
	Priority     *models.Priority
	ProjectID    *uint64
	AssignedToID *uint64
	CreatedByID  *uint64
	DueFrom      *time.Time
	DueTo        *time.Time
	SortBy       string
	SortOrder    SortOrder
	Pagination   *utils.PaginationParams
}

// ProjectFilter holds filtering options for listing projects
type ProjectFilter struct {
	VisibleTo  uint64
	Search     string
	Status     *models.ProjectStatus
	Priority   *models.Priority
	TeamID     *uint64
	LeaderID   *uint64
	StartFrom  *time.Time
	StartTo    *time.Time
	SortBy     string
	SortOrder  SortOrder
	Pagination *utils.PaginationParams
}

type sortColumn struct {
	expr     string
	nullable bool
}

const priorityRank = "CASE %s WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 0 END"

var taskSortColumns = map[string]sortColumn{
	"dueDate":   {expr: "tasks.due_date", nullable: true},
	"createdAt": {expr: "tasks.created_at"},
	"updatedAt": {expr: "tasks.updated_at"},
	"title":     {expr: "tasks.title"},
	"status":    {expr: "tasks.status"},
	"priority":  {expr: fmt.Sprintf(priorityRank, "tasks.priority")},
}

var projectSortColumns = map[string]sortColumn{
	"startDate": {expr: "projects.start_date"},
	"endDate":   {expr: "projects.end_date", nullable: true},
	"createdAt": {expr: "projects.created_at"},
	"updatedAt": {expr: "projects.updated_at"},
	"name":      {expr: "projects.name"},
	"status":    {expr: "projects.status"},
	"priority":  {expr: fmt.Sprintf(priorityRank, "projects.priority")},
}

// IsTaskSortField reports whether key is an accepted task sortBy value.
func IsTaskSortField(key string) bool {
	_, ok := taskSortColumns[key]
	return ok
}

// IsProjectSortField reports whether key is an accepted project sortBy value.
func IsProjectSortField(key string) bool {
	_, ok := projectSortColumns[key]
	return ok
}

// orderClauses renders ORDER BY terms with nulls last, followed by a stable id tiebreak.
func orderClauses(col sortColumn, order SortOrder, idColumn string) []string {
	dir := "ASC"
	if order == SortDesc {
		dir = "DESC"
	}

	var terms []string
	if col.nullable {
		terms = append(terms, fmt.Sprintf("CASE WHEN %s IS NULL THEN 1 ELSE 0 END", col.expr))
	}
	terms = append(terms, col.expr+" "+dir, idColumn+" "+dir)
	return terms
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern builds a case-insensitive substring pattern escaped with '!'.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
}
