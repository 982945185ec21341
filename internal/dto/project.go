package dto

import (
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
)

// TeamRef is the short form of a team inside a project
type TeamRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Team        *TeamRef             `json:"team"`
	Leader      UserSummary          `json:"leader"`
	Members     []UserSummary        `json:"members"`
	Tasks       []TaskSummary        `json:"tasks,omitempty"`
	Status      models.ProjectStatus `json:"status"`
	Priority    models.Priority      `json:"priority"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     *time.Time           `json:"endDate"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// ToProjectDTO converts a Project model. Tasks are included only when preloaded.
func ToProjectDTO(project models.Project) ProjectDTO {
	leader := project.Leader
	if leader.ID == 0 {
		leader.ID = project.LeaderID
	}

	dto := ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Leader:      ToUserSummary(leader),
		Members:     ToUserSummaries(project.Members),
		Status:      project.Status,
		Priority:    project.Priority,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if project.Team != nil {
		dto.Team = &TeamRef{ID: project.Team.ID, Name: project.Team.Name}
	}

	if project.Tasks != nil {
		dto.Tasks = make([]TaskSummary, len(project.Tasks))
		for i, task := range project.Tasks {
			dto.Tasks[i] = ToTaskSummary(task)
		}
	}

	return dto
}

func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	out := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		out[i] = ToProjectDTO(p)
	}
	return out
}
