package dto

import (
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
)

// TeamDTO represents a team with its leader, members and projects
type TeamDTO struct {
	ID          uint64            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Status      models.TeamStatus `json:"status"`
	Leader      UserSummary       `json:"leader"`
	Members     []UserSummary     `json:"members"`
	Projects    []ProjectSummary  `json:"projects"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ProjectSummary represents a project listed under a team or profile
type ProjectSummary struct {
	ID          uint64               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      models.ProjectStatus `json:"status"`
	Priority    models.Priority      `json:"priority"`
	StartDate   time.Time            `json:"startDate"`
	EndDate     *time.Time           `json:"endDate"`
}

func ToTeamDTO(team models.Team) TeamDTO {
	leader := team.Leader
	if leader.ID == 0 {
		leader.ID = team.LeaderID
	}

	projects := make([]ProjectSummary, len(team.Projects))
	for i, p := range team.Projects {
		projects[i] = ToProjectSummary(p)
	}

	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		Status:      team.Status,
		Leader:      ToUserSummary(leader),
		Members:     ToUserSummaries(team.Members),
		Projects:    projects,
		CreatedAt:   team.CreatedAt,
		UpdatedAt:   team.UpdatedAt,
	}
}

func ToTeamDTOs(teams []models.Team) []TeamDTO {
	out := make([]TeamDTO, len(teams))
	for i, t := range teams {
		out[i] = ToTeamDTO(t)
	}
	return out
}

func ToProjectSummary(project models.Project) ProjectSummary {
	return ProjectSummary{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Status:      project.Status,
		Priority:    project.Priority,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
	}
}
