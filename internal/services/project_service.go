package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/logging"
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/mohammed-tarek-rezk/Taskify/internal/policy"
	"github.com/mohammed-tarek-rezk/Taskify/internal/repository"
)

var (
	ErrProjectNameRequired = newError(ErrValidation, "Project name is required")
	ErrProjectTeamRequired = newError(ErrValidation, "Team is required")
	ErrInvalidProjectState = newError(ErrValidation, "Invalid project status")
	ErrInvalidPriority     = newError(ErrValidation, "Invalid priority")
)

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo  repository.ProjectRepository
	teamRepo     repository.TeamRepository
	userRepo     repository.UserRepository
	relationRepo repository.RelationRepository
	rel          relations
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	relationRepo repository.RelationRepository,
) *ProjectService {
	return &ProjectService{
		projectRepo:  projectRepo,
		teamRepo:     teamRepo,
		userRepo:     userRepo,
		relationRepo: relationRepo,
		rel:          relations{teams: teamRepo, projects: projectRepo},
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
	TeamID      *uint64
	LeaderID    uint64
	Status      *models.ProjectStatus
	Priority    *models.Priority
	StartDate   *time.Time
	EndDate     *time.Time
}

// UpdateProjectInput represents a partial project update
type UpdateProjectInput struct {
	Name         *string
	Description  *string
	Status       *models.ProjectStatus
	Priority     *models.Priority
	EndDate      *time.Time
	ClearEndDate bool
}

var projectDetail = []string{"Team", "Leader", "Members", "Tasks"}

// List returns the projects the user leads or belongs to, filtered and sorted
func (s *ProjectService) List(userID uint64, query ListQuery) ([]models.Project, int64, error) {
	filter, err := s.buildFilter(userID, query)
	if err != nil {
		return nil, 0, err
	}

	projects, total, err := s.projectRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

func (s *ProjectService) buildFilter(userID uint64, query ListQuery) (repository.ProjectFilter, error) {
	filter := repository.ProjectFilter{
		VisibleTo:  userID,
		Search:     strings.TrimSpace(query.Search),
		Pagination: query.Pagination,
	}

	filter.Status = parseEnum(query.Status, models.ProjectStatus.Valid)
	filter.Priority = parseEnum(query.Priority, models.Priority.Valid)
	filter.TeamID = parseIDParam(query.Team)
	filter.LeaderID = parseIDParam(query.Leader)
	filter.StartFrom, filter.StartTo = parseDateRange(query.StartDate, query.EndDate)

	var err error
	filter.SortBy, filter.SortOrder, err = parseSort(query.SortBy, query.SortOrder, repository.IsProjectSortField, repository.SortDesc)
	return filter, err
}

// Create creates a project inside a team the caller belongs to
func (s *ProjectService) Create(input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}
	if input.TeamID == nil {
		return nil, ErrProjectTeamRequired
	}

	project := &models.Project{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		LeaderID:    input.LeaderID,
		Status:      models.ProjectStatusPlanning,
		Priority:    models.PriorityMedium,
		StartDate:   now(),
	}
	if input.StartDate != nil {
		project.StartDate = *input.StartDate
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidProjectState
		}
		project.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		project.Priority = *input.Priority
	}
	if input.EndDate != nil {
		if err := validateEndDate(*input.EndDate, project.StartDate); err != nil {
			return nil, err
		}
		project.EndDate = input.EndDate
	}

	team, err := s.teamRepo.FindByID(*input.TeamID)
	if err != nil {
		return nil, notFoundOr(err, ErrTeamNotFound, "team")
	}
	rel, err := s.rel.team(team, input.LeaderID)
	if err != nil {
		return nil, err
	}
	if !policy.Allowed(policy.Team, policy.CreateProject, rel) {
		return nil, forbidden("Not authorized to create projects for this team")
	}
	project.TeamID = &team.ID

	if err := s.relationRepo.CreateProject(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return s.load(project.ID)
}

// Get returns a project the caller can view
func (s *ProjectService) Get(userID, projectID uint64) (*models.Project, error) {
	project, err := s.authorize(userID, projectID, policy.View, "Not authorized to access this project")
	if err != nil {
		return nil, err
	}
	return s.load(project.ID)
}

// Update applies a partial update; leader only
func (s *ProjectService) Update(userID, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.authorize(userID, projectID, policy.Update, "Not authorized to update this project")
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidProjectState
		}
		project.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		project.Priority = *input.Priority
	}
	if input.ClearEndDate {
		project.EndDate = nil
	} else if input.EndDate != nil {
		if err := validateEndDate(*input.EndDate, project.StartDate); err != nil {
			return nil, err
		}
		project.EndDate = input.EndDate
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return s.load(project.ID)
}

// Delete removes a project, detaching its tasks and memberships; leader only
func (s *ProjectService) Delete(userID, projectID uint64) error {
	project, err := s.authorize(userID, projectID, policy.Delete, "Not authorized to delete this project")
	if err != nil {
		return err
	}

	detached, err := s.relationRepo.DeleteProject(project.ID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	logging.LogEvent("project_deleted", map[string]interface{}{
		"project_id":     project.ID,
		"user_id":        userID,
		"tasks_detached": detached,
	})
	return nil
}

// AddMember adds the user with the given email to the project; leader only
func (s *ProjectService) AddMember(userID, projectID uint64, email string) (*models.Project, error) {
	project, err := s.authorize(userID, projectID, policy.ManageMembers, "Not authorized to add members to this project")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "user")
	}

	member, err := s.projectRepo.IsMember(project.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project membership: %w", err)
	}
	if member {
		return nil, ErrAlreadyProjMember
	}

	if err := s.relationRepo.LinkProjectMember(project.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to add project member: %w", err)
	}
	return s.load(project.ID)
}

// RemoveMember removes a member from the project; leader only
func (s *ProjectService) RemoveMember(userID, projectID, memberID uint64) (*models.Project, error) {
	project, err := s.authorize(userID, projectID, policy.ManageMembers, "Not authorized to remove members from this project")
	if err != nil {
		return nil, err
	}

	member, err := s.projectRepo.IsMember(project.ID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project membership: %w", err)
	}
	if !member {
		return nil, ErrNotProjectMember
	}
	if memberID == project.LeaderID {
		return nil, ErrCannotRemoveProjLead
	}

	if err := s.relationRepo.UnlinkProjectMember(project.ID, memberID); err != nil {
		return nil, fmt.Errorf("failed to remove project member: %w", err)
	}
	return s.load(project.ID)
}

func (s *ProjectService) authorize(userID, projectID uint64, action policy.Action, deny string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		return nil, notFoundOr(err, ErrProjectNotFound, "project")
	}

	rel, err := s.rel.project(project, userID)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(policy.Project, action, rel); err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			return nil, forbidden(deny)
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) load(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID, projectDetail...)
	if err != nil {
		return nil, notFoundOr(err, ErrProjectNotFound, "project")
	}
	return project, nil
}

// validateEndDate requires the end date to lie after both now and the start date.
func validateEndDate(end, start time.Time) error {
	if !end.After(now()) {
		return ErrEndDateNotFuture
	}
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	return nil
}
