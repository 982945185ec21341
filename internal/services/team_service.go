package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mohammed-tarek-rezk/Taskify/internal/logging"
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/mohammed-tarek-rezk/Taskify/internal/policy"
	"github.com/mohammed-tarek-rezk/Taskify/internal/repository"
)

var (
	ErrTeamNameRequired = newError(ErrValidation, "Team name is required")
	ErrInvalidTeamState = newError(ErrValidation, "Invalid team status")
)

// TeamService handles team business logic
type TeamService struct {
	teamRepo     repository.TeamRepository
	userRepo     repository.UserRepository
	relationRepo repository.RelationRepository
	rel          relations
}

// NewTeamService creates a new TeamService
func NewTeamService(
	teamRepo repository.TeamRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	relationRepo repository.RelationRepository,
) *TeamService {
	return &TeamService{
		teamRepo:     teamRepo,
		userRepo:     userRepo,
		relationRepo: relationRepo,
		rel:          relations{teams: teamRepo, projects: projectRepo},
	}
}

// CreateTeamInput represents input for creating a team
type CreateTeamInput struct {
	Name        string
	Description string
	LeaderID    uint64
}

// UpdateTeamInput represents a partial team update. Nil fields are left alone.
type UpdateTeamInput struct {
	Name        *string
	Description *string
	Status      *models.TeamStatus
}

var teamDetail = []string{"Leader", "Members", "Projects"}

// List returns the teams the user leads or belongs to
func (s *TeamService) List(userID uint64) ([]models.Team, error) {
	teams, err := s.teamRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// Create creates a team led by the caller
func (s *TeamService) Create(input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		LeaderID:    input.LeaderID,
		Status:      models.TeamStatusActive,
	}
	if err := s.relationRepo.CreateTeam(team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return s.load(team.ID)
}

// Get returns a team the caller can view
func (s *TeamService) Get(userID, teamID uint64) (*models.Team, error) {
	team, err := s.authorize(userID, teamID, policy.View, "Not authorized to access this team")
	if err != nil {
		return nil, err
	}
	return s.load(team.ID)
}

// Update applies a partial update; leader only
func (s *TeamService) Update(userID, teamID uint64, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.authorize(userID, teamID, policy.Update, "Not authorized to update this team")
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = name
	}
	if input.Description != nil {
		team.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidTeamState
		}
		team.Status = *input.Status
	}

	if err := s.teamRepo.Update(team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return s.load(team.ID)
}

// Delete removes a team, detaching its projects and memberships; leader only
func (s *TeamService) Delete(userID, teamID uint64) error {
	team, err := s.authorize(userID, teamID, policy.Delete, "Not authorized to delete this team")
	if err != nil {
		return err
	}

	detached, err := s.relationRepo.DeleteTeam(team.ID)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}

	logging.LogEvent("team_deleted", map[string]interface{}{
		"team_id":           team.ID,
		"user_id":           userID,
		"projects_detached": detached,
	})
	return nil
}

// AddMember adds the user with the given email to the team; leader only
func (s *TeamService) AddMember(userID, teamID uint64, email string) (*models.Team, error) {
	team, err := s.authorize(userID, teamID, policy.ManageMembers, "Not authorized to add members to this team")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "user")
	}

	member, err := s.teamRepo.IsMember(team.ID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check team membership: %w", err)
	}
	if member {
		return nil, ErrAlreadyTeamMember
	}

	if err := s.relationRepo.LinkTeamMember(team.ID, user.ID); err != nil {
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}
	return s.load(team.ID)
}

// RemoveMember removes a member from the team; leader only
func (s *TeamService) RemoveMember(userID, teamID, memberID uint64) (*models.Team, error) {
	team, err := s.authorize(userID, teamID, policy.ManageMembers, "Not authorized to remove members from this team")
	if err != nil {
		return nil, err
	}

	member, err := s.teamRepo.IsMember(team.ID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check team membership: %w", err)
	}
	if !member {
		return nil, ErrNotTeamMember
	}
	if memberID == team.LeaderID {
		return nil, ErrCannotRemoveLeader
	}

	if err := s.relationRepo.UnlinkTeamMember(team.ID, memberID); err != nil {
		return nil, fmt.Errorf("failed to remove team member: %w", err)
	}
	return s.load(team.ID)
}

// authorize loads the team and checks the action, reporting a missing team before a denial
func (s *TeamService) authorize(userID, teamID uint64, action policy.Action, deny string) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		return nil, notFoundOr(err, ErrTeamNotFound, "team")
	}

	rel, err := s.rel.team(team, userID)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(policy.Team, action, rel); err != nil {
		if errors.Is(err, policy.ErrForbidden) {
			return nil, forbidden(deny)
		}
		return nil, err
	}
	return team, nil
}

func (s *TeamService) load(teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID, teamDetail...)
	if err != nil {
		return nil, notFoundOr(err, ErrTeamNotFound, "team")
	}
	return team, nil
}
