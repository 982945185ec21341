package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/badoux/checkmail"
	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/mohammed-tarek-rezk/Taskify/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNameEmpty           = newError(ErrValidation, "Name cannot be empty")
	ErrPasswordFieldsEmpty = newError(ErrValidation, "Please provide both current and new password")
)

// UserService handles profile and directory operations.
type UserService struct {
	userRepo    repository.UserRepository
	teamRepo    repository.TeamRepository
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
	projectRepo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		teamRepo:    teamRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// Profile is a user together with everything they take part in.
type Profile struct {
	User     *models.User
	Teams    []models.Team
	Projects []models.Project
	Tasks    []models.Task
}

// UpdateProfileInput holds the profile fields to change. Nil fields are left alone.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// Profile loads the user with their teams, projects and tasks.
func (s *UserService) Profile(userID uint64) (*Profile, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "user")
	}

	teams, err := s.teamRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	projects, _, err := s.projectRepo.List(repository.ProjectFilter{VisibleTo: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	tasks, _, err := s.taskRepo.List(repository.TaskFilter{VisibleTo: userID, InvolvedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return &Profile{
		User:     user,
		Teams:    teams,
		Projects: projects,
		Tasks:    tasks,
	}, nil
}

// UpdateProfile changes the user's name and email.
func (s *UserService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "user")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameEmpty
		}
		user.Name = name
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if err := checkmail.ValidateFormat(email); err != nil {
			return nil, ErrInvalidEmail
		}
		if email != user.Email {
			if _, err := s.userRepo.FindByEmail(email); err == nil {
				return nil, ErrEmailInUse
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("failed to check email: %w", err)
			}
			user.Email = email
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *UserService) ChangePassword(userID uint64, current, next string) error {
	if current == "" || next == "" {
		return ErrPasswordFieldsEmpty
	}
	if len(next) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return notFoundOr(err, ErrUserNotFound, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrWrongPassword
	}

	hashed, err := hashPassword(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// SetProfileImage records the public path of the user's uploaded image.
func (s *UserService) SetProfileImage(userID uint64, path string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "user")
	}

	user.ProfileImage = path
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update profile image: %w", err)
	}
	return user, nil
}

func (s *UserService) List() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) Get(userID uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound, "user")
	}
	return user, nil
}
