package dto

import (
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
)

// UserDTO represents the authenticated user in API responses
type UserDTO struct {
	ID           uint64          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Role         models.UserRole `json:"role"`
	ProfileImage *string         `json:"profileImage"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// ProfileDTO is the caller's profile with everything they take part in
type ProfileDTO struct {
	UserDTO
	Teams    []TeamDTO        `json:"teams"`
	Projects []ProjectSummary `json:"projects"`
	Tasks    []TaskSummary    `json:"tasks"`
}

// DirectoryEntry is the public view of another user
type DirectoryEntry struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	if user.ProfileImage != "" {
		image := user.ProfileImage
		dto.ProfileImage = &image
	}
	return dto
}

func ToProfileDTO(user models.User, teams []models.Team, projects []models.Project, tasks []models.Task) ProfileDTO {
	profile := ProfileDTO{
		UserDTO:  ToUserDTO(user),
		Teams:    ToTeamDTOs(teams),
		Projects: make([]ProjectSummary, len(projects)),
		Tasks:    make([]TaskSummary, len(tasks)),
	}
	for i, p := range projects {
		profile.Projects[i] = ToProjectSummary(p)
	}
	for i, t := range tasks {
		profile.Tasks[i] = ToTaskSummary(t)
	}
	return profile
}

func ToDirectoryEntries(users []models.User) []DirectoryEntry {
	out := make([]DirectoryEntry, len(users))
	for i, u := range users {
		out[i] = DirectoryEntry{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out
}
