package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/dto"
	apierrors "github.com/mohammed-tarek-rezk/Taskify/internal/errors"
	"github.com/mohammed-tarek-rezk/Taskify/internal/middleware"
	"github.com/mohammed-tarek-rezk/Taskify/internal/models"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
)

// UserHandler serves the caller's profile and the user directory.
type UserHandler struct {
	userService   *services.UserService
	uploadService *services.UploadService
}

func NewUserHandler(userService *services.UserService, uploadService *services.UploadService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		uploadService: uploadService,
	}
}

// GetProfile returns the caller together with their teams, projects and tasks.
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.userService.Profile(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProfileDTO(*profile.User, profile.Teams, profile.Projects, profile.Tasks))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req, nil) {
		return
	}
	if req.Name.Cleared() {
		apierrors.BadRequest(c, services.ErrNameEmpty.Error())
		return
	}
	if req.Email.Cleared() {
		apierrors.BadRequest(c, services.ErrInvalidEmail.Error())
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.UpdateProfileInput{
		Name:  req.Name.Ptr(),
		Email: req.Email.Ptr(),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req, nil) {
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Password updated successfully"))
}

// UploadProfileImage stores the multipart "profileImage" file and points the profile at it.
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	// A missing part is reported by StoreProfileImage as a validation error.
	fh, _ := c.FormFile("profileImage")
	imagePath, err := h.uploadService.StoreProfileImage(fh)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	user, err := h.userService.SetProfileImage(userID, imagePath)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Profile image updated successfully",
		"profileImage": user.ProfileImage,
	})
}

// ListUsers returns every user's public name and email.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDirectoryEntries(users))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(middleware.IDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDirectoryEntries([]models.User{*user})[0])
}
