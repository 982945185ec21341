package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/dto"
	apierrors "github.com/mohammed-tarek-rezk/Taskify/internal/errors"
	"github.com/mohammed-tarek-rezk/Taskify/internal/middleware"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
)

var memberEmailMessages = map[string]string{"email": "Please provide the member's email"}

type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// ListTeams returns the teams the caller leads or belongs to
func (h *TeamHandler) ListTeams(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	teams, err := h.teamService.List(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamDTOs(teams))
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTeamRequest
	if !bindJSON(c, &req, map[string]string{"name": services.ErrTeamNameRequired.Error()}) {
		return
	}

	team, err := h.teamService.Create(services.CreateTeamInput{
		Name:        req.Name,
		Description: req.Description,
		LeaderID:    userID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	team, err := h.teamService.Get(userID, middleware.IDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if !bindJSON(c, &req, nil) {
		return
	}
	if req.Name.Cleared() {
		apierrors.BadRequest(c, services.ErrTeamNameRequired.Error())
		return
	}

	input := services.UpdateTeamInput{
		Name:        req.Name.Ptr(),
		Description: req.Description.Ptr(),
		Status:      req.Status.Ptr(),
	}
	if req.Description.Cleared() {
		empty := ""
		input.Description = &empty
	}

	team, err := h.teamService.Update(userID, middleware.IDParam(c, "id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// DeleteTeam removes the team and detaches its projects and members
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.teamService.Delete(userID, middleware.IDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Team removed"))
}

func (h *TeamHandler) AddMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.MemberRequest
	if !bindJSON(c, &req, memberEmailMessages) {
		return
	}

	team, err := h.teamService.AddMember(userID, middleware.IDParam(c, "id"), req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

func (h *TeamHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	team, err := h.teamService.RemoveMember(userID, middleware.IDParam(c, "id"), middleware.IDParam(c, "memberId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}
