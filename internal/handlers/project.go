package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/dto"
	apierrors "github.com/mohammed-tarek-rezk/Taskify/internal/errors"
	"github.com/mohammed-tarek-rezk/Taskify/internal/middleware"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns the caller's projects, filtered and sorted by query parameters
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	query := listQuery(c)
	projects, total, err := h.projectService.List(userID, query)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	setTotalCount(c, query, total)
	c.JSON(http.StatusOK, dto.ToProjectDTOs(projects))
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !bindJSON(c, &req, map[string]string{"name": services.ErrProjectNameRequired.Error()}) {
		return
	}

	startDate, err := parseDateField(req.StartDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid start date")
		return
	}
	endDate, err := parseDateField(req.EndDate)
	if err != nil {
		apierrors.BadRequest(c, "Invalid end date")
		return
	}

	project, err := h.projectService.Create(services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.Team,
		LeaderID:    userID,
		Status:      req.Status,
		Priority:    req.Priority,
		StartDate:   startDate,
		EndDate:     endDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	project, err := h.projectService.Get(userID, middleware.IDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req, nil) {
		return
	}
	if req.Name.Cleared() {
		apierrors.BadRequest(c, services.ErrProjectNameRequired.Error())
		return
	}

	input := services.UpdateProjectInput{
		Name:         req.Name.Ptr(),
		Description:  req.Description.Ptr(),
		Status:       req.Status.Ptr(),
		Priority:     req.Priority.Ptr(),
		ClearEndDate: req.EndDate.Cleared(),
	}
	if req.Description.Cleared() {
		empty := ""
		input.Description = &empty
	}
	if raw := req.EndDate.Ptr(); raw != nil {
		var err error
		if *raw == "" {
			input.ClearEndDate = true
		} else if input.EndDate, err = parseDateField(raw); err != nil {
			apierrors.BadRequest(c, "Invalid end date")
			return
		}
	}

	project, err := h.projectService.Update(userID, middleware.IDParam(c, "id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes the project and everything hanging off it
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.projectService.Delete(userID, middleware.IDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, message("Project removed"))
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.MemberRequest
	if !bindJSON(c, &req, memberEmailMessages) {
		return
	}

	project, err := h.projectService.AddMember(userID, middleware.IDParam(c, "id"), req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	project, err := h.projectService.RemoveMember(userID, middleware.IDParam(c, "id"), middleware.IDParam(c, "memberId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}
