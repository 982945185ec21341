package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
	"github.com/mohammed-tarek-rezk/Taskify/internal/dto"
	apierrors "github.com/mohammed-tarek-rezk/Taskify/internal/errors"
	"github.com/mohammed-tarek-rezk/Taskify/internal/middleware"
	"github.com/mohammed-tarek-rezk/Taskify/internal/services"
	"github.com/mohammed-tarek-rezk/Taskify/internal/utils"
)

var errInvalidDate = errors.New("invalid date")

// respondServiceError translates a service error into the API error taxonomy.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.InvalidCredentials(c, err.Error())
			return
		}
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUnavailable):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		_ = c.Error(err)
		apierrors.InternalErrorWithCause(c, "Server error", err)
	}
}

// currentUser returns the authenticated caller or answers 401.
func currentUser(c *gin.Context) (uint64, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authorized, no token")
	}
	return userID, ok
}

// parseDateField parses an optional request date. Nil or blank input yields nil.
func parseDateField(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, _, err := utils.ParseDate(*value)
	if err != nil {
		return nil, errInvalidDate
	}
	return &t, nil
}

// parseIndex reads a non-negative array index path parameter. Malformed values map
// to -1 so the service reports them as out of range.
func parseIndex(c *gin.Context, name string) int {
	index, err := strconv.Atoi(c.Param(name))
	if err != nil || index < 0 {
		return -1
	}
	return index
}

func listQuery(c *gin.Context) services.ListQuery {
	return services.ListQuery{
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		Project:    c.Query("project"),
		Team:       c.Query("team"),
		Leader:     c.Query("leader"),
		AssignedTo: c.Query("assignedTo"),
		CreatedBy:  c.Query("createdBy"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
		SortBy:     c.Query("sortBy"),
		SortOrder:  c.Query("sortOrder"),
		Pagination: utils.GetPaginationParams(c),
	}
}

// setTotalCount exposes the unpaginated total when the caller asked for a page.
func setTotalCount(c *gin.Context, query services.ListQuery, total int64) {
	if query.Pagination != nil {
		c.Header(constants.TotalCountHeaderName, strconv.FormatInt(total, 10))
	}
}

func message(text string) dto.MessageResponse {
	return dto.MessageResponse{Message: text}
}
