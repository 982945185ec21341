package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mohammed-tarek-rezk/Taskify/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// GetPaginationParams extracts pagination parameters from the request.
// It returns nil when neither page nor limit is present so lists stay unbounded by default.
func GetPaginationParams(c *gin.Context) *PaginationParams {
	pageStr, limitStr := c.Query("page"), c.Query("limit")
	if pageStr == "" && limitStr == "" {
		return nil
	}
	return NewPaginationParams(pageStr, limitStr)
}

// NewPaginationParams clamps raw page/limit values into a usable window.
func NewPaginationParams(pageStr, limitStr string) *PaginationParams {
	page, _ := strconv.Atoi(pageStr)
	limit, _ := strconv.Atoi(limitStr)

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return &PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
