package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/mohammed-tarek-rezk/Taskify/internal/repository"
	"github.com/mohammed-tarek-rezk/Taskify/internal/utils"
)

// ListQuery is the raw query string of a list endpoint. Empty or unrecognized
// filter values are ignored; only the sort keys are validated.
type ListQuery struct {
	Search     string
	Status     string
	Priority   string
	Project    string
	Team       string
	Leader     string
	AssignedTo string
	CreatedBy  string
	StartDate  string
	EndDate    string
	SortBy     string
	SortOrder  string
	Pagination *utils.PaginationParams
}

func parseIDParam(value string) *uint64 {
	id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	return &id
}

func parseEnum[T ~string](value string, valid func(T) bool) *T {
	v := T(value)
	if value == "" || !valid(v) {
		return nil
	}
	return &v
}

// parseDateRange reads an inclusive UTC range. A date-only upper bound covers the whole day.
func parseDateRange(from, to string) (start, end *time.Time) {
	if t, _, err := utils.ParseDate(strings.TrimSpace(from)); err == nil {
		start = &t
	}
	if t, dateOnly, err := utils.ParseDate(strings.TrimSpace(to)); err == nil {
		if dateOnly {
			t = utils.EndOfDay(t)
		}
		end = &t
	}
	return start, end
}

func parseSort(sortBy, sortOrder string, known func(string) bool, defaultOrder repository.SortOrder) (string, repository.SortOrder, error) {
	if sortBy != "" && !known(sortBy) {
		return "", "", validationf("Invalid sortBy value: %s", sortBy)
	}

	order := defaultOrder
	if sortOrder != "" {
		order = repository.SortOrder(strings.ToLower(sortOrder))
		if !order.Valid() {
			return "", "", validationf("Invalid sortOrder value: %s", sortOrder)
		}
	}
	return sortBy, order, nil
}
