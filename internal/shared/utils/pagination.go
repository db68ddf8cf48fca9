package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParsePagination reads page/limit query params with clamping.
func ParsePagination(c *gin.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit
}

// AllowSort restricts a requested sort field to an allow-list.
// Anything not on the list silently falls back to the first entry.
func AllowSort(requested string, allowed ...string) string {
	for _, field := range allowed {
		if requested == field {
			return requested
		}
	}
	return allowed[0]
}

// SortDirection normalizes a direction param to "ASC" or "DESC".
func SortDirection(direction string) string {
	if direction == "asc" {
		return "ASC"
	}
	return "DESC"
}
