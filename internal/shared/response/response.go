package response

import (
	"math"

	"github.com/gin-gonic/gin"
)

// Pagination is the envelope metadata every list endpoint returns.
type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

func NewPagination(total, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Success writes {message, ...extra} for mutation endpoints.
func Success(c *gin.Context, statusCode int, message string, extra gin.H) {
	body := gin.H{"message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// Data writes a raw payload, for read endpoints without pagination.
func Data(c *gin.Context, statusCode int, payload interface{}) {
	c.JSON(statusCode, payload)
}

// Paginated writes {data, pagination} for list endpoints.
func Paginated(c *gin.Context, data interface{}, total, page, limit int) {
	c.JSON(200, gin.H{
		"data":       data,
		"pagination": NewPagination(total, page, limit),
	})
}

// Error writes {message} with a non-2xx status.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// ErrorWithDetails writes {message, errors} for validation failures.
func ErrorWithDetails(c *gin.Context, statusCode int, message string, errors interface{}) {
	c.JSON(statusCode, gin.H{
		"message": message,
		"errors":  errors,
	})
}
