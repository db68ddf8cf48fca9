package review

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/logger"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("user has already reviewed this book")
	ErrNotReviewOwner  = errors.New("user is not the review owner")
	ErrDeleteForbidden = errors.New("user may not delete this review")
	ErrBookNotFound    = errors.New("book not found")
	ErrAlreadyLiked    = errors.New("review already liked")
	ErrNotLiked        = errors.New("review not liked")
)

var reviewErrorMap = map[error]struct {
	Status  int
	Message string
}{
	ErrReviewNotFound:  {http.StatusNotFound, "Review not found"},
	ErrAlreadyReviewed: {http.StatusConflict, "You have already reviewed this book. Please update your review instead."},
	ErrNotReviewOwner:  {http.StatusForbidden, "You are not allowed to perform this action"},
	ErrDeleteForbidden: {http.StatusForbidden, "Access denied. You must be the review author, an admin, or a moderator to delete this review."},
	ErrBookNotFound:    {http.StatusNotFound, "Book not found"},
	ErrAlreadyLiked:    {http.StatusConflict, "Review already liked"},
	ErrNotLiked:        {http.StatusNotFound, "Review not liked"},
}

// HandleReviewError maps domain errors to HTTP responses.
func HandleReviewError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if m, ok := reviewErrorMap[err]; ok {
		response.Error(c, m.Status, m.Message)
		return true
	}

	logger.Error("unhandled review error", err)
	response.Error(c, http.StatusInternalServerError, "Internal server error")
	return true
}
