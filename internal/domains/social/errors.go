package social

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/logger"
)

var (
	ErrCannotFollowSelf = errors.New("users cannot follow themselves")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserBanned       = errors.New("target user is banned")
)

var socialErrorMap = map[error]struct {
	Status  int
	Message string
}{
	ErrCannotFollowSelf: {http.StatusBadRequest, "You cannot follow yourself"},
	ErrUserNotFound:     {http.StatusNotFound, "User not found"},
	ErrUserBanned:       {http.StatusConflict, "This user cannot be followed"},
}

// HandleSocialError maps domain errors to HTTP responses.
func HandleSocialError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if m, ok := socialErrorMap[err]; ok {
		response.Error(c, m.Status, m.Message)
		return true
	}

	logger.Error("unhandled social error", err)
	response.Error(c, http.StatusInternalServerError, "Internal server error")
	return true
}
