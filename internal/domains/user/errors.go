package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/logger"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyExists  = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrUserBanned          = errors.New("user account is banned")

	ErrAlreadyAdmin  = errors.New("user is already an admin")
	ErrNotAdmin      = errors.New("user is not an admin")
	ErrAlreadyBanned = errors.New("user is already banned")
	ErrNotBanned     = errors.New("user is not banned")

	ErrBookNotFound      = errors.New("book not found")
	ErrBookAlreadyInList = errors.New("book already in reading list")
	ErrBookNotInList     = errors.New("book not in reading list")
)

var userErrorMap = map[error]struct {
	Status  int
	Message string
}{
	ErrUserNotFound:        {http.StatusNotFound, "User not found"},
	ErrEmailAlreadyExists:  {http.StatusConflict, "An account with this email already exists"},
	ErrInvalidCredentials:  {http.StatusUnauthorized, "Invalid email or password"},
	ErrInvalidRefreshToken: {http.StatusUnauthorized, "Invalid refresh token"},
	ErrUserBanned:          {http.StatusForbidden, "This account has been banned"},
	ErrAlreadyAdmin:        {http.StatusBadRequest, "User is already an admin"},
	ErrNotAdmin:            {http.StatusBadRequest, "User is not an admin"},
	ErrAlreadyBanned:       {http.StatusBadRequest, "User is already banned"},
	ErrNotBanned:           {http.StatusBadRequest, "User is not banned"},
	ErrBookNotFound:        {http.StatusNotFound, "Book not found"},
	ErrBookAlreadyInList:   {http.StatusConflict, "Book is already in your reading list"},
	ErrBookNotInList:       {http.StatusNotFound, "Book is not in your reading list"},
}

// HandleUserError maps domain errors to HTTP responses.
func HandleUserError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if m, ok := userErrorMap[err]; ok {
		response.Error(c, m.Status, m.Message)
		return true
	}

	logger.Error("unhandled user error", err)
	response.Error(c, http.StatusInternalServerError, "Internal server error")
	return true
}
