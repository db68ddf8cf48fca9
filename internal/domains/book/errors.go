package book

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/logger"
)

var (
	ErrMissingQuery      = errors.New("missing search query")
	ErrBookNotFound      = errors.New("book not found")
	ErrBookAlreadyExists = errors.New("book already exists in the database")
	ErrProviderNotFound  = errors.New("book not found in open library")
	ErrAuthorNotFound    = errors.New("author not found")
)

var bookErrorMap = map[error]struct {
	Status  int
	Message string
}{
	ErrMissingQuery:      {http.StatusBadRequest, "Missing search query"},
	ErrBookNotFound:      {http.StatusNotFound, "Book not found"},
	ErrBookAlreadyExists: {http.StatusConflict, "Book already exists in the database"},
	ErrProviderNotFound:  {http.StatusNotFound, "Book not found in Open Library"},
	ErrAuthorNotFound:    {http.StatusNotFound, "Author not found"},
}

// HandleBookError maps domain errors to HTTP responses.
// Returns true when err was handled.
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	if m, ok := bookErrorMap[err]; ok {
		response.Error(c, m.Status, m.Message)
		return true
	}

	logger.Error("unhandled book error", err)
	response.Error(c, http.StatusInternalServerError, "Internal server error")
	return true
}
