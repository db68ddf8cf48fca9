package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/domains/book"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

type BookHandler struct {
	service book.Service
}

func NewBookHandler(service book.Service) *BookHandler {
	return &BookHandler{service: service}
}

// Search handles GET /books/search?q=&page=&limit=
func (h *BookHandler) Search(c *gin.Context) {
	query := c.Query("q")
	page, limit := utils.ParsePagination(c, 10, 50)

	items, err := h.service.SearchBooks(c.Request.Context(), query, page, limit)
	if book.HandleBookError(c, err) {
		return
	}

	// Pagination metadata is derived from the merged page length, not a
	// combined source count. Known approximation, kept on purpose.
	response.Paginated(c, items, len(items), page, limit)
}

// Get handles GET /books/:externalId
func (h *BookHandler) Get(c *gin.Context) {
	currentUser, _ := middleware.UserIDFromContext(c)

	detail, err := h.service.GetBook(c.Request.Context(), c.Param("externalId"), currentUser)
	if book.HandleBookError(c, err) {
		return
	}

	response.Data(c, http.StatusOK, detail)
}

// List handles GET /books
func (h *BookHandler) List(c *gin.Context) {
	page, limit := utils.ParsePagination(c, 10, 50)
	sort := c.DefaultQuery("sort", "title")
	direction := c.DefaultQuery("direction", "asc")

	books, total, err := h.service.ListBooks(c.Request.Context(), page, limit, sort, direction)
	if book.HandleBookError(c, err) {
		return
	}

	response.Paginated(c, books, total, page, limit)
}

// Import handles POST /books/open-library/:key
func (h *BookHandler) Import(c *gin.Context) {
	b, err := h.service.ImportFromProvider(c.Request.Context(), c.Param("key"))
	if book.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Book added successfully", gin.H{"book": b})
}

// AuthorDetails handles GET /books/author/:name
func (h *BookHandler) AuthorDetails(c *gin.Context) {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil {
		name = c.Param("name")
	}

	details, err := h.service.AuthorDetails(c.Request.Context(), name)
	if book.HandleBookError(c, err) {
		return
	}

	response.Data(c, http.StatusOK, details)
}
