package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookreview-backend/internal/domains/user"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// Me handles GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)

	u, err := h.service.GetUser(c.Request.Context(), userID)
	if user.HandleUserError(c, err) {
		return
	}

	response.Data(c, http.StatusOK, u)
}

// UpdateMe handles PUT /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	userID, _ := middleware.UserIDFromContext(c)

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Profile updated successfully", gin.H{"user": u})
}

// DeleteMe handles DELETE /users/me
func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)

	err := h.service.DeleteUser(c.Request.Context(), userID)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Account deleted successfully", nil)
}

// Profile handles GET /users/:id
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	currentUser, _ := middleware.UserIDFromContext(c)

	profile, err := h.service.GetPublicProfile(c.Request.Context(), userID, currentUser)
	if user.HandleUserError(c, err) {
		return
	}

	response.Data(c, http.StatusOK, profile)
}

// ReadingList handles GET /users/me/reading-list
func (h *UserHandler) ReadingList(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)
	page, limit := utils.ParsePagination(c, 10, 50)

	books, total, err := h.service.ListReadingList(c.Request.Context(), userID, page, limit)
	if user.HandleUserError(c, err) {
		return
	}

	response.Paginated(c, books, total, page, limit)
}

// UserReadingList handles GET /users/:id/reading-list
func (h *UserHandler) UserReadingList(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	page, limit := utils.ParsePagination(c, 10, 50)

	books, total, err := h.service.ListReadingList(c.Request.Context(), userID, page, limit)
	if user.HandleUserError(c, err) {
		return
	}

	response.Paginated(c, books, total, page, limit)
}

// AddToReadingList handles POST /users/me/reading-list/:externalId
func (h *UserHandler) AddToReadingList(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)

	err := h.service.AddToReadingList(c.Request.Context(), userID, c.Param("externalId"))
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Book added to reading list", nil)
}

// RemoveFromReadingList handles DELETE /users/me/reading-list/:externalId
func (h *UserHandler) RemoveFromReadingList(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)

	err := h.service.RemoveFromReadingList(c.Request.Context(), userID, c.Param("externalId"))
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Book removed from reading list", nil)
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}
