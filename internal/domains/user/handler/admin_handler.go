package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/domains/user"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

type AdminHandler struct {
	service user.Service
}

func NewAdminHandler(service user.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := utils.ParsePagination(c, 20, 100)

	users, total, err := h.service.ListUsers(c.Request.Context(), c.Query("search"), page, limit)
	if user.HandleUserError(c, err) {
		return
	}

	response.Paginated(c, users, total, page, limit)
}

// GetUser handles GET /admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	u, err := h.service.GetUser(c.Request.Context(), userID)
	if user.HandleUserError(c, err) {
		return
	}

	response.Data(c, http.StatusOK, u)
}

// UpdateUser handles PUT /admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User updated successfully", gin.H{"user": u})
}

// Promote handles POST /admin/users/:id/promote
func (h *AdminHandler) Promote(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	u, err := h.service.PromoteToAdmin(c.Request.Context(), userID)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User promoted to admin", gin.H{"user": u})
}

// Demote handles POST /admin/users/:id/demote
func (h *AdminHandler) Demote(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	u, err := h.service.DemoteFromAdmin(c.Request.Context(), userID)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User demoted from admin", gin.H{"user": u})
}

// Ban handles POST /admin/users/:id/ban
func (h *AdminHandler) Ban(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	u, err := h.service.BanUser(c.Request.Context(), userID)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User banned", gin.H{"user": u})
}

// Unban handles POST /admin/users/:id/unban
func (h *AdminHandler) Unban(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	u, err := h.service.UnbanUser(c.Request.Context(), userID)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User unbanned", gin.H{"user": u})
}

// Delete handles DELETE /admin/users/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	err := h.service.DeleteUser(c.Request.Context(), userID)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User deleted", nil)
}
