package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookreview-backend/internal/domains/social"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

type SocialHandler struct {
	service social.Service
}

func NewSocialHandler(service social.Service) *SocialHandler {
	return &SocialHandler{service: service}
}

// Follow handles POST /users/:id/follow
func (h *SocialHandler) Follow(c *gin.Context) {
	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	followerID, _ := middleware.UserIDFromContext(c)

	err := h.service.Follow(c.Request.Context(), followerID, targetID)
	if social.HandleSocialError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User followed successfully", nil)
}

// Unfollow handles DELETE /users/:id/follow
func (h *SocialHandler) Unfollow(c *gin.Context) {
	targetID, ok := parseUserID(c)
	if !ok {
		return
	}

	followerID, _ := middleware.UserIDFromContext(c)

	err := h.service.Unfollow(c.Request.Context(), followerID, targetID)
	if social.HandleSocialError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "User unfollowed successfully", nil)
}

// Followers handles GET /users/:id/followers
func (h *SocialHandler) Followers(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	page, limit := utils.ParsePagination(c, 20, 100)

	users, total, err := h.service.ListFollowers(c.Request.Context(), userID, page, limit)
	if social.HandleSocialError(c, err) {
		return
	}

	response.Paginated(c, users, total, page, limit)
}

// Following handles GET /users/:id/following
func (h *SocialHandler) Following(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	page, limit := utils.ParsePagination(c, 20, 100)

	users, total, err := h.service.ListFollowing(c.Request.Context(), userID, page, limit)
	if social.HandleSocialError(c, err) {
		return
	}

	response.Paginated(c, users, total, page, limit)
}

func parseUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}
