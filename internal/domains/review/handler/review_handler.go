package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review"
	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
)

type ReviewHandler struct {
	service review.Service
}

func NewReviewHandler(service review.Service) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create handles POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req review.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	detail, err := h.service.CreateReview(c.Request.Context(), userID, &req)
	if review.HandleReviewError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Review created successfully", gin.H{"review": detail})
}

// Update handles PUT /reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID, ok := parseReviewID(c)
	if !ok {
		return
	}

	var req review.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	userID, _ := middleware.UserIDFromContext(c)

	detail, err := h.service.UpdateReview(c.Request.Context(), reviewID, userID, &req)
	if review.HandleReviewError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Review updated successfully", gin.H{"review": detail})
}

// Delete handles DELETE /reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, ok := parseReviewID(c)
	if !ok {
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	roles := middleware.RolesFromContext(c)

	err := h.service.DeleteReview(c.Request.Context(), reviewID, userID, roles)
	if review.HandleReviewError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Review deleted successfully", nil)
}

// Get handles GET /reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, ok := parseReviewID(c)
	if !ok {
		return
	}

	currentUser, _ := middleware.UserIDFromContext(c)

	detail, err := h.service.GetReview(c.Request.Context(), reviewID, currentUser)
	if review.HandleReviewError(c, err) {
		return
	}

	response.Data(c, http.StatusOK, detail)
}

// List handles GET /reviews
func (h *ReviewHandler) List(c *gin.Context) {
	q := listQuery(c)
	currentUser, _ := middleware.UserIDFromContext(c)

	details, total, err := h.service.ListReviews(c.Request.Context(), currentUser, q)
	if review.HandleReviewError(c, err) {
		return
	}

	response.Paginated(c, details, total, q.Page, q.Limit)
}

// ListByBook handles GET /books/:externalId/reviews
func (h *ReviewHandler) ListByBook(c *gin.Context) {
	q := listQuery(c)
	currentUser, _ := middleware.UserIDFromContext(c)

	details, total, err := h.service.ListBookReviews(c.Request.Context(), c.Param("externalId"), currentUser, q)
	if review.HandleReviewError(c, err) {
		return
	}

	response.Paginated(c, details, total, q.Page, q.Limit)
}

// ListByUser handles GET /users/:id/reviews
func (h *ReviewHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	page, limit := utils.ParsePagination(c, 10, 50)
	currentUser, _ := middleware.UserIDFromContext(c)

	details, total, svcErr := h.service.ListUserReviews(c.Request.Context(), userID, currentUser, page, limit)
	if review.HandleReviewError(c, svcErr) {
		return
	}

	response.Paginated(c, details, total, page, limit)
}

// Like handles POST /reviews/:id/like
func (h *ReviewHandler) Like(c *gin.Context) {
	h.likeOp(c, h.service.LikeReview)
}

// Unlike handles DELETE /reviews/:id/like
func (h *ReviewHandler) Unlike(c *gin.Context) {
	h.likeOp(c, h.service.UnlikeReview)
}

// ToggleLike handles POST /reviews/:id/toggle-like
func (h *ReviewHandler) ToggleLike(c *gin.Context) {
	h.likeOp(c, h.service.ToggleLike)
}

func (h *ReviewHandler) likeOp(c *gin.Context, op func(ctx context.Context, reviewID, userID uuid.UUID) (*review.LikeState, error)) {
	reviewID, ok := parseReviewID(c)
	if !ok {
		return
	}

	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	state, err := op(c.Request.Context(), reviewID, userID)
	if review.HandleReviewError(c, err) {
		return
	}

	response.Data(c, http.StatusOK, state)
}

func listQuery(c *gin.Context) *review.ListQuery {
	page, limit := utils.ParsePagination(c, 10, 50)
	return &review.ListQuery{
		Search:    c.Query("search"),
		Sort:      c.DefaultQuery("sort", "createdAt"),
		Direction: c.DefaultQuery("direction", "desc"),
		Page:      page,
		Limit:     limit,
	}
}

func parseReviewID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid review ID")
		return uuid.Nil, false
	}
	return id, true
}
