package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/domains/user"
	"bookreview-backend/internal/shared/response"
)

type AuthHandler struct {
	service user.Service
}

func NewAuthHandler(service user.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	u, tokens, err := h.service.Register(c.Request.Context(), &req)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Account created successfully", gin.H{
		"user":   u,
		"tokens": tokens,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	u, tokens, err := h.service.Login(c.Request.Context(), &req)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Login successful", gin.H{
		"user":   u,
		"tokens": tokens,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req user.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if user.HandleUserError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Token refreshed", gin.H{"tokens": tokens})
}
