package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"studyboard/internal/app"
	"studyboard/internal/transport/http/middleware"
	"studyboard/internal/transport/http/response"
)

type AuthHandler struct {
	authService *app.AuthService
	logger      *slog.Logger
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=80"`
	Email    string `json:"email" binding:"required,max=120"`
	Password string `json:"password" binding:"required,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=80"`
	Password string `json:"password" binding:"required,max=128"`
}

type UpdateProfileRequest struct {
	Email *string `json:"email" binding:"omitempty,max=120"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required,max=128"`
	NewPassword     string `json:"new_password" binding:"required,max=128"`
}

func NewAuthHandler(authService *app.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "username, email, and password are required")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.logger, err, "registration failed")
		return
	}

	response.Created(c, gin.H{
		"token": result.Token,
		"user":  newProfileView(result.User),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "username and password are required")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), app.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(c, h.logger, err, "login failed")
		return
	}

	response.OK(c, gin.H{
		"token": result.Token,
		"user":  newProfileView(result.User),
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	response.OK(c, newProfileView(middleware.CurrentUser(c)))
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		invalidPayload(c)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), app.UpdateProfileInput{
		Email: req.Email,
	})
	if err != nil {
		writeError(c, h.logger, err, "failed to update profile")
		return
	}
	response.OK(c, newProfileView(user))
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "current password and new password are required")
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), app.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		writeError(c, h.logger, err, "failed to change password")
		return
	}
	response.OK(c, gin.H{"message": "password changed successfully"})
}

// Logout has nothing to revoke; the client drops the token.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.OK(c, gin.H{"message": "logout successful"})
}
