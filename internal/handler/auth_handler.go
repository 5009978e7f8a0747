package handler

import (
	"net/http"

	"github.com/Rishu1724/TextMeIfYouCan/internal/middleware"
	"github.com/Rishu1724/TextMeIfYouCan/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
}

type authHandler struct {
	users  service.UserService
	logger *zap.Logger
}

func NewAuthHandler(users service.UserService, logger *zap.Logger) AuthHandler {
	return &authHandler{
		users:  users,
		logger: logger,
	}
}

func (h *authHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and username are required"})
		return
	}

	user, token, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

type loginRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *authHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}

	user, token, err := h.users.LoginByEmail(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

func (h *authHandler) Logout(c *gin.Context) {
	if err := h.users.Logout(c.Request.Context(), middleware.UID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}
