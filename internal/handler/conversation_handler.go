package handler

import (
	"net/http"

	"github.com/Rishu1724/TextMeIfYouCan/internal/middleware"
	"github.com/Rishu1724/TextMeIfYouCan/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ConversationHandler interface {
	GetConversations(c *gin.Context)
	GetConversationByID(c *gin.Context)
	CreateConversation(c *gin.Context)
	DeleteConversation(c *gin.Context)
}

type conversationHandler struct {
	chat   service.ChatService
	logger *zap.Logger
}

func NewConversationHandler(chat service.ChatService, logger *zap.Logger) ConversationHandler {
	return &conversationHandler{
		chat:   chat,
		logger: logger,
	}
}

func (h *conversationHandler) GetConversations(c *gin.Context) {
	convs, err := h.chat.GetConversations(c.Request.Context(), middleware.UID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (h *conversationHandler) GetConversationByID(c *gin.Context) {
	conv, err := h.chat.GetConversation(c.Request.Context(), middleware.UID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversation": conv})
}

type createConversationRequest struct {
	Participants []string `json:"participants" binding:"required"`
	Type         string   `json:"type"`
}

func (h *conversationHandler) CreateConversation(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Participants are required"})
		return
	}

	conv, existed, err := h.chat.CreateConversation(c.Request.Context(), middleware.UID(c), req.Participants, req.Type)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if existed {
		c.JSON(http.StatusOK, gin.H{
			"message":      "Conversation already exists",
			"conversation": conv,
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":      "Conversation created successfully",
		"conversation": conv,
	})
}

func (h *conversationHandler) DeleteConversation(c *gin.Context) {
	err := h.chat.DeleteConversation(c.Request.Context(), middleware.UID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}
