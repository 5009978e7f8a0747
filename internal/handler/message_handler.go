package handler

import (
	"net/http"
	"strconv"

	"github.com/Rishu1724/TextMeIfYouCan/internal/middleware"
	"github.com/Rishu1724/TextMeIfYouCan/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MessageHandler interface {
	GetMessages(c *gin.Context)
	SendMessage(c *gin.Context)
	EditMessage(c *gin.Context)
	DeleteMessage(c *gin.Context)
	MarkRead(c *gin.Context)
	MarkDelivered(c *gin.Context)
}

type messageHandler struct {
	chat   service.ChatService
	logger *zap.Logger
}

func NewMessageHandler(chat service.ChatService, logger *zap.Logger) MessageHandler {
	return &messageHandler{
		chat:   chat,
		logger: logger,
	}
}

func (h *messageHandler) GetMessages(c *gin.Context) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid page number"})
		return
	}

	result, err := h.chat.GetMessages(c.Request.Context(), middleware.UID(c), c.Param("conversationId"), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"messages":   result.Data,
		"total":      result.Total,
		"page":       result.Page,
		"totalPages": result.TotalPages,
	})
}

func (h *messageHandler) SendMessage(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "conversationId is required"})
		return
	}

	msg, err := h.chat.SendMessage(c.Request.Context(), middleware.UID(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Message sent successfully",
		"messageData": msg,
	})
}

type editMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *messageHandler) EditMessage(c *gin.Context) {
	var req editMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "text is required"})
		return
	}

	msg, err := h.chat.EditMessage(c.Request.Context(), middleware.UID(c), c.Param("messageId"), req.Text)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Message updated successfully",
		"messageData": msg,
	})
}

func (h *messageHandler) DeleteMessage(c *gin.Context) {
	msg, err := h.chat.DeleteMessage(c.Request.Context(), middleware.UID(c), c.Param("messageId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Message deleted successfully",
		"messageData": msg,
	})
}

func (h *messageHandler) MarkRead(c *gin.Context) {
	msg, err := h.chat.MarkMessageRead(c.Request.Context(), middleware.UID(c), c.Param("messageId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Message marked as read",
		"messageData": msg,
	})
}

func (h *messageHandler) MarkDelivered(c *gin.Context) {
	msg, err := h.chat.MarkMessageDelivered(c.Request.Context(), middleware.UID(c), c.Param("messageId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Message marked as delivered",
		"messageData": msg,
	})
}
