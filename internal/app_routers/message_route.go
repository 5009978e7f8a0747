package approuters

import (
	"github.com/Rishu1724/TextMeIfYouCan/internal/configuration"
	"github.com/Rishu1724/TextMeIfYouCan/internal/middleware"

	"github.com/gin-gonic/gin"
)

func MessageRouters(router *gin.Engine, container *configuration.Container) {
	msgRoute := router.Group("/api/messages")
	msgRoute.Use(middleware.Authenticate(container.Identity, container.Logger))
	{
		msgRoute.GET("/:conversationId", container.MessageHandler.GetMessages)
		msgRoute.POST("", container.MessageHandler.SendMessage)
		msgRoute.PUT("/:messageId", container.MessageHandler.EditMessage)
		msgRoute.DELETE("/:messageId", container.MessageHandler.DeleteMessage)
		msgRoute.PUT("/:messageId/read", container.MessageHandler.MarkRead)
		msgRoute.PUT("/:messageId/delivered", container.MessageHandler.MarkDelivered)
	}
}
