package approuters

import (
	"github.com/Rishu1724/TextMeIfYouCan/internal/configuration"
	"github.com/Rishu1724/TextMeIfYouCan/internal/middleware"

	"github.com/gin-gonic/gin"
)

func ConversationRouters(router *gin.Engine, container *configuration.Container) {
	convRoute := router.Group("/api/conversations")
	convRoute.Use(middleware.Authenticate(container.Identity, container.Logger))
	{
		convRoute.GET("", container.ConversationHandler.GetConversations)
		convRoute.POST("", container.ConversationHandler.CreateConversation)
		convRoute.GET("/:id", container.ConversationHandler.GetConversationByID)
		convRoute.DELETE("/:id", container.ConversationHandler.DeleteConversation)
	}
}
