package approuters

import (
	"github.com/Rishu1724/TextMeIfYouCan/internal/configuration"
	"github.com/Rishu1724/TextMeIfYouCan/internal/middleware"

	"github.com/gin-gonic/gin"
)

func UserRouters(router *gin.Engine, container *configuration.Container) {
	userRoute := router.Group("/api/users")
	userRoute.Use(middleware.Authenticate(container.Identity, container.Logger))
	{
		userRoute.GET("", container.UserHandler.GetAllUsers)
		userRoute.GET("/profile", container.UserHandler.GetProfile)
		userRoute.PUT("/profile", container.UserHandler.UpdateProfile)
		userRoute.POST("/search", container.UserHandler.SearchUsers)
		userRoute.GET("/:userId", container.UserHandler.GetUserByID)
	}
}
