package approuters

import (
	"github.com/Rishu1724/TextMeIfYouCan/internal/configuration"
	"github.com/Rishu1724/TextMeIfYouCan/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRouters(router *gin.Engine, container *configuration.Container) {
	authRoute := router.Group("/api/auth")
	{
		authRoute.POST("/register", container.AuthHandler.Register)
		authRoute.POST("/login", container.AuthHandler.Login)
		authRoute.POST("/logout",
			middleware.Authenticate(container.Identity, container.Logger),
			container.AuthHandler.Logout)
	}
}
