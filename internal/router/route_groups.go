package router

import (
	"clientbook_backend/internal/handlers"
	"clientbook_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupClientRoutes sets up the client record routes.
// The static /clients/stats segment is registered alongside /clients/:id;
// gin resolves the static path with priority.
func SetupClientRoutes(group *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := group.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/stats", clientHandler.GetClientStats)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
	}
}

// SetupAuthRoutes sets up the authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.RegisterUser)
		authRoutes.POST("/login", authHandler.LoginUser)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware())
		{
			authRequiredRoutes.GET("/me", authHandler.GetCurrentUser)
		}
	}
}
