package router

import (
	"database/sql"

	"clientbook_backend/internal/handlers"
	"clientbook_backend/internal/middleware"
	"clientbook_backend/internal/repositories"
	"clientbook_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers onto the engine.
// When authRequired is true the client routes sit behind the JWT
// middleware; by default they are public.
func Setup(engine *gin.Engine, db *sql.DB, authRequired bool) {
	// Repositories
	clientRepo := repositories.NewClientRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// Services
	clientService := services.NewClientService(clientRepo, db)
	authService := services.NewAuthService(userRepo, db)

	// Handlers
	clientHandler := handlers.NewClientHandler(clientService)
	authHandler := handlers.NewAuthHandler(authService)

	apiV1 := engine.Group("/api/v1")

	SetupAuthRoutes(apiV1, authHandler)

	clientGroup := apiV1.Group("")
	if authRequired {
		clientGroup.Use(middleware.AuthMiddleware())
	}
	SetupClientRoutes(clientGroup, clientHandler)
}
