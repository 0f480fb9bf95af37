package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"clientbook_backend/internal/database"
	"clientbook_backend/internal/router"
	"clientbook_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload" // loads .env into the process env before reads
)

func main() {
	utils.InitLogger()

	// Configuration from environment, with development defaults.
	dbPath := utils.Getenv("DB_PATH", "clientbook.db")
	port := utils.Getenv("PORT", "8080")
	jwtSecret := utils.Getenv("JWT_SECRET", "")
	authRequired, _ := strconv.ParseBool(utils.Getenv("AUTH_REQUIRED", "false"))

	utils.InitJWT(jwtSecret)

	db, err := database.Open(dbPath)
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	utils.LogInfo("Database initialized", map[string]interface{}{"path": dbPath})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, db, authRequired)

	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "auth_required": authRequired})
	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
