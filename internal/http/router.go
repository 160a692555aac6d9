package http

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(handler *Handler) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable.
	// Default to allow all origins if not specified.
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.POST("/prayer-times", handler.PostPrayerTimes)

	qibla := v1.Group("/qibla")
	qibla.GET("", handler.GetQibla)
	qibla.POST("", handler.PostQibla)
	qibla.GET("/detailed", handler.GetQiblaDetailed)

	v1.GET("/methods", handler.GetMethods)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}
