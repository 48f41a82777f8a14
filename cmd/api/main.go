package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/levenlabs/go-llog"

	"github.com/timeisseler/da-bess-v2/internal/api/handlers"
	"github.com/timeisseler/da-bess-v2/internal/api/middleware"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if err := llog.SetLevelFromString(lvl); err != nil {
			llog.Fatal("invalid LOG_LEVEL", llog.KV{"level": lvl, "err": err})
		}
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	optimizeHandler := handlers.NewOptimizeHandler()
	costsHandler := handlers.NewCostsHandler()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/optimize", optimizeHandler.RunOptimization)
		api.POST("/costs", costsHandler.ComputeCosts)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	llog.Info("starting API server", llog.KV{"addr": addr})
	if err := router.Run(addr); err != nil {
		llog.Fatal("server exited", llog.KV{"err": err})
	}
}
