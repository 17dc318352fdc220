package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wis2kit/downloader/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"service":    "wis2-downloader",
			"queue_size": deps.Queue.Size(),
		})
	})

	subscriptionHandler := handler.NewSubscriptionHandler(deps)
	downloadHandler := handler.NewDownloadHandler(deps)

	// Subscription control plane; all three operations take the topic
	// as a ?topic= query parameter
	wis2 := r.Group("/wis2/subscriptions")
	{
		wis2.GET("/list", subscriptionHandler.List)
		wis2.GET("/add", subscriptionHandler.Add)
		wis2.GET("/delete", subscriptionHandler.Delete)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// GET /api/v1/downloads - list download history
		v1.GET("/downloads", downloadHandler.List)
	}

	return r
}
