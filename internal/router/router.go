package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"imageforge/internal/config"
	"imageforge/internal/database"
	"imageforge/internal/handlers"
	"imageforge/internal/imagesvc"
	"imageforge/internal/middleware"
)

// Setup creates and configures the Gin router wiring the image lifecycle
// engine's two HTTP entry points plus a health check.
func Setup(db *database.DB, svc *imagesvc.Service) *gin.Engine {
	uploadHandler := handlers.NewUploadHandler(svc)
	serveHandler := handlers.NewServeHandler(svc)

	router := setupBaseRouter()

	router.GET("/health", healthCheck(db))
	router.GET("/", handlers.Index)

	api := router.Group("/api")
	{
		api.POST("/upload", uploadHandler.Upload)
		api.GET("/:identifier", serveHandler.Serve)
	}

	return router
}

func setupBaseRouter() *gin.Engine {
	router := gin.New()

	router.Use(otelgin.Middleware("imageforge"))
	router.Use(middleware.Observability())
	router.Use(middleware.SecurityHeaders())

	// In production, set this to the specific IP ranges of your load
	// balancers or reverse proxies. nil means no proxy headers are trusted,
	// preventing IP spoofing if not behind a configured proxy.
	router.SetTrustedProxies(nil)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = config.GetAllowedOrigins()
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Authorization",
		"Accept",
		"User-Agent",
		"Cache-Control",
		"Pragma",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "HEAD", "OPTIONS",
	}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	return router
}

func healthCheck(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"database":  "postgresql",
				"timestamp": time.Now().Unix(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"version":   "1.0",
			"database":  "postgresql",
			"timestamp": time.Now().Unix(),
		})
	}
}
