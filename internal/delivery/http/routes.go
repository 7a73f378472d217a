package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recoai/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	router.GET("/", handler.Root)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireDB := DatabaseMiddleware(handler.db)
	protect := AuthMiddleware(handler.auth)

	api := router.Group("/api", requireDB)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", handler.Login)
		}

		products := api.Group("/products")
		{
			products.GET("", handler.ListProducts)
			products.POST("", protect, handler.CreateProduct)
		}

		recs := api.Group("/recommendations", protect)
		{
			recs.POST("", handler.Recommend)
			recs.GET("/history", handler.History)
			recs.GET("/:id", handler.GetRecommendation)
		}
	}

	router.NoRoute(handler.NotFound)

	return router
}
