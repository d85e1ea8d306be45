package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-record-service/internal/adapter/gin/handler"
	"user-record-service/internal/adapter/gin/middleware"
	"user-record-service/pkg/ratelimit"
)

// SetupRouter configures and returns a Gin router with all routes and middleware.
// limiter may be nil, which disables rate limiting.
func SetupRouter(
	userHandler *handler.UserHandler,
	healthHandler *handler.HealthHandler,
	limiter *ratelimit.Limiter,
	requestTimeout time.Duration,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.Timeout(requestTimeout))
	router.Use(middleware.RateLimiter(limiter, log))

	router.GET("/health", healthHandler.Check)

	users := router.Group("/user")
	{
		users.GET("", userHandler.ListUsers)
		users.POST("", userHandler.CreateUser)
		users.GET("/:id", userHandler.GetUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	return router
}
