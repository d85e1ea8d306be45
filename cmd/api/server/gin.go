package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ginhandler "user-record-service/internal/adapter/gin/handler"
	ginrouter "user-record-service/internal/adapter/gin/router"
	"user-record-service/pkg/ratelimit"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	handler *ginhandler.UserHandler,
	health *ginhandler.HealthHandler,
	limiter *ratelimit.Limiter,
	requestTimeout time.Duration,
	ginAddr string,
	l *zap.Logger,
) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := ginrouter.SetupRouter(handler, health, limiter, requestTimeout, l)

	l.Info("Gin REST API configured",
		zap.String("address", ginAddr),
		zap.Duration("request_timeout", requestTimeout),
		zap.Bool("rate_limit", limiter != nil),
	)

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
