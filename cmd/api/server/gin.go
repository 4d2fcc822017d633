package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"user-search-service/cmd/api/di"
	ginrouter "user-search-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(c *di.Container, ginAddr string) *http.Server {
	timeout := time.Duration(c.Config.App.RequestTimeoutSeconds) * time.Second

	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(c.GinHandler, c.RateLimiter, c.Metrics, c.OpenAPI, timeout, c.Logger)

	c.Logger.Info("Gin REST API configured",
		zap.String("address", ginAddr),
		zap.String("swagger", "/swagger/index.html"),
	)

	return &http.Server{
		Addr:              ginAddr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      timeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
