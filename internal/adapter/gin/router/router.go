package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"user-search-service/internal/adapter/gin/handler"
	"user-search-service/internal/adapter/gin/middleware"
	grpcmiddleware "user-search-service/internal/adapter/grpc/middleware"
	"user-search-service/internal/observability"
	"user-search-service/pkg/logger"
)

// searchPaths serve the same listing. /index.php keeps old clients working.
var searchPaths = []string{"/api/users", "/index.php"}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter *grpcmiddleware.RateLimiter,
	metrics *observability.Metrics,
	openapiJSON []byte,
	requestTimeout time.Duration,
	log *zap.Logger,
) *gin.Engine {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestIDMiddleware())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.Logger(log))
	router.Use(metrics.Middleware())
	router.Use(middleware.Timeout(requestTimeout))

	router.NoMethod(userHandler.MethodNotAllowed)

	// Operational endpoints
	router.GET("/health", userHandler.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openapiJSON)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/openapi.json"))))

	// Search routes
	limited := router.Group("", middleware.RateLimiter(rateLimiter, log))
	for _, path := range searchPaths {
		limited.GET(path, userHandler.SearchUsers)
		limited.OPTIONS(path, userHandler.Preflight)
	}

	return router
}
