package server

import (
	grpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"user-search-service/cmd/api/di"
	grpcadapter "user-search-service/internal/adapter/grpc"
	"user-search-service/pkg/logger"
)

// SetupGRPC creates and configures the gRPC server
func SetupGRPC(c *di.Container) *grpc.Server {
	// Create gRPC server with request ID and rate limit interceptors
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			c.RateLimiter.UnaryInterceptor(),
		),
	)
	grpcadapter.RegisterUserSearchServer(grpcServer, c.GRPCService)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return grpcServer
}
