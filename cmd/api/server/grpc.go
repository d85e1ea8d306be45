package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"

	grpcadapter "user-record-service/internal/adapter/grpc"
	"user-record-service/internal/adapter/grpc/middleware"
	"user-record-service/internal/usecase/user"
	"user-record-service/pkg/logger"
	"user-record-service/pkg/ratelimit"
)

// SetupGRPC creates and configures the gRPC server
func SetupGRPC(userUC user.Usecase, limiter *ratelimit.Limiter, l *zap.Logger) *grpc.Server {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RequestIDInterceptor(),
			middleware.LoggingInterceptor(l),
			middleware.NewRateLimiter(limiter, l).UnaryInterceptor(),
		),
	)
	grpcadapter.RegisterUserServiceServer(grpcServer, grpcadapter.NewUserServiceServer(userUC))

	return grpcServer
}
