package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"user-record-service/cmd/api/di"
	"user-record-service/internal/config"
)

// Server struct holds all server dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
	GRPC   *grpc.Server // nil unless GRPC_ENABLED

	ginListener  net.Listener
	grpcListener net.Listener
}

// New creates a new server instance over the container's handlers.
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	s := &Server{
		Config: cfg,
		Logger: l,
		Gin: SetupGinServer(
			c.GinHandler,
			c.HealthHandler,
			c.Limiter,
			time.Duration(cfg.App.RequestTimeoutSeconds)*time.Second,
			httpAddress(cfg),
			l,
		),
	}
	if cfg.App.GRPCEnabled {
		s.GRPC = SetupGRPC(c.UserUC, c.Limiter, l)
	}
	return s
}

// Listen binds every enabled server's port. Binding up front surfaces
// "address already in use" before anything starts serving.
func (s *Server) Listen(ctx context.Context) error {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", s.Gin.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Gin.Addr, err)
	}
	s.ginListener = lis

	if s.GRPC != nil {
		lis, err := lc.Listen(ctx, "tcp", grpcAddress(s.Config))
		if err != nil {
			_ = s.ginListener.Close()
			return fmt.Errorf("failed to listen on %s: %w", grpcAddress(s.Config), err)
		}
		s.grpcListener = lis
	}
	return nil
}

// HTTPAddr returns the bound HTTP address, or "" before Listen.
func (s *Server) HTTPAddr() string {
	if s.ginListener == nil {
		return ""
	}
	return s.ginListener.Addr().String()
}

// GRPCAddr returns the bound gRPC address, or "" when gRPC is disabled.
func (s *Server) GRPCAddr() string {
	if s.grpcListener == nil {
		return ""
	}
	return s.grpcListener.Addr().String()
}

// Serve runs the servers until ctx is canceled or one of them fails, then
// shuts all of them down. Listen must be called first.
func (s *Server) Serve(ctx context.Context) error {
	if s.ginListener == nil {
		return errors.New("server: Serve called before Listen")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.Logger.Info("Gin REST API running", zap.String("address", s.HTTPAddr()))
		if err := s.Gin.Serve(s.ginListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gin server: %w", err)
		}
		return nil
	})

	if s.GRPC != nil {
		g.Go(func() error {
			s.Logger.Info("gRPC server running", zap.String("address", s.GRPCAddr()))
			if err := s.GRPC.Serve(s.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

// shutdown stops accepting requests and waits for in-flight ones up to
// SHUTDOWN_TIMEOUT_SECONDS.
func (s *Server) shutdown() error {
	timeout := time.Duration(s.Config.App.ShutdownTimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.Logger.Info("starting graceful shutdown", zap.Duration("timeout", timeout))

	var errs []error

	if err := s.Gin.Shutdown(ctx); err != nil {
		s.Logger.Error("failed to shutdown Gin server", zap.Error(err))
		errs = append(errs, fmt.Errorf("gin shutdown: %w", err))
	}

	if s.GRPC != nil {
		stopped := make(chan struct{})
		go func() {
			s.GRPC.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-ctx.Done():
			s.Logger.Warn("gRPC graceful stop timed out, forcing stop")
			s.GRPC.Stop()
		}
	}

	return errors.Join(errs...)
}

// grpcAddress returns the gRPC server address
func grpcAddress(cfg *config.Config) string {
	return ":" + cfg.App.GRPCPort
}

// httpAddress returns the HTTP server address
func httpAddress(cfg *config.Config) string {
	return ":" + cfg.App.HTTPPort
}
