package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"user-record-service/cmd/api/di"
	"user-record-service/cmd/api/server"
	"user-record-service/internal/config"
	"user-record-service/pkg/logger"
)

// App represents the long-running server process
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New builds the server container and servers and binds their ports.
func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	container, err := di.NewServerContainer(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	srv := server.New(cfg, l, container)
	if err := srv.Listen(ctx); err != nil {
		_ = container.Close()
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    srv,
		Container: container,
	}, nil
}

// Run serves until SIGINT/SIGTERM or ctx cancellation, then shuts down and
// releases the container.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := server.WithSignal(ctx, a.Logger)
	defer stop()

	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.App.Environment),
		zap.String("http_address", a.Server.HTTPAddr()),
		zap.Bool("grpc_enabled", a.Server.GRPC != nil),
	)

	serveErr := a.Server.Serve(ctx)

	var errs []error
	if serveErr != nil {
		a.Logger.Error("server stopped with error", zap.Error(serveErr))
		errs = append(errs, serveErr)
	}

	a.Logger.Info("closing container resources...")
	if err := a.Container.Close(); err != nil {
		a.Logger.Error("failed to close container", zap.Error(err))
		errs = append(errs, fmt.Errorf("container close: %w", err))
	}

	a.Logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// LoadConfig loads configuration from CONFIG_PATH (default ".") and flags.
func LoadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadConfig(getConfigPath(), flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// NewLogger initializes the application logger. fallbackLevel applies when
// LOG_LEVEL is unset.
func NewLogger(cfg *config.Config, fallbackLevel string) (*zap.Logger, error) {
	l, err := logger.NewWithConfig(logger.Config{
		Level:          cfg.Logger.Level,
		FallbackLevel:  fallbackLevel,
		Format:         cfg.Logger.Format,
		OutputPath:     cfg.Logger.OutputPath,
		EnableSampling: cfg.Logger.EnableSampling,
		ServiceName:    cfg.Logger.ServiceName,
		ServiceVersion: cfg.Logger.ServiceVersion,
		Environment:    cfg.App.Environment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// getConfigPath returns the configuration path
func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "."
}
