package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-record-service/cmd/api/infrastructure"
	"user-record-service/internal/adapter/db/sqlstore"
	ginhandler "user-record-service/internal/adapter/gin/handler"
	"user-record-service/internal/config"
	"user-record-service/internal/usecase/user"
	"user-record-service/pkg/ratelimit"
)

// Container holds all application dependencies. Everything in it is built
// once and shared by pointer with every request.
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	Store         *sqlstore.UserStore
	RedisClient   *redis.Client
	Limiter       *ratelimit.Limiter
	UserUC        user.Usecase
	GinHandler    *ginhandler.UserHandler
	HealthHandler *ginhandler.HealthHandler
}

// NewContainer builds the store and usecase. One-shot CLI commands use this
// and never touch Redis or the HTTP handlers.
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	store := sqlstore.NewUserStore(db, l)

	return &Container{
		Config: cfg,
		Logger: l,
		DB:     db,
		Store:  store,
		UserUC: user.New(store, l),
	}, nil
}

// NewServerContainer extends NewContainer with what the servers need: the
// optional Redis backed rate limiter and the HTTP handlers.
func NewServerContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	c, err := NewContainer(cfg, l)
	if err != nil {
		return nil, err
	}

	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}
	if rdb != nil {
		c.RedisClient = rdb
		c.Limiter = ratelimit.New(rdb, ratelimit.Config{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
		})
	}

	c.GinHandler = ginhandler.NewUserHandler(c.UserUC, l)
	c.HealthHandler = ginhandler.NewHealthHandler(c.Store, cfg.Logger.ServiceName, l)

	return c, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		c.Logger.Info("closing Redis connection")
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
