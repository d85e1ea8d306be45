package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-record-service/internal/config"
)

// redisConnectTimeout bounds the startup ping.
const redisConnectTimeout = 5 * time.Second

// NewRedisClient connects the Redis instance holding rate limiter buckets. It
// returns nil without dialing when rate limiting is disabled.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redis.Client, error) {
	if !cfg.RateLimit.Enabled {
		return nil, nil
	}

	addr := cfg.Redis.RedisAddr()
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConn,
		DialTimeout:  redisConnectTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolTimeout:  2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, redisConnectTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	l.Info("rate limiter store connected",
		zap.String("addr", addr),
		zap.Int("db", cfg.Redis.DB),
		zap.Float64("requests_per_second", cfg.RateLimit.RequestsPerSecond),
		zap.Int("burst", cfg.RateLimit.BurstCapacity),
	)
	return rdb, nil
}
