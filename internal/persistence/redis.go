package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/salonkit/salon-service/internal/config"
)

// Redis wraps the go-redis client backing the per-IP rate limiters.
type Redis struct {
	Client    *redis.Client
	reachable bool
}

// NewRedis connects to Redis using the provided configuration. An unreachable
// Redis is not fatal: the rate limiters fall back to in-process windows.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	reachable := true
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis; rate limiting falls back to in-process windows", zap.Error(err))
		reachable = false
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client, reachable: reachable}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// LimiterClient returns the client for rate-limiter use, or nil when Redis was
// unreachable at startup.
func (r *Redis) LimiterClient() *redis.Client {
	if r == nil || r.Client == nil || !r.reachable {
		return nil
	}
	return r.Client
}
