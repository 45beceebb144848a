package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"auth-service/internal/config"
	redisclient "auth-service/pkg/redis"
)

// NewRedisClient connects the Redis client used by the signup guard.
// It returns nil without error when REDIS_URL is not set.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if cfg.Redis.URL == "" {
		l.Info("REDIS_URL not set, signup guard disabled")
		return nil, nil
	}

	rdb, err := redisclient.NewClient(ctx, redisclient.Config{URL: cfg.Redis.URL}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
