package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"auth-service/pkg/logger"
)

// releaseScript deletes the lock only if it still holds the caller's token,
// so an expired lock re-acquired by another signup is left alone.
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisSignupGuard implements a short-lived per-email signup lock in Redis.
// It narrows the check-then-insert window between concurrent signups for
// one email across processes; the store's unique index remains the final word.
type RedisSignupGuard struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisSignupGuard creates a new Redis-backed signup guard.
func NewRedisSignupGuard(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisSignupGuard {
	return &RedisSignupGuard{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// lockKey generates a Redis key for an email.
func (g *RedisSignupGuard) lockKey(email string) string {
	return fmt.Sprintf("signup:lock:%s", email)
}

// Acquire sets the lock for email if no other signup holds it.
func (g *RedisSignupGuard) Acquire(ctx context.Context, email string) (string, bool, error) {
	key := g.lockKey(email)
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, key, token, g.ttl).Result()
	if err != nil {
		g.log.Error("failed to acquire signup lock", logger.Email(email), zap.Error(err))
		return "", false, err
	}
	if !ok {
		g.log.Debug("signup lock held elsewhere", logger.Email(email))
		return "", false, nil
	}

	g.log.Debug("signup lock acquired", logger.Email(email), zap.Duration("ttl", g.ttl))
	return token, true, nil
}

// Release removes the lock for email if token still owns it.
func (g *RedisSignupGuard) Release(ctx context.Context, email, token string) error {
	key := g.lockKey(email)

	deleted, err := releaseScript.Run(ctx, g.client, []string{key}, token).Int64()
	if err != nil {
		g.log.Error("failed to release signup lock", logger.Email(email), zap.Error(err))
		return err
	}

	if deleted == 0 {
		g.log.Warn("signup lock expired before release", logger.Email(email))
		return nil
	}

	g.log.Debug("signup lock released", logger.Email(email))
	return nil
}
