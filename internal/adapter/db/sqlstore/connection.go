package sqlstore

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"gorm.io/gorm"

	pkgerrors "auth-service/pkg/errors"
)

// OpenFunc opens and prepares a database handle.
type OpenFunc func(ctx context.Context) (*gorm.DB, error)

// Connection holds the process-wide database handle.
// It starts empty and is published once a connection attempt succeeds,
// so the HTTP server can listen while the store is still unreachable.
type Connection struct {
	db  atomic.Pointer[gorm.DB]
	log *zap.Logger
}

// NewConnection returns a Connection with no handle yet.
func NewConnection(log *zap.Logger) *Connection {
	return &Connection{log: log}
}

// NewConnectionWithDB returns a Connection that is already connected to db.
func NewConnectionWithDB(db *gorm.DB, log *zap.Logger) *Connection {
	c := NewConnection(log)
	c.db.Store(db)
	return c
}

// DB returns the current handle or ErrStoreUnavailable if not connected yet.
func (c *Connection) DB() (*gorm.DB, error) {
	db := c.db.Load()
	if db == nil {
		return nil, pkgerrors.NewStoreUnavailableError("store not connected", nil)
	}
	return db, nil
}

// Ready reports whether a handle has been published.
func (c *Connection) Ready() bool {
	return c.db.Load() != nil
}

// DefaultBackoff retries with exponential backoff starting at one second, capped at 30 seconds.
func DefaultBackoff() retry.Backoff {
	return retry.WithCappedDuration(30*time.Second, retry.NewExponential(time.Second))
}

// Connect calls open until it succeeds or ctx is done, then publishes the handle.
// Every failed attempt is logged and retried with b.
func (c *Connection) Connect(ctx context.Context, open OpenFunc, b retry.Backoff) error {
	attempt := 0
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		db, err := open(ctx)
		if err != nil {
			c.log.Error("error connecting to store", zap.Int("attempt", attempt), zap.Error(err))
			return retry.RetryableError(err)
		}
		c.db.Store(db)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store connection abandoned after %d attempts: %w", attempt, err)
	}

	c.log.Info("connected to store", zap.Int("attempts", attempt))
	return nil
}

// ConnectInBackground runs Connect in a goroutine. The returned channel
// receives the final result and is then closed.
func (c *Connection) ConnectInBackground(ctx context.Context, open OpenFunc, b retry.Backoff) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- c.Connect(ctx, open, b)
	}()
	return done
}

// Close closes the underlying sql.DB if connected.
func (c *Connection) Close() error {
	db := c.db.Swap(nil)
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
