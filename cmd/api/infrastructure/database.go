package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"auth-service/internal/adapter/db/sqlstore"
	"auth-service/internal/config"
	"auth-service/pkg/logger"
)

// NewDatabaseOpener returns an OpenFunc that opens the configured store,
// verifies it with a ping and applies the schema migration.
// Each call is one connection attempt bounded by STORE_CONNECT_TIMEOUT_SECONDS.
func NewDatabaseOpener(cfg *config.Config, l *zap.Logger) sqlstore.OpenFunc {
	return func(ctx context.Context) (*gorm.DB, error) {
		dialector, err := sqlstore.Dialector(cfg.Store.URI)
		if err != nil {
			return nil, err
		}

		// Configure GORM logger
		gormLogger := logger.NewGormLoggerWithConfig(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

		db, err := gorm.Open(dialector, &gorm.Config{
			Logger:         gormLogger,
			TranslateError: true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}

		// Get underlying sql.DB for connection pool configuration
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}

		// Configure connection pool
		sqlDB.SetMaxOpenConns(cfg.Store.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Store.MaxIdleConns)

		attemptCtx := ctx
		if cfg.Store.ConnectTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
			defer cancel()
		}

		if err := sqlDB.PingContext(attemptCtx); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to ping store: %w", err)
		}

		if err := sqlstore.Migrate(db.WithContext(attemptCtx)); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to migrate store: %w", err)
		}

		l.Info("store connected successfully",
			zap.String("dialect", dialector.Name()),
			zap.Int("max_open_conns", cfg.Store.MaxOpenConns),
			zap.Int("max_idle_conns", cfg.Store.MaxIdleConns),
		)

		return db, nil
	}
}
