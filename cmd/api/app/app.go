package app

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"auth-service/cmd/api/di"
	"auth-service/cmd/api/infrastructure"
	"auth-service/cmd/api/server"
	"auth-service/internal/adapter/db/sqlstore"
	"auth-service/internal/config"
	"auth-service/pkg/logger"
)

// App represents the application
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Server    *server.Server
	Container *di.Container
}

// New creates a new application instance from the configuration in configPath
func New(ctx context.Context, configPath string) (*App, error) {
	cfg, l, err := bootstrap(configPath)
	if err != nil {
		return nil, err
	}

	// Create DI container
	container, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	// Create server instance
	srv := server.New(cfg, l, container)

	return &App{
		Config:    cfg,
		Logger:    l,
		Server:    srv,
		Container: container,
	}, nil
}

// Run starts the application and blocks until ctx is canceled or the server fails
func (a *App) Run(ctx context.Context) error {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error("panic recovered in application",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()

	a.Logger.Info("starting application",
		zap.String("service", a.Config.Logger.ServiceName),
		zap.String("version", a.Config.Logger.ServiceVersion),
		zap.String("environment", a.Config.App.Environment),
	)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		// Add panic recovery for server goroutine
		defer func() {
			if r := recover(); r != nil {
				errChan <- fmt.Errorf("server panic: %v", r)
			}
		}()

		if err := a.Server.Start(); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Wait for context cancellation or server error
	select {
	case <-ctx.Done():
		a.Logger.Info("shutting down application...")
		return a.shutdown()
	case err := <-errChan:
		a.Logger.Error("server stopped unexpectedly", zap.Error(err))
		return errors.Join(err, a.shutdown())
	}
}

// shutdown gracefully shuts down the application
func (a *App) shutdown() error {
	// Create shutdown context with configurable timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.App.ShutdownTimeout)
	defer cancel()

	a.Logger.Info("starting graceful shutdown",
		zap.Duration("timeout", a.Config.App.ShutdownTimeout),
	)

	var errs []error

	// Shutdown HTTP server
	if a.Server != nil && a.Server.HTTP != nil {
		a.Logger.Info("shutting down HTTP server...")
		if err := a.Server.HTTP.Shutdown(shutdownCtx); err != nil {
			a.Logger.Error("failed to shutdown HTTP server", zap.Error(err))
			errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
		}
	}

	// Close container resources
	if a.Container != nil {
		a.Logger.Info("closing container resources...")
		if err := a.Container.Close(); err != nil {
			a.Logger.Error("failed to close container", zap.Error(err))
			errs = append(errs, fmt.Errorf("container close: %w", err))
		}
	}

	a.Logger.Info("application shutdown complete")
	syncLogger(a.Logger)

	return errors.Join(errs...)
}

// Migrate connects to the store once and applies the schema migration.
func Migrate(ctx context.Context, configPath string) error {
	cfg, l, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer syncLogger(l)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	conn := sqlstore.NewConnection(l)
	once := retry.WithMaxRetries(0, retry.NewConstant(time.Second))
	if err := conn.Connect(ctx, infrastructure.NewDatabaseOpener(cfg, l), once); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	l.Info("migrations completed successfully")
	return nil
}

// bootstrap loads configuration and initializes the application logger
func bootstrap(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.NewWithConfig(logger.Config{
		Level:            cfg.Logger.Level,
		Format:           cfg.Logger.Format,
		OutputPath:       cfg.Logger.OutputPath,
		SlowQuerySeconds: cfg.Logger.SlowQuerySeconds,
		EnableSampling:   cfg.Logger.EnableSampling,
		ServiceName:      cfg.Logger.ServiceName,
		ServiceVersion:   cfg.Logger.ServiceVersion,
		Environment:      cfg.App.Environment,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, l, nil
}

// syncLogger flushes buffered log entries, ignoring the EINVAL that stdout and stderr return.
func syncLogger(l *zap.Logger) {
	if err := l.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		l.Error("failed to sync logger", zap.Error(err))
	}
}
