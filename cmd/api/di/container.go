package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"auth-service/cmd/api/infrastructure"
	"auth-service/internal/adapter/db/sqlstore"
	ginhandler "auth-service/internal/adapter/gin/handler"
	"auth-service/internal/adapter/guard"
	"auth-service/internal/adapter/repository/coalesced"
	"auth-service/internal/config"
	"auth-service/internal/metrics"
	"auth-service/internal/usecase/auth"
	redisclient "auth-service/pkg/redis"
	"auth-service/pkg/security"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Store       *sqlstore.Connection
	RedisClient *redisclient.Client
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	AuthUC      *auth.Usecase
	GinHandler  *ginhandler.AuthHandler

	// StoreReady receives the outcome of the background store connector.
	StoreReady <-chan error
	cancel     context.CancelFunc
}

// NewContainer creates and initializes all application dependencies.
// The store connects in the background; requests fail with StoreUnavailable until it does.
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	hasher, err := security.NewBcryptHasher(cfg.Hashing.BcryptCost, cfg.Hashing.Concurrency)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher: %w", err)
	}

	// Initialize store connection
	connCtx, cancel := context.WithCancel(ctx)
	conn := sqlstore.NewConnection(l)
	storeReady := conn.ConnectInBackground(connCtx, infrastructure.NewDatabaseOpener(cfg, l), sqlstore.DefaultBackoff())

	// Initialize Redis client for the signup guard
	var signupGuard auth.SignupGuard
	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		l.Warn("signup guard disabled", zap.Error(err))
	} else if rdb != nil {
		signupGuard = guard.NewRedisSignupGuard(rdb.Client, cfg.Redis.LockTTL, l)
	}

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize repository
	repo := coalesced.NewUserRepository(sqlstore.NewUserRepo(conn, l), l)

	// Initialize use case
	authUC := auth.New(repo, hasher, signupGuard, m, l)

	// Initialize Gin handler
	ginHandler := ginhandler.NewAuthHandler(authUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		Store:       conn,
		RedisClient: rdb,
		Registry:    reg,
		Metrics:     m,
		AuthUC:      authUC,
		GinHandler:  ginHandler,
		StoreReady:  storeReady,
		cancel:      cancel,
	}, nil
}

// Close stops the store connector and closes all resources held by the container
func (c *Container) Close() error {
	if c.cancel != nil {
		c.cancel()
		// wait for an in-flight attempt so no handle is published after Close
		<-c.StoreReady
	}

	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close store connection
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %w", errors.Join(errs...))
	}

	return nil
}
