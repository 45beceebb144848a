package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"auth-service/cmd/api/di"
	ginrouter "auth-service/internal/adapter/gin/router"
)

// SetupGinServer creates and configures the Gin HTTP server
func SetupGinServer(c *di.Container, addr string, l *zap.Logger) *http.Server {
	opts := ginrouter.Options{
		AllowedOrigin: c.Config.App.AllowedOrigin,
		ServiceName:   c.Config.Logger.ServiceName,
	}
	if c.Config.App.MetricsEnabled {
		opts.Metrics = c.Metrics
		opts.Gatherer = c.Registry
	}

	// Setup Gin router with all middleware and routes
	router := ginrouter.SetupRouter(c.GinHandler, c.Store, opts, l)

	l.Info("Gin HTTP server configured",
		zap.String("address", addr),
		zap.Bool("metrics_enabled", c.Config.App.MetricsEnabled),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
