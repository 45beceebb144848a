package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"auth-service/internal/adapter/gin/handler"
	"auth-service/internal/adapter/gin/middleware"
	"auth-service/pkg/logger"
)

// Readiness reports whether the credential store is connected.
type Readiness interface {
	Ready() bool
}

// Options configures the optional parts of the router.
type Options struct {
	AllowedOrigin string
	ServiceName   string

	// Metrics and Gatherer are both required to expose GET /metrics.
	Metrics  middleware.HTTPObserver
	Gatherer prometheus.Gatherer
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	authHandler *handler.AuthHandler,
	readiness Readiness,
	opts Options,
	log *zap.Logger,
) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestIDMiddleware())
	router.Use(middleware.Logger(log))
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
	}
	router.Use(cors.New(corsConfig(opts.AllowedOrigin)))

	router.GET("/health", func(c *gin.Context) {
		if readiness != nil && !readiness.Ready() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"service": opts.ServiceName,
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": opts.ServiceName,
		})
	})

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	router.POST("/signup", authHandler.Signup)
	router.POST("/login", authHandler.Login)

	return router
}

func corsConfig(origin string) cors.Config {
	cfg := cors.DefaultConfig()
	if origin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", logger.RequestIDHeader}
	cfg.ExposeHeaders = []string{logger.RequestIDHeader}
	return cfg
}
