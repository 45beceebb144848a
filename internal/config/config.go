package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds all configuration for the application
type Config struct {
	Store   StoreConfig
	App     AppConfig
	Redis   RedisConfig
	Hashing HashingConfig
	Logger  LoggerConfig
}

// StoreConfig holds configuration for the credential store
type StoreConfig struct {
	URI            string        `mapstructure:"STORE_URI"`
	ConnectTimeout time.Duration `mapstructure:"STORE_CONNECT_TIMEOUT_SECONDS"`
	MaxOpenConns   int           `mapstructure:"STORE_MAX_OPEN_CONNS"`
	MaxIdleConns   int           `mapstructure:"STORE_MAX_IDLE_CONNS"`
}

// AppConfig holds configuration for the HTTP server
type AppConfig struct {
	Port            string        `mapstructure:"PORT"`
	AllowedOrigin   string        `mapstructure:"ALLOWED_ORIGIN"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS"`
	MetricsEnabled  bool          `mapstructure:"METRICS_ENABLED"`
	Environment     string        `mapstructure:"APP_ENV"`
}

// RedisConfig holds configuration for the signup guard. An empty URL disables it.
type RedisConfig struct {
	URL     string        `mapstructure:"REDIS_URL"`
	LockTTL time.Duration `mapstructure:"SIGNUP_LOCK_TTL_SECONDS"`
}

// HashingConfig holds password hashing parameters
type HashingConfig struct {
	BcryptCost  int `mapstructure:"BCRYPT_COST"`
	Concurrency int `mapstructure:"HASH_CONCURRENCY"` // 0 means runtime.NumCPU()
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level            string  `mapstructure:"LOG_LEVEL"`
	Format           string  `mapstructure:"LOG_FORMAT"`
	OutputPath       string  `mapstructure:"LOG_OUTPUT_PATH"`
	SlowQuerySeconds float64 `mapstructure:"LOG_SLOW_QUERY_SECONDS"`
	EnableSampling   bool    `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName      string  `mapstructure:"SERVICE_NAME"`
	ServiceVersion   string  `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from app.env in path and from environment variables.
// Environment variables take precedence over the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv() // Read from environment variables

	// Set defaults first
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app") // Look for app.env
	v.SetConfigType("env")

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is okay if we have env vars
	}

	var config Config

	config.Store.URI = strings.TrimSpace(v.GetString("STORE_URI"))
	config.Store.ConnectTimeout = seconds(v, "STORE_CONNECT_TIMEOUT_SECONDS")
	config.Store.MaxOpenConns = v.GetInt("STORE_MAX_OPEN_CONNS")
	config.Store.MaxIdleConns = v.GetInt("STORE_MAX_IDLE_CONNS")

	config.App.Port = strings.TrimSpace(v.GetString("PORT"))
	config.App.AllowedOrigin = strings.TrimSpace(v.GetString("ALLOWED_ORIGIN"))
	config.App.ShutdownTimeout = seconds(v, "SHUTDOWN_TIMEOUT_SECONDS")
	config.App.MetricsEnabled = v.GetBool("METRICS_ENABLED")
	config.App.Environment = v.GetString("APP_ENV")

	config.Redis.URL = strings.TrimSpace(v.GetString("REDIS_URL"))
	config.Redis.LockTTL = seconds(v, "SIGNUP_LOCK_TTL_SECONDS")

	config.Hashing.BcryptCost = v.GetInt("BCRYPT_COST")
	config.Hashing.Concurrency = v.GetInt("HASH_CONCURRENCY")

	config.Logger.Level = v.GetString("LOG_LEVEL")
	config.Logger.Format = v.GetString("LOG_FORMAT")
	config.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	config.Logger.SlowQuerySeconds = v.GetFloat64("LOG_SLOW_QUERY_SECONDS")
	config.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	config.Logger.ServiceName = v.GetString("SERVICE_NAME")
	config.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &config, nil
}

// Validate reports configuration that the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.App.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.Store.URI == "" {
		errs = append(errs, errors.New("STORE_URI must not be empty"))
	}
	switch origin := c.App.AllowedOrigin; {
	case origin == "":
		errs = append(errs, errors.New("ALLOWED_ORIGIN must not be empty"))
	case origin != "*" && !strings.Contains(origin, "://"):
		errs = append(errs, fmt.Errorf("ALLOWED_ORIGIN %q must include a scheme", origin))
	}
	if c.Hashing.BcryptCost < bcrypt.MinCost || c.Hashing.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.Hashing.BcryptCost))
	}
	if c.Hashing.Concurrency < 0 {
		errs = append(errs, errors.New("HASH_CONCURRENCY must not be negative"))
	}
	if c.Redis.URL != "" && c.Redis.LockTTL <= 0 {
		errs = append(errs, errors.New("SIGNUP_LOCK_TTL_SECONDS must be positive when REDIS_URL is set"))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address for the HTTP server.
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}

func seconds(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetFloat64(key) * float64(time.Second))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8800")
	v.SetDefault("STORE_URI", "sqlite://auth.db")
	v.SetDefault("ALLOWED_ORIGIN", "http://localhost:3000")
	v.SetDefault("STORE_CONNECT_TIMEOUT_SECONDS", 5)
	v.SetDefault("STORE_MAX_OPEN_CONNS", 10)
	v.SetDefault("STORE_MAX_IDLE_CONNS", 5)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("METRICS_ENABLED", true)

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SIGNUP_LOCK_TTL_SECONDS", 10)

	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("HASH_CONCURRENCY", 0)

	// Logger defaults
	v.SetDefault("APP_ENV", "development")
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
		v.SetDefault("LOG_ENABLE_SAMPLING", true)
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
		v.SetDefault("LOG_ENABLE_SAMPLING", false)
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stdout")
	v.SetDefault("LOG_SLOW_QUERY_SECONDS", 0.2)
	v.SetDefault("SERVICE_NAME", "auth-service")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}
