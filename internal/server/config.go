package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/philly/snapgram/internal/adapters/rest/middleware"
	"github.com/philly/snapgram/internal/adapters/s3store"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/philly/snapgram/internal/posts/application"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL      string `mapstructure:"DATABASE_URL"`
	DatabaseMaxConns int32  `mapstructure:"DATABASE_MAX_CONNS"`
	DatabaseMinConns int32  `mapstructure:"DATABASE_MIN_CONNS"`
	JWKSEndpoint     string `mapstructure:"JWKS_ENDPOINT"`
	JWTIssuer        string `mapstructure:"JWT_ISSUER"`
	ServerAddress    string `mapstructure:"SERVER_ADDRESS"`
	Environment      string `mapstructure:"ENVIRONMENT"`
	LogLevel         string `mapstructure:"LOG_LEVEL"` // debug, info, warn, error
	AutoMigrate      bool   `mapstructure:"AUTO_MIGRATE"`

	S3Bucket          string `mapstructure:"S3_BUCKET"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT"` // S3-compatible services only
	S3AccessKeyID     string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL   string `mapstructure:"S3_PUBLIC_BASE_URL"`

	// Empty disables upload throttling.
	RedisURL         string        `mapstructure:"REDIS_URL"`
	UploadRateLimit  int           `mapstructure:"UPLOAD_RATE_LIMIT"`
	UploadRateWindow time.Duration `mapstructure:"UPLOAD_RATE_WINDOW"`

	MediaOrphanTTL     time.Duration `mapstructure:"MEDIA_ORPHAN_TTL"`
	MediaSweepInterval time.Duration `mapstructure:"MEDIA_SWEEP_INTERVAL"` // 0 disables the background sweep
}

var configDefaults = map[string]any{
	"DATABASE_URL":         "postgresql://localhost:5432/snapgram?sslmode=disable",
	"DATABASE_MAX_CONNS":   25,
	"DATABASE_MIN_CONNS":   5,
	"SERVER_ADDRESS":       ":8080",
	"ENVIRONMENT":          "development",
	"LOG_LEVEL":            "info",
	"AUTO_MIGRATE":         false,
	"S3_REGION":            "us-east-1",
	"REDIS_URL":            "",
	"UPLOAD_RATE_LIMIT":    20,
	"UPLOAD_RATE_WINDOW":   time.Hour,
	"MEDIA_ORPHAN_TTL":     application.DefaultOrphanTTL,
	"MEDIA_SWEEP_INTERVAL": time.Duration(0),

	// No defaults, but AutomaticEnv only fills keys viper already knows.
	"JWKS_ENDPOINT":        "",
	"JWT_ISSUER":           "",
	"S3_BUCKET":            "",
	"S3_ENDPOINT":          "",
	"S3_ACCESS_KEY_ID":     "",
	"S3_SECRET_ACCESS_KEY": "",
	"S3_PUBLIC_BASE_URL":   "",
}

func LoadConfig(bootstrapLogger *logger.BootstrapLogger) (Config, error) {
	ctx := context.Background()

	// A missing .env is fine; the environment may carry everything.
	if err := godotenv.Load(); err != nil {
		bootstrapLogger.Info(ctx, "no .env file found, using environment variables only")
	} else {
		bootstrapLogger.Info(ctx, "loaded .env file")
	}

	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		bootstrapLogger.Error(ctx, "failed to unmarshal configuration", "error", err)
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	bootstrapLogger.Info(ctx, "configuration loaded",
		"environment", config.Environment,
		"log_level", config.LogLevel,
		"server_address", config.ServerAddress,
		"upload_throttling", config.RedisURL != "",
		"media_sweep_interval", config.MediaSweepInterval,
	)

	if err := config.Validate(); err != nil {
		bootstrapLogger.Error(ctx, "configuration validation failed", "error", err)
		return Config{}, err
	}

	bootstrapLogger.Info(ctx, "configuration validated successfully")
	return config, nil
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.JWKSEndpoint == "" {
		errs = append(errs, errors.New("JWKS_ENDPOINT is required"))
	}
	if c.JWTIssuer == "" {
		errs = append(errs, errors.New("JWT_ISSUER is required"))
	}
	if c.S3Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required"))
	}
	if c.DatabaseMaxConns < 1 {
		errs = append(errs, errors.New("DATABASE_MAX_CONNS must be at least 1"))
	}
	if c.UploadRateLimit < 0 {
		errs = append(errs, errors.New("UPLOAD_RATE_LIMIT must not be negative"))
	}
	if c.MediaSweepInterval < 0 {
		errs = append(errs, errors.New("MEDIA_SWEEP_INTERVAL must not be negative"))
	}
	return errors.Join(errs...)
}

func provideLoggerConfig(config Config) logger.Config {
	return logger.Config{
		Environment: config.Environment,
		LogLevel:    config.LogLevel,
	}
}

func provideJWTConfig(config Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		JWKS:   config.JWKSEndpoint,
		Issuer: config.JWTIssuer,
	}
}

func provideObjectStoreConfig(config Config) s3store.Config {
	return s3store.Config{
		Bucket:          config.S3Bucket,
		Region:          config.S3Region,
		Endpoint:        config.S3Endpoint,
		PublicBaseURL:   config.S3PublicBaseURL,
		AccessKeyID:     config.S3AccessKeyID,
		SecretAccessKey: config.S3SecretAccessKey,
	}
}

func provideSweeperConfig(config Config) application.SweeperConfig {
	return application.SweeperConfig{OrphanTTL: config.MediaOrphanTTL}
}
