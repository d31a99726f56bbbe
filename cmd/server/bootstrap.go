package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"carefoundation/internal/config"
	"carefoundation/internal/repositories/interfaces"
	"carefoundation/internal/repositories/memory"
	mongorepo "carefoundation/internal/repositories/mongodb"
	"carefoundation/pkg/cache"
	"carefoundation/pkg/database"
	"carefoundation/pkg/logger"
	"carefoundation/pkg/mailer"
	"carefoundation/pkg/payment"
	"carefoundation/pkg/sms"
	"carefoundation/pkg/storage"

	"github.com/gin-gonic/gin"
)

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	format := cfg.App.LogFormat
	if cfg.IsProduction() {
		format = "json"
	}
	return logger.NewLogger(&logger.Config{
		Level:   logger.LogLevel(cfg.App.LogLevel),
		Format:  format,
		Output:  "stdout",
		AppName: cfg.App.Name,
		Version: cfg.App.Version,
	})
}

// openRepositories returns the repositories for the configured driver. The MongoDB
// handle is nil for the in-memory driver.
func openRepositories(ctx context.Context, cfg *config.DatabaseConfig, log *logger.Logger) (*interfaces.Repositories, *database.MongoDB, error) {
	if cfg.Driver == config.DatabaseDriverMemory {
		log.Warn("Using in-memory store; data is lost on restart")
		return memory.NewRepositories(), nil, nil
	}

	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.URI,
		Database:       cfg.Database,
		MaxPoolSize:    cfg.MaxPoolSize,
		MinPoolSize:    cfg.MinPoolSize,
		ConnectTimeout: cfg.ConnectTimeout,
		SocketTimeout:  cfg.SocketTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if cfg.EnsureIndexes {
		if err := database.NewMigrator(db.Database, log).Up(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return mongorepo.NewRepositories(db.Database), db, nil
}

type healthCheck func(context.Context) error

// healthHandler pings every dependency and answers 503 when any is down.
func healthHandler(version string, checks map[string]healthCheck, clients func() int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = "down"
				status, code = "degraded", http.StatusServiceUnavailable
				continue
			}
			deps[name] = "up"
		}

		c.JSON(code, gin.H{
			"status":            status,
			"version":           version,
			"dependencies":      deps,
			"websocket_clients": clients(),
		})
	}
}

func newStorage(ctx context.Context, cfg *config.StorageConfig) (storage.Provider, error) {
	switch cfg.Provider {
	case "s3", "aws":
		return storage.NewAWSS3Storage(ctx, cfg.AWS.Region, cfg.AWS.Bucket, cfg.AWS.CDNDomain)
	case "gcs", "gcp":
		return storage.NewGCPStorage(ctx, cfg.GCP.Bucket, cfg.GCP.CredentialsFile, cfg.GCP.CDNDomain)
	default:
		return storage.NewLocalStorage(cfg.Local.BasePath, cfg.Local.BaseURL)
	}
}

// newSMSProvider returns nil when SMS is disabled.
func newSMSProvider(ctx context.Context, cfg *config.SMSConfig) (sms.Provider, error) {
	switch cfg.Provider {
	case "twilio":
		if cfg.Twilio.AccountSID == "" || cfg.Twilio.AuthToken == "" {
			return nil, nil
		}
		return sms.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber), nil
	case "sns":
		return sms.NewAWSSNSProvider(ctx, cfg.AWS.Region, cfg.DefaultFrom)
	default:
		return nil, nil
	}
}

// newMailer returns nil when SMTP is disabled or has no credentials.
func newMailer(cfg *config.SMTPConfig) (mailer.Mailer, error) {
	if !cfg.Enabled || cfg.Username == "" {
		return nil, nil
	}
	m, err := mailer.NewSMTPMailer(mailer.Config{
		Host:      cfg.Host,
		Port:      cfg.Port,
		Username:  cfg.Username,
		Password:  cfg.Password,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// newGateway returns nil when the selected provider has no credentials.
func newGateway(cfg *config.PaymentConfig) payment.Gateway {
	if !cfg.Configured() {
		return nil
	}
	if cfg.DefaultProvider == "stripe" {
		return payment.NewStripeGateway(cfg.Stripe.SecretKey)
	}
	return payment.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)
}

// newRedis returns nil when Redis is disabled.
func newRedis(cfg *config.RedisConfig) (*cache.RedisCache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Host,
		Port:         cfg.Port,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}
