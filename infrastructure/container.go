// infrastructure/container.go
package infrastructure

import (
	"time"

	goredis "github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/crestlinesc/fbserver/config"
	"github.com/crestlinesc/fbserver/infrastructure/redis"
	"github.com/crestlinesc/fbserver/internal/auth"
	"github.com/crestlinesc/fbserver/internal/invoice"
	"github.com/crestlinesc/fbserver/internal/kv"
	"github.com/crestlinesc/fbserver/internal/mail"
	"github.com/crestlinesc/fbserver/internal/webhook"
)

// Container provides application dependencies.
type Container struct {
	// Services
	Authorizer   *auth.Authorizer
	TokenManager *auth.TokenManager
	Processor    *invoice.Processor

	// Handlers
	AuthHandler    *auth.Handler
	WebhookHandler *webhook.Handler
	InvoiceHandler *invoice.Handler

	// Infrastructure
	Logger      *zap.Logger
	RedisClient goredis.UniversalClient
	RedisHealth *redis.HealthChecker
	TokenStore  kv.Store
}

// NewContainer creates and wires the dependency container.
func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	container := &Container{Logger: logger}

	redisClient := redis.NewClient(redis.DefaultConfig(
		cfg.Redis.Addr,
		cfg.Redis.Password,
		cfg.Redis.DB,
	))
	container.RedisClient = redisClient
	container.RedisHealth = redis.NewHealthChecker(redisClient, 30*time.Second)
	container.TokenStore = kv.NewRedisStore(redisClient, cfg.Redis.KeyPrefix)

	authorizer, err := auth.NewAuthorizer(
		cfg.FreshBooks.ClientID,
		cfg.FreshBooks.ClientSecret,
		cfg.FreshBooks.RedirectURI,
		logger,
	)
	if err != nil {
		return nil, err
	}
	container.Authorizer = authorizer

	container.TokenManager = auth.NewTokenManager(
		container.TokenStore,
		cfg.FreshBooks.AccountID,
		logger,
	)

	vendor := invoice.VendorProfile{
		VendorID:       cfg.Vendor.VendorID,
		VendorName:     cfg.Vendor.VendorName,
		Address:        cfg.Vendor.Address,
		City:           cfg.Vendor.City,
		State:          cfg.Vendor.State,
		Zip:            cfg.Vendor.Zip,
		ConsultantID:   cfg.Vendor.ConsultantID,
		ConsultantName: cfg.Vendor.ConsultantName,
		ContactName:    cfg.Vendor.ContactName,
		Phone:          cfg.Vendor.Phone,
		Email:          cfg.Vendor.Email,
	}
	container.Processor = invoice.NewProcessor(
		vendor,
		cfg.Kforce.CustomerID,
		cfg.Email.ClientEmail,
		cfg.Email.SenderEmail,
		mail.NewLogSender(logger),
		logger,
	)

	container.AuthHandler = auth.NewHandler(container.Authorizer, container.TokenManager, logger)
	container.WebhookHandler = webhook.NewHandler(
		container.TokenManager,
		container.Processor,
		cfg.FreshBooks.WebhookSecret,
		cfg.FreshBooks.CallbackID,
		cfg.FreshBooks.WebhookURL,
		logger,
	)
	container.InvoiceHandler = invoice.NewHandler(container.TokenManager, logger)

	return container, nil
}

// Shutdown gracefully closes connections.
func (c *Container) Shutdown() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Error("error closing Redis connection", zap.Error(err))
		}
	}
}
