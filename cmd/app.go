package cmd

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/metrics"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/provider"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/ratelimit"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/repository"
	"github.com/vibast-solutions/ms-go-payment-webhooks/app/service"
	"github.com/vibast-solutions/ms-go-payment-webhooks/config"
)

type application struct {
	cfg             *config.Config
	db              *sql.DB
	redis           *redis.Client
	registry        *prometheus.Registry
	paymentService  *service.PaymentService
	settingsService *service.WebhookSettingsService
	testService     *service.WebhookTestService
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}
	return cfg
}

func mustOpenDB(cfg *config.Config) *sql.DB {
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}

	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		logrus.WithError(err).Fatal("Failed to ping database")
	}
	return db
}

func mustCreateApplication() (*application, func()) {
	cfg := mustLoadConfig()
	db := mustOpenDB(cfg)

	app := &application{
		cfg:      cfg,
		db:       db,
		registry: prometheus.NewRegistry(),
	}
	app.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(app.registry)

	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if cfg.Redis.Addr != "" {
		app.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := app.redis.Ping(ctx).Err(); err != nil {
			logrus.WithError(err).Warn("Redis is not reachable, webhook test rate limiting will fail open")
		}
		cancel()
		limiter = ratelimit.NewRedisLimiter(app.redis, "webhook_test", cfg.Webhooks.TestRateLimit, time.Minute)
	}

	recordRepo := repository.NewPaymentRecordRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	subscriptionRepo := repository.NewWebhookSubscriptionRepository(db)
	logRepo := repository.NewDeliveryLogRepository(db)

	mercadoPago := provider.NewMercadoPagoProvider(provider.MercadoPagoConfig{
		AccessToken: cfg.MercadoPago.AccessToken,
		APIBaseURL:  cfg.MercadoPago.APIBaseURL,
		HTTPTimeout: cfg.MercadoPago.HTTPTimeout,
	})

	dispatcher := service.NewWebhookDispatcher(subscriptionRepo, logRepo, recorder, cfg.Webhooks)
	app.paymentService = service.NewPaymentService(
		recordRepo,
		accountRepo,
		provider.NewRegistry(mercadoPago),
		dispatcher,
		recorder,
	)
	app.settingsService = service.NewWebhookSettingsService(subscriptionRepo, logRepo)
	app.testService = service.NewWebhookTestService(dispatcher, limiter, cfg.Webhooks)

	cleanup := func() {
		if app.redis != nil {
			if err := app.redis.Close(); err != nil {
				logrus.WithError(err).Warn("Failed to close redis client")
			}
		}
		if err := db.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}

	return app, cleanup
}
