package main

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"funnelboard/cache"
	"funnelboard/config"
	"funnelboard/crm"
	"funnelboard/funnel"
	"funnelboard/middleware"
	"funnelboard/routes"
	"funnelboard/utils"
	"funnelboard/worker"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.AppConfig

	if cfg.Environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Error reporting for the snapshot worker and handlers
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
		}); err != nil {
			logger.Fatalf("Failed to initialize sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize database connection (snapshot history store)
	if err := config.ConnectDB(); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// CRM API client
	crmClient := crm.NewClient(
		cfg.CRMBaseURL,
		cfg.CRMToken,
		time.Duration(cfg.CRMTimeoutSeconds)*time.Second,
		logger,
	)

	// Performance cache: redis when configured, in-process map otherwise
	var store cache.Store = cache.NewMemoryStore()
	if cfg.Redis.Enabled {
		store = cache.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	}

	// Create Fiber app
	app := fiber.New()

	// Add CORS middleware
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = cfg.AllowedOrigins
	app.Use(middleware.CORS(corsConfig))

	// Alert digest mailer, only when SMTP is configured
	var alertMailer *utils.AlertMailer
	if cfg.Alerts.Enabled {
		alertMailer = utils.NewAlertMailer(
			cfg.Alerts.SMTPHost,
			cfg.Alerts.SMTPPort,
			cfg.Alerts.SMTPUser,
			cfg.Alerts.SMTPPass,
			cfg.Alerts.FromEmail,
			cfg.Alerts.Recipients,
		)
	}

	// Initialize and start the snapshot worker
	snapshotWorker := worker.NewSnapshotWorker(
		config.DB,
		crmClient,
		alertMailer,
		funnel.Options{SQLNotesMinLen: cfg.SQLNotesMinLen},
		cfg.CRMActivityLimit,
		time.Duration(cfg.SnapshotIntervalMinutes)*time.Minute,
		cfg.StalledDays,
		cfg.ConnectRateAlertThreshold,
		logger,
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go snapshotWorker.Start(ctx)

	// Setup routes
	routes.SetupRoutes(app, config.DB, crmClient, store, logger)

	// Start server
	logger.Infof("🚀 Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
