package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"funnelboard/cache"
	"funnelboard/config"
	controller "funnelboard/controllers"
	"funnelboard/crm"
	"funnelboard/funnel"
	"funnelboard/middleware"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, svc crm.Service, store cache.Store, appLogger *logrus.Logger) {
	cfg := config.AppConfig
	opt := funnel.Options{SQLNotesMinLen: cfg.SQLNotesMinLen}

	// Initialize controllers
	funnelController := controller.NewFunnelController(svc, opt, cfg.CRMActivityLimit, appLogger)
	prospectController := controller.NewProspectController(svc, opt, cfg.CRMActivityLimit, appLogger)
	masterController := controller.NewMasterController(svc, opt, cfg.CRMActivityLimit, cfg.StalledDays, cfg.ConnectRateAlertThreshold, appLogger)
	performanceController := controller.NewPerformanceController(svc, store, time.Duration(cfg.PerformanceCacheTTLSeconds)*time.Second, cfg.CRMActivityLimit, appLogger)
	historyController := controller.NewHistoryController(db, appLogger)
	liveController := controller.NewLiveController(svc, opt, cfg.CRMActivityLimit, time.Duration(cfg.LiveRefreshSeconds)*time.Second, appLogger)

	// Health check and prometheus endpoints stay outside the rate limiter.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API group with versioning, rate limiting and request logging
	api := app.Group("/api/v1", middleware.APIRateLimiter(), logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Project routes. The static prospect-analytics path is registered before
	// the :id routes so it never matches as a project id.
	projects := api.Group("/projects")
	projects.Get("/prospect-analytics", prospectController.GetProspectAnalytics)
	projects.Get("/:id/funnel", funnelController.GetProjectFunnel)
	projects.Get("/:id/funnel/history", historyController.GetFunnelHistory)
	projects.Get("/:id/prospects", prospectController.GetProjectProspects)

	// Cross-project routes
	api.Get("/master-dashboard", masterController.GetMasterDashboard)
	api.Get("/performance", performanceController.GetPerformance)

	// WebSocket route for the live dashboard feed
	app.Get("/api/v1/dashboard/live", websocket.New(liveController.HandleDashboardLiveWS))

	// Setup 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested resource was not found",
		})
	})

	appLogger.Info("API routes initialized successfully")
}
