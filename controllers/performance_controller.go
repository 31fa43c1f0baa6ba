package controller

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"funnelboard/cache"
	"funnelboard/crm"
	"funnelboard/metrics"
	"funnelboard/models"
	"funnelboard/utils"
)

type PerformanceController struct {
	CRM           crm.Service
	Cache         cache.Store
	TTL           time.Duration
	ActivityLimit int
	Logger        *logrus.Entry
}

func NewPerformanceController(svc crm.Service, store cache.Store, ttl time.Duration, activityLimit int, logger *logrus.Logger) *PerformanceController {
	return &PerformanceController{
		CRM:           svc,
		Cache:         store,
		TTL:           ttl,
		ActivityLimit: activityLimit,
		Logger:        logger.WithField("component", "performance"),
	}
}

type performanceQuery struct {
	Range string `validate:"required,oneof=today week month all"`
}

// GetPerformance serves per-owner activity rollups across every project,
// read through the TTL cache keyed by time range. Each range has its own
// entry so "today" and "all" never serve each other's numbers.
func (pc *PerformanceController) GetPerformance(c *fiber.Ctx) error {
	rng := c.Query("range", "all")
	if err := utils.ValidateStruct(performanceQuery{Range: rng}); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "invalid time range", err)
	}

	ctx := c.UserContext()
	key := "performance:" + rng

	if cached, ok := pc.Cache.Get(ctx, key); ok {
		metrics.CacheHits.Inc()
		return c.JSON(utils.SuccessResponse(json.RawMessage(cached)))
	}
	metrics.CacheMisses.Inc()

	entries := pc.compute(ctx, rng)
	if payload, err := json.Marshal(entries); err == nil {
		pc.Cache.Set(ctx, key, payload, pc.TTL)
	}

	return c.JSON(utils.SuccessResponse(entries))
}

func (pc *PerformanceController) compute(ctx context.Context, rng string) []models.PerformanceEntry {
	projects, err := pc.CRM.ListProjects(ctx)
	if err != nil {
		pc.Logger.WithError(err).Warn("could not list projects, serving empty performance")
		return []models.PerformanceEntry{}
	}

	perProject := make([][]models.Activity, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i := range projects {
		i := i
		g.Go(func() error {
			activities, err := pc.CRM.GetProjectActivities(gctx, projects[i].ID, pc.ActivityLimit)
			if err != nil {
				return err
			}
			perProject[i] = activities
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		pc.Logger.WithError(err).Warn("could not fetch all activities, serving partial performance")
	}

	var all []models.Activity
	for _, activities := range perProject {
		all = append(all, activities...)
	}

	entries := AggregatePerformance(all, RangeStart(rng, time.Now()))
	if entries == nil {
		entries = []models.PerformanceEntry{}
	}
	return entries
}
