package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	controller "funnelboard/controllers"
	"funnelboard/crm"
	"funnelboard/funnel"
	"funnelboard/metrics"
	"funnelboard/models"
	"funnelboard/utils"
)

// fetchConcurrency bounds parallel CRM calls during a sweep.
const fetchConcurrency = 4

// SnapshotWorker periodically classifies every project and persists the stage
// counts. The upstream CRM only knows the present, so these rows are the only
// source for trend charts. Each sweep also evaluates alert rules and mails the
// digest when anything fires.
type SnapshotWorker struct {
	DB                   *gorm.DB
	CRM                  crm.Service
	AlertMailer          *utils.AlertMailer
	Opt                  funnel.Options
	ActivityLimit        int
	Interval             time.Duration
	StalledDays          int
	ConnectRateThreshold int
	Logger               *logrus.Entry
}

func NewSnapshotWorker(db *gorm.DB, svc crm.Service, mailer *utils.AlertMailer, opt funnel.Options, activityLimit int, interval time.Duration, stalledDays, connectRateThreshold int, logger *logrus.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		DB:                   db,
		CRM:                  svc,
		AlertMailer:          mailer,
		Opt:                  opt,
		ActivityLimit:        activityLimit,
		Interval:             interval,
		StalledDays:          stalledDays,
		ConnectRateThreshold: connectRateThreshold,
		Logger:               logger.WithField("component", "snapshot_worker"),
	}
}

func (sw *SnapshotWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	sw.Logger.Info("Snapshot worker started")

	// First sweep right away so a fresh deployment has history points.
	sw.sweep(ctx)

	ticker := time.NewTicker(sw.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sw.Logger.Info("Snapshot worker shutting down...")
			return
		case <-ticker.C:
			sw.sweep(ctx)
		}
	}
}

// sweep captures one snapshot of every project. A single failing project is
// logged and skipped; the sweep keeps going.
func (sw *SnapshotWorker) sweep(ctx context.Context) {
	projects, err := sw.CRM.ListProjects(ctx)
	if err != nil {
		sw.Logger.WithError(err).Error("Could not list projects, skipping sweep")
		sentry.CaptureException(err)
		metrics.SnapshotRuns.WithLabelValues("error").Inc()
		return
	}

	capturedAt := time.Now().UTC()
	var alerts []models.Alert
	failed := false

	// Deliberately no shared cancellation: one failing project must not
	// abort the other fetches mid-sweep.
	var g errgroup.Group
	g.SetLimit(fetchConcurrency)
	results := make([][]models.Alert, len(projects))
	for i := range projects {
		i := i
		g.Go(func() error {
			projectAlerts, err := sw.snapshotProject(ctx, &projects[i], capturedAt)
			if err != nil {
				sw.Logger.WithError(err).WithField("project_id", projects[i].ID).Error("Could not snapshot project")
				sentry.CaptureException(err)
				return err
			}
			results[i] = projectAlerts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		failed = true
	}
	for _, projectAlerts := range results {
		alerts = append(alerts, projectAlerts...)
	}

	if failed {
		metrics.SnapshotRuns.WithLabelValues("partial").Inc()
	} else {
		metrics.SnapshotRuns.WithLabelValues("ok").Inc()
	}

	// Wake live dashboard connections so they pick up the fresh counts.
	controller.NotifyLiveSubscribers()

	if len(alerts) > 0 {
		sw.Logger.WithField("alerts", len(alerts)).Warn("Alert rules fired during sweep")
		if sw.AlertMailer != nil {
			if err := sw.AlertMailer.SendDigest(alerts); err != nil {
				sw.Logger.WithError(err).Error("Could not send alert digest")
				sentry.CaptureException(err)
			}
		}
	}

	sw.Logger.WithFields(logrus.Fields{
		"projects": len(projects),
		"alerts":   len(alerts),
	}).Info("Snapshot sweep completed")
}

// snapshotProject classifies all three channels for one project, persists one
// row per stage, and returns the project's fired alerts.
func (sw *SnapshotWorker) snapshotProject(ctx context.Context, project *models.Project, capturedAt time.Time) ([]models.Alert, error) {
	var (
		contacts   []models.Contact
		activities []models.Activity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contacts, err = sw.CRM.GetProjectContacts(gctx, project.ID)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = sw.CRM.GetProjectActivities(gctx, project.ID, sw.ActivityLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch project data: %w", err)
	}

	var rows []models.FunnelSnapshot
	var callFunnel *models.FunnelResult
	for _, channel := range []funnel.Channel{funnel.ChannelCall, funnel.ChannelEmail, funnel.ChannelLinkedIn} {
		metrics.ClassifierRuns.WithLabelValues(string(channel), string(funnel.VariantCurrent)).Inc()
		result := funnel.Classify(project.ID, contacts, activities, channel, funnel.VariantCurrent, sw.Opt)
		if channel == funnel.ChannelCall {
			callFunnel = result
		}
		for _, stage := range result.Stages {
			rows = append(rows, models.FunnelSnapshot{
				ProjectID:     project.ID,
				Channel:       string(channel),
				SchemaVersion: result.SchemaVersion,
				StageKey:      stage.Key,
				ContactCount:  stage.Count,
				CapturedAt:    capturedAt,
			})
		}
	}

	if err := sw.DB.Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to persist snapshot rows: %w", err)
	}

	return controller.EvaluateAlerts(project, activities, callFunnel, capturedAt, sw.StalledDays, sw.ConnectRateThreshold), nil
}
