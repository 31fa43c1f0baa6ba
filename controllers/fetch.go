package controller

import (
	"context"

	"golang.org/x/sync/errgroup"

	"funnelboard/crm"
	"funnelboard/funnel"
	"funnelboard/metrics"
	"funnelboard/models"
)

// fetchProjectData pulls one project's contacts and activities concurrently.
// A nil error with nil slices means the CRM answered but had nothing.
func fetchProjectData(ctx context.Context, svc crm.Service, projectID string, limit int) ([]models.Contact, []models.Activity, error) {
	var (
		contacts   []models.Contact
		activities []models.Activity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		contacts, err = svc.GetProjectContacts(gctx, projectID)
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = svc.GetProjectActivities(gctx, projectID, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return contacts, activities, nil
}

// classify wraps the funnel classifier with run accounting.
func classify(projectID string, contacts []models.Contact, activities []models.Activity, channel funnel.Channel, variant funnel.Variant, opt funnel.Options) *models.FunnelResult {
	metrics.ClassifierRuns.WithLabelValues(string(channel), string(variant)).Inc()
	return funnel.Classify(projectID, contacts, activities, channel, variant, opt)
}

// classifyAll delegates to the funnel package with run accounting per channel.
func classifyAll(projectID string, contacts []models.Contact, activities []models.Activity, opt funnel.Options) map[string]*models.FunnelResult {
	for _, channel := range []funnel.Channel{funnel.ChannelCall, funnel.ChannelEmail, funnel.ChannelLinkedIn} {
		metrics.ClassifierRuns.WithLabelValues(string(channel), string(funnel.VariantCurrent)).Inc()
	}
	return funnel.ClassifyAll(projectID, contacts, activities, opt)
}

func parseChannel(s string) (funnel.Channel, bool) {
	switch s {
	case "call", "coldCalling", "cold-calling":
		return funnel.ChannelCall, true
	case "email":
		return funnel.ChannelEmail, true
	case "linkedin":
		return funnel.ChannelLinkedIn, true
	}
	return "", false
}

func parseVariant(s string) (funnel.Variant, bool) {
	switch s {
	case "", "v2":
		return funnel.VariantCurrent, true
	case "v1", "legacy":
		return funnel.VariantLegacy, true
	}
	return "", false
}
