package controller

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funnelboard/funnel"
	"funnelboard/models"
)

func datePtr(t time.Time) *time.Time { return &t }

func callActivity(contactID, owner, callStatus string, at time.Time) models.Activity {
	return models.Activity{
		Type:       models.ActivityTypeCall,
		ContactID:  contactID,
		Owner:      owner,
		CallDate:   datePtr(at),
		CallStatus: callStatus,
		CreatedAt:  at,
	}
}

func TestAggregatePerformance_CountsAndOrder(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	activities := []models.Activity{
		callActivity("c1", "amara", models.CallStatusDemoCompleted, now),
		callActivity("c2", "amara", models.CallStatusInterested, now),
		callActivity("c3", "bo", models.CallStatusDemoCompleted, now),
		callActivity("c4", "bo", models.CallStatusNotInterested, now),
		callActivity("c5", "bo", models.CallStatusDemoBooked, now),
		{Type: models.ActivityTypeEmail, ContactID: "c6", Owner: "amara", EmailDate: datePtr(now), CreatedAt: now},
		{Type: models.ActivityTypeLinkedIn, ContactID: "c7", Owner: "", CreatedAt: now},
	}

	entries := AggregatePerformance(activities, time.Time{})
	require.Len(t, entries, 3)

	// amara and bo both have one SQL; bo has more connects and sorts first.
	assert.Equal(t, "bo", entries[0].Owner)
	assert.Equal(t, 3, entries[0].CallsAttempted)
	assert.Equal(t, 3, entries[0].CallsConnected)
	assert.Equal(t, 1, entries[0].DemosBooked)
	assert.Equal(t, 1, entries[0].SQLs)

	assert.Equal(t, "amara", entries[1].Owner)
	assert.Equal(t, 2, entries[1].CallsAttempted)
	assert.Equal(t, 1, entries[1].EmailsSent)
	assert.Equal(t, 1, entries[1].SQLs)

	assert.Equal(t, "Unassigned", entries[2].Owner)
	assert.Equal(t, 1, entries[2].LinkedInTouch)
}

func TestAggregatePerformance_NameTieBreak(t *testing.T) {
	now := time.Now()
	activities := []models.Activity{
		callActivity("c1", "zoe", models.CallStatusCallBack, now),
		callActivity("c2", "ada", models.CallStatusCallBack, now),
	}

	entries := AggregatePerformance(activities, time.Time{})
	require.Len(t, entries, 2)
	assert.Equal(t, "ada", entries[0].Owner)
	assert.Equal(t, "zoe", entries[1].Owner)
}

func TestAggregatePerformance_WindowFilter(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	activities := []models.Activity{
		callActivity("c1", "amara", models.CallStatusInterested, now.Add(-2*time.Hour)),
		callActivity("c2", "amara", models.CallStatusInterested, now.Add(-10*24*time.Hour)),
	}

	entries := AggregatePerformance(activities, RangeStart("week", now))
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].CallsAttempted)
}

func TestRangeStart(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(-24*time.Hour), RangeStart("today", now))
	assert.Equal(t, now.Add(-7*24*time.Hour), RangeStart("week", now))
	assert.Equal(t, now.Add(-30*24*time.Hour), RangeStart("month", now))
	assert.True(t, RangeStart("all", now).IsZero())
}

func TestBuildPipeline_OrderAndDefaultStage(t *testing.T) {
	contacts := []models.Contact{
		{ID: "c1", Stage: "Interested"},
		{ID: "c2", Stage: "Interested"},
		{ID: "c3", Stage: "SQL"},
		{ID: "c4"},
	}

	pipeline := BuildPipeline(contacts)
	require.Len(t, pipeline, 3)
	assert.Equal(t, models.StageCount{Key: "Interested", Label: "Interested", Count: 2}, pipeline[0])
	// Equal counts fall back to name order.
	assert.Equal(t, "New", pipeline[1].Key)
	assert.Equal(t, "SQL", pipeline[2].Key)
}

func TestBuildOverview_RatesNeverOverflow(t *testing.T) {
	contacts := []models.Contact{{ID: "c1"}}
	activities := []models.Activity{
		callActivity("c1", "amara", models.CallStatusDemoBooked, time.Now()),
	}
	callFunnel := funnel.Classify("p1", contacts, activities, funnel.ChannelCall, funnel.VariantCurrent, funnel.DefaultOptions())

	overview := BuildOverview(contacts, activities, callFunnel)
	assert.Equal(t, 1, overview.TotalProspects)
	assert.Equal(t, 100.0, overview.ConnectRate)
	assert.Equal(t, 100.0, overview.DemoBookRate)

	// No connects at all: every rate reads zero, never NaN.
	empty := funnel.Classify("p1", nil, nil, funnel.ChannelCall, funnel.VariantCurrent, funnel.DefaultOptions())
	overview = BuildOverview(nil, nil, empty)
	assert.Zero(t, overview.ConnectRate)
	assert.Zero(t, overview.DemoBookRate)
}

func TestBuildFollowUpSummary(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)

	activities := []models.Activity{
		{Type: models.ActivityTypeCall, ContactID: "c1", NextActionDate: datePtr(now.Add(-48 * time.Hour))},
		{Type: models.ActivityTypeCall, ContactID: "c2", NextActionDate: datePtr(now.Add(2 * time.Hour))},
		{Type: models.ActivityTypeCall, ContactID: "c3", NextActionDate: datePtr(now.Add(3 * 24 * time.Hour))},
		{Type: models.ActivityTypeCall, ContactID: "c4", NextActionDate: datePtr(now.Add(30 * 24 * time.Hour))},
		{Type: models.ActivityTypeCall, ContactID: "c5"},
	}

	summary := BuildFollowUpSummary(activities, now)
	assert.Equal(t, 1, summary.Overdue)
	assert.Equal(t, 1, summary.DueToday)
	assert.Equal(t, 1, summary.Upcoming)
}

func TestEvaluateAlerts(t *testing.T) {
	now := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	project := &models.Project{ID: "p1", Name: "Acme Outreach"}
	opt := funnel.DefaultOptions()

	t.Run("stalled project", func(t *testing.T) {
		activities := []models.Activity{
			callActivity("c1", "amara", models.CallStatusInterested, now.Add(-10*24*time.Hour)),
		}
		callFunnel := funnel.Classify("p1", nil, activities, funnel.ChannelCall, funnel.VariantCurrent, opt)

		alerts := EvaluateAlerts(project, activities, callFunnel, now, 7, 10)
		require.Len(t, alerts, 1)
		assert.Equal(t, "stalled", alerts[0].Kind)
		assert.Equal(t, "p1", alerts[0].ProjectID)
	})

	t.Run("low connect rate needs a real sample", func(t *testing.T) {
		var activities []models.Activity
		for i := 0; i < 20; i++ {
			a := callActivity(string(rune('a'+i)), "amara", "", now)
			activities = append(activities, a)
		}
		callFunnel := funnel.Classify("p1", nil, activities, funnel.ChannelCall, funnel.VariantCurrent, opt)

		alerts := EvaluateAlerts(project, activities, callFunnel, now, 7, 10)
		require.Len(t, alerts, 1)
		assert.Equal(t, "low_connect_rate", alerts[0].Kind)

		// Five attempts is below the sample floor: no rate alert.
		callFunnel = funnel.Classify("p1", nil, activities[:5], funnel.ChannelCall, funnel.VariantCurrent, opt)
		alerts = EvaluateAlerts(project, activities[:5], callFunnel, now, 7, 10)
		assert.Empty(t, alerts)
	})

	t.Run("healthy project", func(t *testing.T) {
		activities := []models.Activity{
			callActivity("c1", "amara", models.CallStatusInterested, now.Add(-time.Hour)),
		}
		callFunnel := funnel.Classify("p1", nil, activities, funnel.ChannelCall, funnel.VariantCurrent, opt)

		alerts := EvaluateAlerts(project, activities, callFunnel, now, 7, 10)
		assert.Empty(t, alerts)
	})
}

func TestTopPerformers(t *testing.T) {
	entries := []models.PerformanceEntry{{Owner: "a"}, {Owner: "b"}, {Owner: "c"}}
	assert.Len(t, TopPerformers(entries, 2), 2)
	assert.Len(t, TopPerformers(entries, 5), 3)
}
