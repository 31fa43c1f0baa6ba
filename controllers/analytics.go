package controller

import (
	"sort"
	"time"

	"funnelboard/funnel"
	"funnelboard/models"
	"funnelboard/utils"
)

// BuildOverview derives the KPI card values from a classified call funnel.
func BuildOverview(contacts []models.Contact, activities []models.Activity, callFunnel *models.FunnelResult) models.ProjectOverview {
	attempted := callFunnel.Count(funnel.StageCallsAttempted)
	connected := callFunnel.Count(funnel.StageCallsConnected)
	booked := callFunnel.Count(funnel.StageDemoBooked)

	return models.ProjectOverview{
		TotalProspects:  len(contacts),
		TotalActivities: len(activities),
		CallsAttempted:  attempted,
		CallsConnected:  connected,
		ConnectRate:     utils.Rate(connected, attempted),
		DemoBookRate:    utils.Rate(booked, connected),
		SQLCount:        callFunnel.Count(funnel.StageSQL),
		WonCount:        callFunnel.Count(funnel.StageWon),
	}
}

// BuildPipeline counts contacts by their free-text CRM stage label, largest
// bucket first, name as tie-break so the order is stable.
func BuildPipeline(contacts []models.Contact) []models.StageCount {
	counts := make(map[string]int)
	for _, c := range contacts {
		stage := c.Stage
		if stage == "" {
			stage = "New"
		}
		counts[stage]++
	}

	pipeline := make([]models.StageCount, 0, len(counts))
	for stage, n := range counts {
		pipeline = append(pipeline, models.StageCount{Key: stage, Label: stage, Count: n})
	}
	sort.Slice(pipeline, func(i, j int) bool {
		if pipeline[i].Count != pipeline[j].Count {
			return pipeline[i].Count > pipeline[j].Count
		}
		return pipeline[i].Key < pipeline[j].Key
	})
	return pipeline
}

// RangeStart maps a time-filter value to its window start. Zero time means
// no lower bound.
func RangeStart(rangeStr string, now time.Time) time.Time {
	switch rangeStr {
	case "today":
		return now.Add(-24 * time.Hour)
	case "week":
		return now.Add(-7 * 24 * time.Hour)
	case "month":
		return now.Add(-30 * 24 * time.Hour)
	default:
		return time.Time{}
	}
}

// AggregatePerformance rolls activities up per owner within a window.
// Owners are sorted by SQLs, then connects, then name, so rankings are
// deterministic.
func AggregatePerformance(activities []models.Activity, since time.Time) []models.PerformanceEntry {
	byOwner := make(map[string]*models.PerformanceEntry)
	get := func(owner string) *models.PerformanceEntry {
		if owner == "" {
			owner = "Unassigned"
		}
		e, ok := byOwner[owner]
		if !ok {
			e = &models.PerformanceEntry{Owner: owner}
			byOwner[owner] = e
		}
		return e
	}

	for i := range activities {
		a := &activities[i]
		if !since.IsZero() && funnel.ActivityDate(a).Before(since) {
			continue
		}
		e := get(a.Owner)
		switch a.Type {
		case models.ActivityTypeCall:
			if a.CallDate != nil {
				e.CallsAttempted++
			}
			if funnel.IsCallConnected(a.CallStatus) {
				e.CallsConnected++
			}
			if a.CallStatus == models.CallStatusDemoBooked {
				e.DemosBooked++
			}
			if a.CallStatus == models.CallStatusDemoCompleted || a.Status == models.StatusSQL {
				e.SQLs++
			}
		case models.ActivityTypeEmail:
			if a.EmailDate != nil {
				e.EmailsSent++
			}
			if a.Status == models.StatusSQL {
				e.SQLs++
			}
		case models.ActivityTypeLinkedIn:
			e.LinkedInTouch++
			if a.Status == models.StatusSQL {
				e.SQLs++
			}
		}
		if a.Status == models.StatusWon {
			e.Wins++
		}
	}

	entries := make([]models.PerformanceEntry, 0, len(byOwner))
	for _, e := range byOwner {
		e.ConnectRate = utils.Rate(e.CallsConnected, e.CallsAttempted)
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SQLs != entries[j].SQLs {
			return entries[i].SQLs > entries[j].SQLs
		}
		if entries[i].CallsConnected != entries[j].CallsConnected {
			return entries[i].CallsConnected > entries[j].CallsConnected
		}
		return entries[i].Owner < entries[j].Owner
	})
	return entries
}

// TopPerformers trims the sorted performance list.
func TopPerformers(entries []models.PerformanceEntry, n int) []models.PerformanceEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// BuildFollowUpSummary buckets scheduled next actions relative to now.
func BuildFollowUpSummary(activities []models.Activity, now time.Time) models.FollowUpSummary {
	var summary models.FollowUpSummary
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	for i := range activities {
		a := &activities[i]
		if a.NextActionDate == nil {
			continue
		}
		due := *a.NextActionDate
		switch {
		case due.Before(startOfDay):
			summary.Overdue++
		case due.Before(endOfDay):
			summary.DueToday++
		case due.Before(endOfDay.Add(7 * 24 * time.Hour)):
			summary.Upcoming++
		}
	}
	return summary
}

// minAttemptsForRateAlert keeps tiny samples from tripping the connect-rate
// alert.
const minAttemptsForRateAlert = 10

// EvaluateAlerts flags stalled projects and unusually low connect rates.
func EvaluateAlerts(project *models.Project, activities []models.Activity, callFunnel *models.FunnelResult, now time.Time, stalledDays, connectRateThreshold int) []models.Alert {
	var alerts []models.Alert

	var lastTouch time.Time
	for i := range activities {
		if at := funnel.ActivityDate(&activities[i]); at.After(lastTouch) {
			lastTouch = at
		}
	}
	if lastTouch.IsZero() || now.Sub(lastTouch) > time.Duration(stalledDays)*24*time.Hour {
		alerts = append(alerts, models.Alert{
			ProjectID:   project.ID,
			ProjectName: project.Name,
			Kind:        "stalled",
			Message:     "no outreach activity logged in the alert window",
		})
	}

	attempted := callFunnel.Count(funnel.StageCallsAttempted)
	connected := callFunnel.Count(funnel.StageCallsConnected)
	if attempted >= minAttemptsForRateAlert {
		if rate := utils.Rate(connected, attempted); rate < float64(connectRateThreshold) {
			alerts = append(alerts, models.Alert{
				ProjectID:   project.ID,
				ProjectName: project.Name,
				Kind:        "low_connect_rate",
				Message:     "call connect rate is below the configured threshold",
			})
		}
	}

	return alerts
}
