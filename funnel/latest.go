package funnel

import (
	"time"

	"funnelboard/models"
)

// ActivityDate returns the ordering timestamp for an activity: the channel's
// own date field when set, otherwise the record's creation time.
func ActivityDate(a *models.Activity) time.Time {
	switch a.Type {
	case models.ActivityTypeCall:
		if a.CallDate != nil {
			return *a.CallDate
		}
	case models.ActivityTypeEmail:
		if a.EmailDate != nil {
			return *a.EmailDate
		}
	case models.ActivityTypeLinkedIn:
		if a.LinkedinDate != nil {
			return *a.LinkedinDate
		}
	}
	return a.CreatedAt
}

// LatestStatuses resolves each contact's displayed status from its
// chronologically latest activity. A later-or-equal timestamp wins, so on a
// tie the activity seen last in input order takes precedence. Contacts with
// no dated status fall back to their own CRM stage, then to "New".
func LatestStatuses(contacts []models.Contact, activities []models.Activity) map[string]string {
	type latest struct {
		at     time.Time
		status string
	}
	byContact := make(map[string]latest, len(contacts))

	for i := range activities {
		a := &activities[i]
		if a.ContactID == "" {
			continue
		}
		at := ActivityDate(a)
		if cur, ok := byContact[a.ContactID]; !ok || !at.Before(cur.at) {
			byContact[a.ContactID] = latest{at: at, status: a.Status}
		}
	}

	out := make(map[string]string, len(contacts))
	for _, c := range contacts {
		status := byContact[c.ID].status
		if status == "" {
			status = c.Stage
		}
		if status == "" {
			status = "New"
		}
		out[c.ID] = status
	}
	return out
}

// ProspectRoster builds the drill-down rows for the prospectData stage.
func ProspectRoster(contacts []models.Contact, activities []models.Activity) []models.ProspectRow {
	statuses := LatestStatuses(contacts, activities)
	rows := make([]models.ProspectRow, 0, len(contacts))
	for _, c := range contacts {
		rows = append(rows, models.ProspectRow{
			ContactID:    c.ID,
			Name:         c.Name,
			Company:      c.Company,
			Email:        c.Email,
			Phone:        c.FirstPhone,
			Priority:     c.Priority,
			LatestStatus: statuses[c.ID],
		})
	}
	return rows
}
