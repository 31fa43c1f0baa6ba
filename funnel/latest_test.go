package funnel

import (
	"testing"
	"time"

	"funnelboard/models"

	"github.com/stretchr/testify/assert"
)

func TestActivityDate_PrefersChannelDate(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	callAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	emailAt := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		a    models.Activity
		want time.Time
	}{
		{
			name: "call uses callDate",
			a:    models.Activity{Type: models.ActivityTypeCall, CallDate: timePtr(callAt), EmailDate: timePtr(emailAt), CreatedAt: created},
			want: callAt,
		},
		{
			name: "call without callDate falls back to createdAt",
			a:    models.Activity{Type: models.ActivityTypeCall, EmailDate: timePtr(emailAt), CreatedAt: created},
			want: created,
		},
		{
			name: "email uses emailDate",
			a:    models.Activity{Type: models.ActivityTypeEmail, EmailDate: timePtr(emailAt), CreatedAt: created},
			want: emailAt,
		},
		{
			name: "linkedin without linkedinDate falls back to createdAt",
			a:    models.Activity{Type: models.ActivityTypeLinkedIn, CreatedAt: created},
			want: created,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActivityDate(&tt.a))
		})
	}
}

func TestLatestStatuses_LatestActivityWins(t *testing.T) {
	early := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	contacts := []models.Contact{
		{ID: "A", Stage: "Warm"},
		{ID: "B", Stage: "Cold Outreach"},
		{ID: "C"},
	}
	activities := []models.Activity{
		{Type: models.ActivityTypeCall, ContactID: "A", CallDate: timePtr(early), Status: models.StatusCIP},
		{Type: models.ActivityTypeCall, ContactID: "A", CallDate: timePtr(late), Status: models.StatusSQL},
		// B has an activity with no status: fall back to the contact stage.
		{Type: models.ActivityTypeCall, ContactID: "B", CallDate: timePtr(late)},
	}

	statuses := LatestStatuses(contacts, activities)

	assert.Equal(t, models.StatusSQL, statuses["A"])
	assert.Equal(t, "Cold Outreach", statuses["B"])
	assert.Equal(t, "New", statuses["C"])
}

func TestLatestStatuses_EqualTimestampLastSeenWins(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	contacts := []models.Contact{{ID: "A"}}
	activities := []models.Activity{
		{Type: models.ActivityTypeCall, ContactID: "A", CallDate: timePtr(at), Status: "First"},
		{Type: models.ActivityTypeCall, ContactID: "A", CallDate: timePtr(at), Status: "Second"},
	}

	statuses := LatestStatuses(contacts, activities)

	assert.Equal(t, "Second", statuses["A"])
}

func TestProspectRoster(t *testing.T) {
	contacts := []models.Contact{
		{ID: "A", Name: "Ada", Company: "Acme", Email: "ada@acme.test", FirstPhone: "111", Priority: "High"},
	}
	activities := []models.Activity{
		{Type: models.ActivityTypeCall, ContactID: "A", CreatedAt: time.Now(), Status: models.StatusInterested},
	}

	rows := ProspectRoster(contacts, activities)

	assert.Len(t, rows, 1)
	assert.Equal(t, "Ada", rows[0].Name)
	assert.Equal(t, models.StatusInterested, rows[0].LatestStatus)
}
