package utils

import (
	"testing"
	"time"

	"funnelboard/models"

	"github.com/stretchr/testify/assert"
)

func TestScanDataQuality(t *testing.T) {
	now := time.Now()
	contacts := []models.Contact{
		{ID: "A", Email: "ada@acme.test", FirstPhone: "111"},
		{ID: "B", Email: "not-an-email", FirstPhone: ""},
		{ID: "C", Email: "", FirstPhone: "222"},
	}
	activities := []models.Activity{
		{Type: models.ActivityTypeCall, ContactID: "A", CallDate: &now},
		{Type: models.ActivityTypeCall, ContactID: "B"},
		{Type: models.ActivityTypeCall, ContactID: ""},
		{Type: models.ActivityTypeEmail, ContactID: "C"},
	}

	report := ScanDataQuality(contacts, activities)

	assert.Equal(t, 1, report.ContactsMissingEmail)
	assert.Equal(t, 1, report.ContactsInvalidEmail)
	assert.Equal(t, 1, report.ContactsMissingPhone)
	assert.Equal(t, 1, report.ActivitiesNoContact)
	// B's call and the orphaned call are both undated.
	assert.Equal(t, 2, report.ActivitiesUndatedCalls)
}

func TestValidEmailFormat(t *testing.T) {
	assert.True(t, ValidEmailFormat("sdr@example.com"))
	assert.False(t, ValidEmailFormat("missing-at-sign"))
}
