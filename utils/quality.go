package utils

import (
	"github.com/badoux/checkmail"

	"funnelboard/models"
)

// ValidEmailFormat reports whether an address is syntactically valid. Only
// the format is checked; MX lookups are too slow for a read path that scans
// every contact.
func ValidEmailFormat(email string) bool {
	return checkmail.ValidateFormat(email) == nil
}

// ScanDataQuality counts the record defects that skew funnel numbers:
// contacts that cannot be reached on a channel and activities that the
// classifier has to skip.
func ScanDataQuality(contacts []models.Contact, activities []models.Activity) models.DataQualityReport {
	var report models.DataQualityReport

	for _, c := range contacts {
		if c.Email == "" {
			report.ContactsMissingEmail++
		} else if !ValidEmailFormat(c.Email) {
			report.ContactsInvalidEmail++
		}
		if c.FirstPhone == "" {
			report.ContactsMissingPhone++
		}
	}

	for i := range activities {
		a := &activities[i]
		if a.ContactID == "" {
			report.ActivitiesNoContact++
		}
		if a.Type == models.ActivityTypeCall && a.CallDate == nil {
			report.ActivitiesUndatedCalls++
		}
	}

	return report
}
