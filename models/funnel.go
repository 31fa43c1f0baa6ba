package models

import "time"

// StageCount is one funnel bar: the number of distinct contacts that reached
// the stage. Stages are mutually inclusive.
type StageCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// FunnelResult is the classified funnel for one project and channel.
// SchemaVersion is explicit so consumers never have to sniff field names to
// guess which stage scheme a payload uses.
type FunnelResult struct {
	ProjectID     string       `json:"projectId"`
	Channel       string       `json:"channel"`
	SchemaVersion string       `json:"schemaVersion"`
	Stages        []StageCount `json:"stages"`
	ComputedAt    time.Time    `json:"computedAt"`
}

// Count returns the count for a stage key, zero when the stage is absent.
func (r *FunnelResult) Count(key string) int {
	for _, s := range r.Stages {
		if s.Key == key {
			return s.Count
		}
	}
	return 0
}

// ProspectRow is one roster line in the prospect drill-down, with the status
// resolved from the contact's chronologically latest activity.
type ProspectRow struct {
	ContactID    string `json:"contactId"`
	Name         string `json:"name"`
	Company      string `json:"company,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Priority     string `json:"priority,omitempty"`
	LatestStatus string `json:"latestStatus"`
}

// PerformanceEntry aggregates one owner's activity over a time range.
type PerformanceEntry struct {
	Owner          string  `json:"owner"`
	CallsAttempted int     `json:"callsAttempted"`
	CallsConnected int     `json:"callsConnected"`
	EmailsSent     int     `json:"emailsSent"`
	LinkedInTouch  int     `json:"linkedinTouches"`
	DemosBooked    int     `json:"demosBooked"`
	SQLs           int     `json:"sqls"`
	Wins           int     `json:"wins"`
	ConnectRate    float64 `json:"connectRate"`
}

// ProjectOverview holds the KPI card values for one project.
type ProjectOverview struct {
	TotalProspects  int     `json:"totalProspects"`
	TotalActivities int     `json:"totalActivities"`
	CallsAttempted  int     `json:"callsAttempted"`
	CallsConnected  int     `json:"callsConnected"`
	ConnectRate     float64 `json:"connectRate"`
	DemoBookRate    float64 `json:"demoBookRate"`
	SQLCount        int     `json:"sqlCount"`
	WonCount        int     `json:"wonCount"`
}

// ProspectAnalytics is the full per-project dashboard payload.
type ProspectAnalytics struct {
	Overview      ProjectOverview          `json:"overview"`
	Pipeline      []StageCount             `json:"pipeline"`
	Funnels       map[string]*FunnelResult `json:"funnels"`
	Activities    []Activity               `json:"activities"`
	Prospects     []ProspectRow            `json:"prospects"`
	Team          []PerformanceEntry       `json:"team"`
	TopPerformers []PerformanceEntry       `json:"topPerformers"`
}

// Alert flags a project needing attention on the master dashboard.
type Alert struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
}

// DataQualityReport counts record defects that would skew funnel numbers.
type DataQualityReport struct {
	ContactsMissingEmail   int `json:"contactsMissingEmail"`
	ContactsMissingPhone   int `json:"contactsMissingPhone"`
	ContactsInvalidEmail   int `json:"contactsInvalidEmail"`
	ActivitiesNoContact    int `json:"activitiesWithoutContact"`
	ActivitiesUndatedCalls int `json:"undatedCallActivities"`
}

// Merge folds another project's defect counts into this report.
func (r *DataQualityReport) Merge(other DataQualityReport) {
	r.ContactsMissingEmail += other.ContactsMissingEmail
	r.ContactsMissingPhone += other.ContactsMissingPhone
	r.ContactsInvalidEmail += other.ContactsInvalidEmail
	r.ActivitiesNoContact += other.ActivitiesNoContact
	r.ActivitiesUndatedCalls += other.ActivitiesUndatedCalls
}

// ProjectRanking is one row of the master dashboard ranking table.
type ProjectRanking struct {
	ProjectID   string `json:"projectId"`
	ProjectName string `json:"projectName"`
	Prospects   int    `json:"prospects"`
	Attempted   int    `json:"attempted"`
	SQLs        int    `json:"sqls"`
	Wins        int    `json:"wins"`
}

// FollowUpSummary tracks scheduled next actions across projects.
type FollowUpSummary struct {
	DueToday int `json:"dueToday"`
	Overdue  int `json:"overdue"`
	Upcoming int `json:"upcoming"`
}

// MasterDashboard is the cross-project executive payload.
type MasterDashboard struct {
	Executive   ProjectOverview   `json:"executive"`
	Rankings    []ProjectRanking  `json:"rankings"`
	Alerts      []Alert           `json:"alerts"`
	DataQuality DataQualityReport `json:"dataQuality"`
	ColdCall    *FunnelResult     `json:"coldCall"`
	Email       *FunnelResult     `json:"email"`
	LinkedIn    *FunnelResult     `json:"linkedin"`
	FollowUp    FollowUpSummary   `json:"followUp"`
}
