package models

import (
	"time"

	"gorm.io/gorm"
)

// FunnelSnapshot is one persisted stage count captured by the snapshot worker.
// The upstream CRM keeps no aggregate history, so trend charts are served from
// these rows.
type FunnelSnapshot struct {
	gorm.Model
	ProjectID     string    `gorm:"not null;index:idx_snapshot_lookup" json:"project_id"`
	Channel       string    `gorm:"not null;index:idx_snapshot_lookup" json:"channel"`
	SchemaVersion string    `gorm:"not null" json:"schema_version"`
	StageKey      string    `gorm:"not null" json:"stage_key"`
	ContactCount  int       `gorm:"not null;default:0" json:"contact_count"`
	CapturedAt    time.Time `gorm:"not null;index" json:"captured_at"`
}

// HistoryPoint is one point on a trend line.
type HistoryPoint struct {
	CapturedAt time.Time `json:"capturedAt"`
	Count      int       `json:"count"`
}

// FunnelHistory maps stage keys to their time series.
type FunnelHistory struct {
	ProjectID string                    `json:"projectId"`
	Channel   string                    `json:"channel"`
	Days      int                       `json:"days"`
	Series    map[string][]HistoryPoint `json:"series"`
}
