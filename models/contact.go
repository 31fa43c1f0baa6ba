package models

import "time"

// Contact represents a single prospect belonging to a project. Contacts are
// owned and mutated by the upstream CRM; this service only reads snapshots.
type Contact struct {
	ID         string    `json:"_id"`
	ProjectID  string    `json:"projectId,omitempty"`
	Name       string    `json:"name"`
	Company    string    `json:"company,omitempty"`
	Email      string    `json:"email,omitempty"`
	FirstPhone string    `json:"firstPhone,omitempty"`
	Stage      string    `json:"stage,omitempty"`
	Priority   string    `json:"priority,omitempty"`
	Owner      string    `json:"owner,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Project groups contacts and their activities for one outreach engagement.
type Project struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Client    string    `json:"client,omitempty"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
