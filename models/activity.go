package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Activity types. The type discriminates which funnel an activity feeds and
// which of its channel-specific fields are meaningful.
const (
	ActivityTypeCall     = "call"
	ActivityTypeEmail    = "email"
	ActivityTypeLinkedIn = "linkedin"
)

// Cross-channel outcome statuses carried in the generic status field.
const (
	StatusWon              = "WON"
	StatusSQL              = "SQL"
	StatusCIP              = "CIP"
	StatusInterested       = "Interested"
	StatusMeetingProposed  = "Meeting Proposed"
	StatusMeetingScheduled = "Meeting Scheduled"
	StatusMeetingCompleted = "Meeting Completed"
)

// Call outcome statuses recorded by SDRs on call activities.
const (
	CallStatusInterested    = "Interested"
	CallStatusNotInterested = "Not Interested"
	CallStatusCallBack      = "Call Back"
	CallStatusFuture        = "Future"
	CallStatusDetailsShared = "Details Shared"
	CallStatusDemoBooked    = "Demo Booked"
	CallStatusDemoCompleted = "Demo Completed"
	CallStatusExisting      = "Existing"
)

// YesNoBool accepts both the legacy string encoding ("Yes"/"No") and plain
// booleans that newer CRM records use for the same fields.
type YesNoBool bool

func (b *YesNoBool) UnmarshalJSON(data []byte) error {
	switch strings.TrimSpace(string(data)) {
	case "true":
		*b = true
		return nil
	case "false", "null":
		*b = false
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = YesNoBool(strings.EqualFold(s, "yes"))
	return nil
}

// Activity is one logged outreach touch against a contact. Fields outside the
// activity's own channel are ignored when classifying.
type Activity struct {
	ID        string `json:"_id"`
	Type      string `json:"type"`
	ContactID string `json:"contactId,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
	Owner     string `json:"owner,omitempty"`
	Status    string `json:"status,omitempty"`

	// Call fields
	CallDate          *time.Time `json:"callDate,omitempty"`
	CallStatus        string     `json:"callStatus,omitempty"`
	ConversationNotes string     `json:"conversationNotes,omitempty"`
	NextAction        string     `json:"nextAction,omitempty"`
	NextActionDate    *time.Time `json:"nextActionDate,omitempty"`

	// Email fields
	EmailDate *time.Time `json:"emailDate,omitempty"`

	// LinkedIn fields
	LinkedinDate  *time.Time `json:"linkedinDate,omitempty"`
	LnRequestSent YesNoBool  `json:"lnRequestSent,omitempty"`
	Connected     YesNoBool  `json:"connected,omitempty"`

	// Fallback ordering key when the channel-specific date is absent.
	CreatedAt time.Time `json:"createdAt"`
}
