package funnel

import "funnelboard/models"

// Channel selects which activity type a funnel is built from.
type Channel string

const (
	ChannelCall     Channel = models.ActivityTypeCall
	ChannelEmail    Channel = models.ActivityTypeEmail
	ChannelLinkedIn Channel = models.ActivityTypeLinkedIn
)

// Variant selects which stage scheme to apply. The CRM historically shipped
// two incompatible cold-calling schemes; both are kept selectable instead of
// being merged or sniffed from payload shape.
type Variant string

const (
	// VariantCurrent is the 10-stage cold-calling scheme.
	VariantCurrent Variant = "v2"
	// VariantLegacy is the older CIP/followups scheme.
	VariantLegacy Variant = "v1"
)

// Stage keys, current cold-calling scheme.
const (
	StageProspectData         = "prospectData"
	StageCallsAttempted       = "callsAttempted"
	StageCallsConnected       = "callsConnected"
	StageDecisionMakerReached = "decisionMakerReached"
	StageInterested           = "interested"
	StageDetailsShared        = "detailsShared"
	StageDemoBooked           = "demoBooked"
	StageDemoCompleted        = "demoCompleted"
	StageSQL                  = "sql"
	StageWon                  = "won"
)

// Stage keys, legacy scheme (shared by email and linkedin funnels).
const (
	StageCallSent        = "callSent"
	StageEmailSent       = "emailSent"
	StageConnectionSent  = "connectionSent"
	StageAccepted        = "accepted"
	StageFollowups       = "followups"
	StageCIP             = "cip"
	StageMeetingProposed = "meetingProposed"
	StageScheduled       = "scheduled"
	StageCompleted       = "completed"
)

// Options tune classification thresholds.
type Options struct {
	// SQLNotesMinLen is the conversation-notes length above which an
	// "Interested" call counts as a sales-qualified lead.
	SQLNotesMinLen int
}

// DefaultOptions reproduces the thresholds the dashboards have always used.
func DefaultOptions() Options {
	return Options{SQLNotesMinLen: 50}
}

// StageDef is one row of the stage-definition table. Exactly one of Match and
// Grouped is set: Match tests a single activity, Grouped tests a contact's
// whole activity group (needed for follow-up style rules).
type StageDef struct {
	Key     string
	Label   string
	Match   func(a *models.Activity, opt Options) bool
	Grouped func(group []*models.Activity, opt Options) bool
}

var callConnectedStatuses = map[string]struct{}{
	models.CallStatusInterested:    {},
	models.CallStatusNotInterested: {},
	models.CallStatusCallBack:      {},
	models.CallStatusFuture:        {},
	models.CallStatusDetailsShared: {},
	models.CallStatusDemoBooked:    {},
	models.CallStatusDemoCompleted: {},
	models.CallStatusExisting:      {},
}

var decisionMakerStatuses = map[string]struct{}{
	models.CallStatusInterested:    {},
	models.CallStatusDetailsShared: {},
	models.CallStatusDemoBooked:    {},
	models.CallStatusDemoCompleted: {},
}

// IsCallConnected reports whether a call outcome means the dial reached a
// person, regardless of how the conversation went.
func IsCallConnected(callStatus string) bool {
	_, ok := callConnectedStatuses[callStatus]
	return ok
}

func callStatusIs(status string) func(*models.Activity, Options) bool {
	return func(a *models.Activity, _ Options) bool {
		return a.CallStatus == status
	}
}

func statusIs(status string) func(*models.Activity, Options) bool {
	return func(a *models.Activity, _ Options) bool {
		return a.Status == status
	}
}

// moreThanOneTouch is the legacy follow-up rule, preserved verbatim: more than
// one activity with non-empty notes, or more than one activity total.
func moreThanOneTouch(group []*models.Activity, _ Options) bool {
	withNotes := 0
	for _, a := range group {
		if a.ConversationNotes != "" {
			withNotes++
		}
	}
	return withNotes > 1 || len(group) > 1
}

func moreThanOneActivity(group []*models.Activity, _ Options) bool {
	return len(group) > 1
}

var callStagesCurrent = []StageDef{
	{Key: StageCallsAttempted, Label: "Calls Attempted", Match: func(a *models.Activity, _ Options) bool {
		return a.CallDate != nil
	}},
	{Key: StageCallsConnected, Label: "Calls Connected", Match: func(a *models.Activity, _ Options) bool {
		_, ok := callConnectedStatuses[a.CallStatus]
		return ok
	}},
	{Key: StageDecisionMakerReached, Label: "Decision Maker Reached", Match: func(a *models.Activity, _ Options) bool {
		_, ok := decisionMakerStatuses[a.CallStatus]
		return ok
	}},
	{Key: StageInterested, Label: "Interested", Match: callStatusIs(models.CallStatusInterested)},
	{Key: StageDetailsShared, Label: "Details Shared", Match: callStatusIs(models.CallStatusDetailsShared)},
	{Key: StageDemoBooked, Label: "Demo Booked", Match: callStatusIs(models.CallStatusDemoBooked)},
	{Key: StageDemoCompleted, Label: "Demo Completed", Match: callStatusIs(models.CallStatusDemoCompleted)},
	{Key: StageSQL, Label: "SQL", Match: func(a *models.Activity, opt Options) bool {
		if a.CallStatus == models.CallStatusDemoCompleted || a.Status == models.StatusSQL {
			return true
		}
		return a.CallStatus == models.CallStatusInterested && len(a.ConversationNotes) > opt.SQLNotesMinLen
	}},
	{Key: StageWon, Label: "Won", Match: statusIs(models.StatusWon)},
}

var callStagesLegacy = []StageDef{
	{Key: StageCallSent, Label: "Calls Made", Match: func(a *models.Activity, _ Options) bool {
		return a.CallDate != nil
	}},
	{Key: StageAccepted, Label: "Accepted", Match: statusIs(models.StatusInterested)},
	{Key: StageFollowups, Label: "Follow Ups", Grouped: moreThanOneTouch},
	{Key: StageCIP, Label: "CIP", Match: statusIs(models.StatusCIP)},
	{Key: StageMeetingProposed, Label: "Meeting Proposed", Match: statusIs(models.StatusMeetingProposed)},
	{Key: StageScheduled, Label: "Meeting Scheduled", Match: statusIs(models.StatusMeetingScheduled)},
	{Key: StageCompleted, Label: "Meeting Completed", Match: statusIs(models.StatusMeetingCompleted)},
	{Key: StageSQL, Label: "SQL", Match: statusIs(models.StatusSQL)},
}

var emailStages = []StageDef{
	{Key: StageEmailSent, Label: "Emails Sent", Match: func(a *models.Activity, _ Options) bool {
		return a.EmailDate != nil
	}},
	{Key: StageAccepted, Label: "Accepted", Match: statusIs(models.StatusInterested)},
	{Key: StageCIP, Label: "CIP", Match: statusIs(models.StatusCIP)},
	{Key: StageMeetingProposed, Label: "Meeting Proposed", Match: statusIs(models.StatusMeetingProposed)},
	{Key: StageScheduled, Label: "Meeting Scheduled", Match: statusIs(models.StatusMeetingScheduled)},
	{Key: StageCompleted, Label: "Meeting Completed", Match: statusIs(models.StatusMeetingCompleted)},
	{Key: StageSQL, Label: "SQL", Match: statusIs(models.StatusSQL)},
}

var linkedinStages = []StageDef{
	{Key: StageConnectionSent, Label: "Connections Sent", Match: func(a *models.Activity, _ Options) bool {
		return bool(a.LnRequestSent)
	}},
	{Key: StageAccepted, Label: "Accepted", Match: func(a *models.Activity, _ Options) bool {
		return bool(a.Connected)
	}},
	{Key: StageFollowups, Label: "Follow Ups", Grouped: moreThanOneActivity},
	{Key: StageCIP, Label: "CIP", Match: statusIs(models.StatusCIP)},
	{Key: StageMeetingProposed, Label: "Meeting Proposed", Match: statusIs(models.StatusMeetingProposed)},
	{Key: StageScheduled, Label: "Meeting Scheduled", Match: statusIs(models.StatusMeetingScheduled)},
	{Key: StageCompleted, Label: "Meeting Completed", Match: statusIs(models.StatusMeetingCompleted)},
	{Key: StageSQL, Label: "SQL", Match: statusIs(models.StatusSQL)},
}

// StageTable returns the stage definitions for a channel and variant. The
// variant only changes the cold-calling scheme; email and linkedin have a
// single scheme.
func StageTable(channel Channel, variant Variant) []StageDef {
	switch channel {
	case ChannelCall:
		if variant == VariantLegacy {
			return callStagesLegacy
		}
		return callStagesCurrent
	case ChannelEmail:
		return emailStages
	case ChannelLinkedIn:
		return linkedinStages
	}
	return nil
}
