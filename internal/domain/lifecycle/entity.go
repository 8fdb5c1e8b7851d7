package lifecycle

import (
	"time"
)

// EventType is the closed set of HR lifecycle events.
type EventType string

const (
	// Onboarding
	EventCreated             EventType = "created"
	EventJoined              EventType = "joined"
	EventOnboardingStarted   EventType = "onboarding_started"
	EventOnboardingCompleted EventType = "onboarding_completed"

	// Probation
	EventProbationStarted   EventType = "probation_started"
	EventProbationConfirmed EventType = "probation_confirmed"
	EventProbationExtended  EventType = "probation_extended"
	EventProbationFailed    EventType = "probation_failed"

	// Career changes
	EventPromoted           EventType = "promoted"
	EventDemoted            EventType = "demoted"
	EventTeamChanged        EventType = "team_changed"
	EventDesignationChanged EventType = "designation_changed"

	// Status changes
	EventActivated   EventType = "activated"
	EventDeactivated EventType = "deactivated"
	EventSuspended   EventType = "suspended"

	// Exit
	EventResignationSubmitted EventType = "resignation_submitted"
	EventResignationAccepted  EventType = "resignation_accepted"
	EventTerminated           EventType = "terminated"
	EventRetired              EventType = "retired"
)

// ValidEventTypes lists every accepted event type.
func ValidEventTypes() []EventType {
	return []EventType{
		EventCreated, EventJoined, EventOnboardingStarted, EventOnboardingCompleted,
		EventProbationStarted, EventProbationConfirmed, EventProbationExtended, EventProbationFailed,
		EventPromoted, EventDemoted, EventTeamChanged, EventDesignationChanged,
		EventActivated, EventDeactivated, EventSuspended,
		EventResignationSubmitted, EventResignationAccepted, EventTerminated, EventRetired,
	}
}

// IsValid reports whether t belongs to the closed event-type set.
func (t EventType) IsValid() bool {
	for _, v := range ValidEventTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// IsExit reports whether the event ends the employment relationship; exit
// events feed turnover reporting.
func (t EventType) IsExit() bool {
	switch t {
	case EventResignationAccepted, EventTerminated, EventRetired:
		return true
	}
	return false
}

// Event is an append-only audit record. Rows are never updated or deleted.
type Event struct {
	ID          string
	CompanyID   string
	EmployeeID  string
	Type        EventType
	OccurredAt  time.Time
	TriggeredBy *string
	Description *string
	Metadata    map[string]string
	CreatedAt   time.Time

	// Joined for display
	EmployeeName    *string
	TriggeredByName *string
}
