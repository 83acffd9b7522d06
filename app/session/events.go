package session

import groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"

// Event types published after a command succeeds.
const (
	EventMemberAdded               = "member.added"
	EventMemberRemoved             = "member.removed"
	EventMemberAvailabilityChanged = "member.availability_changed"
	EventGroupsAllocated           = "groups.allocated"
	EventGroupsUpdated             = "groups.updated"
	EventScoreRecorded             = "score.recorded"
	EventSummaryGenerated          = "summary.generated"
	EventOutingDateSet             = "session.outing_date_set"
	EventSessionReset              = "session.reset"
)

// Event is a fact produced by a command.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type MemberAddedPayload struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

type MemberRemovedPayload struct {
	Names []string `json:"names"`
}

type AvailabilityChangedPayload struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type GroupsPayload struct {
	Groups []groupservice.Group `json:"groups"`
}

type ScoreRecordedPayload struct {
	Member  string `json:"member"`
	Round   int    `json:"round"`
	Hole    int    `json:"hole"`
	Strokes *int   `json:"strokes"`
}

type SummaryGeneratedPayload struct {
	Players int `json:"players"`
}

type OutingDatePayload struct {
	Date string `json:"date"`
	Raw  string `json:"raw"`
}

type ResetPayload struct {
	Members int `json:"members"`
}
