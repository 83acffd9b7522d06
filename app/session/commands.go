package session

import (
	"strings"
	"time"

	groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"
	leaderboardservice "github.com/Black-And-White-Club/outing-bot/app/modules/leaderboard/application"
	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	scoredomain "github.com/Black-And-White-Club/outing-bot/app/modules/score/domain"
)

// Command transforms a snapshot. Apply must not modify its argument; on
// error the returned State is ignored.
type Command interface {
	Name() string
	Apply(State) (State, []Event, error)
}

// AddMember inserts a new available member with an empty score sheet.
// Repeating an existing name is a successful no-op.
type AddMember struct {
	Member string
	Gender memberdomain.Gender
}

func (AddMember) Name() string { return "AddMember" }

func (c AddMember) Apply(s State) (State, []Event, error) {
	next := s.Clone()
	added, err := next.Directory.Add(c.Member, c.Gender)
	if err != nil {
		return s, nil, err
	}
	if !added {
		return s, nil, nil
	}

	m, _ := next.Directory.Get(strings.TrimSpace(c.Member))
	next.Scores.Open(m.Name)
	return next, []Event{{
		Type:    EventMemberAdded,
		Payload: MemberAddedPayload{Name: m.Name, Gender: string(m.Gender)},
	}}, nil
}

// RemoveMembers deletes members, their sheets and their group slots.
type RemoveMembers struct {
	Names []string
}

func (RemoveMembers) Name() string { return "RemoveMembers" }

func (c RemoveMembers) Apply(s State) (State, []Event, error) {
	next := s.Clone()
	removed := next.Directory.Remove(c.Names...)
	if len(removed) == 0 {
		return s, nil, nil
	}
	next.Scores.Delete(removed...)
	next.Groups = groupservice.Without(next.Groups, removed...)
	return next, []Event{{Type: EventMemberRemoved, Payload: MemberRemovedPayload{Names: removed}}}, nil
}

// SetAvailability flips one member's attendance.
type SetAvailability struct {
	Member    string
	Available bool
}

func (SetAvailability) Name() string { return "SetAvailability" }

func (c SetAvailability) Apply(s State) (State, []Event, error) {
	next := s.Clone()
	if err := next.Directory.SetAvailability(c.Member, c.Available); err != nil {
		return s, nil, err
	}
	return next, []Event{{
		Type:    EventMemberAvailabilityChanged,
		Payload: AvailabilityChangedPayload{Name: c.Member, Available: c.Available},
	}}, nil
}

// AllocateGroups replaces the groups with a random split of the available
// members. A nil Shuffler uses the default source.
type AllocateGroups struct {
	MaxGroupSize int
	Shuffler     groupservice.Shuffler
}

func (AllocateGroups) Name() string { return "AllocateGroups" }

func (c AllocateGroups) Apply(s State) (State, []Event, error) {
	groups, err := groupservice.Allocate(s.Directory.AvailableNames(), c.MaxGroupSize, c.Shuffler)
	if err != nil {
		return s, nil, err
	}
	next := s.Clone()
	next.Groups = groups
	return next, []Event{{Type: EventGroupsAllocated, Payload: GroupsPayload{Groups: groupservice.Clone(groups)}}}, nil
}

// SetGroups replaces the groups with a validated manual edit.
type SetGroups struct {
	Groups []groupservice.Group
}

func (SetGroups) Name() string { return "SetGroups" }

func (c SetGroups) Apply(s State) (State, []Event, error) {
	groups, err := groupservice.ValidateOverride(c.Groups, s.Directory)
	if err != nil {
		return s, nil, err
	}
	next := s.Clone()
	next.Groups = groups
	return next, []Event{{Type: EventGroupsUpdated, Payload: GroupsPayload{Groups: groupservice.Clone(groups)}}}, nil
}

// RecordScore stores or clears one hole.
type RecordScore struct {
	Member string
	Round  int
	Hole   int
	Score  scoredomain.HoleScore
}

func (RecordScore) Name() string { return "RecordScore" }

func (c RecordScore) Apply(s State) (State, []Event, error) {
	next := s.Clone()
	if err := next.Scores.SetScore(c.Member, c.Round, c.Hole, c.Score); err != nil {
		return s, nil, err
	}

	payload := ScoreRecordedPayload{Member: c.Member, Round: c.Round, Hole: c.Hole}
	if v, ok := c.Score.Value(); ok {
		payload.Strokes = &v
	}
	return next, []Event{{Type: EventScoreRecorded, Payload: payload}}, nil
}

// GenerateSummary stores the leader board built from the current groups.
type GenerateSummary struct {
	At time.Time
}

func (GenerateSummary) Name() string { return "GenerateSummary" }

func (c GenerateSummary) Apply(s State) (State, []Event, error) {
	if len(s.Groups) == 0 {
		return s, nil, leaderboardservice.ErrNoGroups
	}
	next := s.Clone()
	next.Summary = &leaderboardservice.Summary{
		GeneratedAt: c.At,
		Rows:        leaderboardservice.BuildSummary(next.Groups, next.Scores),
	}
	return next, []Event{{
		Type:    EventSummaryGenerated,
		Payload: SummaryGeneratedPayload{Players: len(next.Summary.Rows)},
	}}, nil
}

// SetOutingDate records the date carried into the track record. A zero Date
// clears it.
type SetOutingDate struct {
	Date time.Time
	Raw  string
}

func (SetOutingDate) Name() string { return "SetOutingDate" }

func (c SetOutingDate) Apply(s State) (State, []Event, error) {
	next := s.Clone()
	next.OutingDate = c.Date

	payload := OutingDatePayload{Raw: c.Raw}
	if !c.Date.IsZero() {
		payload.Date = c.Date.Format(time.DateOnly)
	}
	return next, []Event{{Type: EventOutingDateSet, Payload: payload}}, nil
}

// ResetSession starts the outing over from Directory.
type ResetSession struct {
	Directory memberdomain.Directory
}

func (ResetSession) Name() string { return "ResetSession" }

func (c ResetSession) Apply(s State) (State, []Event, error) {
	next := NewState(c.Directory.Clone())
	next.Version = s.Version
	return next, []Event{{Type: EventSessionReset, Payload: ResetPayload{Members: next.Directory.Len()}}}, nil
}
