// Package session holds the per-user outing state and applies commands to it.
package session

import (
	"time"

	groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"
	leaderboardservice "github.com/Black-And-White-Club/outing-bot/app/modules/leaderboard/application"
	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	scoredomain "github.com/Black-And-White-Club/outing-bot/app/modules/score/domain"
)

// State is one snapshot of an outing. Commands never mutate a State they
// are given; they return a new one.
type State struct {
	Directory  memberdomain.Directory
	Groups     []groupservice.Group
	Scores     scoredomain.Book
	Summary    *leaderboardservice.Summary
	OutingDate time.Time
	Version    uint64
}

// NewState starts an outing from a roster. Every member gets an empty sheet.
func NewState(directory memberdomain.Directory) State {
	names := make([]string, 0, directory.Len())
	for _, m := range directory.List() {
		names = append(names, m.Name)
	}
	return State{
		Directory: directory,
		Groups:    []groupservice.Group{},
		Scores:    scoredomain.NewBook(names...),
	}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Directory = s.Directory.Clone()
	out.Groups = groupservice.Clone(s.Groups)
	out.Scores = s.Scores.Clone()
	if s.Summary != nil {
		summary := *s.Summary
		summary.Rows = append([]leaderboardservice.SummaryRow(nil), s.Summary.Rows...)
		out.Summary = &summary
	}
	return out
}
