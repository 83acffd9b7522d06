package scoredomain

import (
	"encoding/json"
	"math"
)

const (
	RoundCount = 4
	HoleCount  = 9

	MinStrokes = 1
	MaxStrokes = 20
)

// HoleScore is one hole slot: either unset or a recorded stroke count.
// The zero value is unset.
type HoleScore struct {
	strokes  int
	recorded bool
}

// Strokes returns a recorded hole score.
func Strokes(n int) HoleScore {
	return HoleScore{strokes: n, recorded: true}
}

// Unset returns an empty hole slot.
func Unset() HoleScore {
	return HoleScore{}
}

// Value returns the stroke count and whether one is recorded.
func (h HoleScore) Value() (int, bool) {
	return h.strokes, h.recorded
}

// IsSet reports whether a stroke count is recorded.
func (h HoleScore) IsSet() bool {
	return h.recorded
}

func (h HoleScore) MarshalJSON() ([]byte, error) {
	if !h.recorded {
		return []byte("null"), nil
	}
	return json.Marshal(h.strokes)
}

func (h *HoleScore) UnmarshalJSON(data []byte) error {
	var v *int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		*h = Unset()
		return nil
	}
	*h = Strokes(*v)
	return nil
}

// Round is the nine hole slots of one round.
type Round [HoleCount]HoleScore

// ScoreSheet holds four rounds of nine holes. It is a value type; copying
// it copies every slot.
type ScoreSheet struct {
	Rounds [RoundCount]Round `json:"rounds"`
}

// RoundStats summarizes the recorded holes of one round. Total and Average
// are meaningful only when Holes > 0.
type RoundStats struct {
	Total   int
	Average float64
	Holes   int
}

// HasData reports whether any hole of the round is recorded.
func (s RoundStats) HasData() bool {
	return s.Holes > 0
}

// OverallStats summarizes every recorded hole of every round.
type OverallStats struct {
	Total int
	Best  int
	Worst int
	Holes int
}

// HasData reports whether any hole is recorded.
func (s OverallStats) HasData() bool {
	return s.Holes > 0
}

// RoundStats computes the total and one-decimal average of round r (1-based).
func (s ScoreSheet) RoundStats(r int) (RoundStats, error) {
	if err := validateRound(r); err != nil {
		return RoundStats{}, err
	}

	var stats RoundStats
	for _, h := range s.Rounds[r-1] {
		if v, ok := h.Value(); ok {
			stats.Total += v
			stats.Holes++
		}
	}
	if stats.Holes > 0 {
		stats.Average = roundTenth(float64(stats.Total) / float64(stats.Holes))
	}
	return stats, nil
}

// OverallStats aggregates all four rounds.
func (s ScoreSheet) OverallStats() OverallStats {
	var stats OverallStats
	for _, round := range s.Rounds {
		for _, h := range round {
			v, ok := h.Value()
			if !ok {
				continue
			}
			if stats.Holes == 0 || v < stats.Best {
				stats.Best = v
			}
			if stats.Holes == 0 || v > stats.Worst {
				stats.Worst = v
			}
			stats.Total += v
			stats.Holes++
		}
	}
	return stats
}

// Recorded returns every recorded hole score in round-then-hole order.
func (s ScoreSheet) Recorded() []int {
	var out []int
	for _, round := range s.Rounds {
		for _, h := range round {
			if v, ok := h.Value(); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func roundTenth(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

func validateRound(r int) error {
	if r < 1 || r > RoundCount {
		return &InvalidScoreError{Field: "round", Value: r, Min: 1, Max: RoundCount}
	}
	return nil
}

func validateHole(h int) error {
	if h < 1 || h > HoleCount {
		return &InvalidScoreError{Field: "hole", Value: h, Min: 1, Max: HoleCount}
	}
	return nil
}

// ValidateStrokes checks a stroke count against the accepted range.
func ValidateStrokes(n int) error {
	if n < MinStrokes || n > MaxStrokes {
		return &InvalidScoreError{Field: "strokes", Value: n, Min: MinStrokes, Max: MaxStrokes}
	}
	return nil
}
