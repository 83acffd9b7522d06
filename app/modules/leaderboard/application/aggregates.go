package leaderboardservice

import (
	"fmt"

	groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"
	scoredomain "github.com/Black-And-White-Club/outing-bot/app/modules/score/domain"
)

// HolePoint is one recorded hole of a player's series.
type HolePoint struct {
	Round int `json:"round"`
	Hole  int `json:"hole"`
	Score int `json:"score"`
}

// PlayerSeries lists a player's recorded holes in round-then-hole order.
func PlayerSeries(book scoredomain.Book, player string) ([]HolePoint, error) {
	sheet, ok := book.Sheet(player)
	if !ok {
		return nil, scoredomain.ErrSheetNotFound
	}

	var points []HolePoint
	for r, round := range sheet.Rounds {
		for h, slot := range round {
			if v, ok := slot.Value(); ok {
				points = append(points, HolePoint{Round: r + 1, Hole: h + 1, Score: v})
			}
		}
	}
	return points, nil
}

// GroupAverage is the mean hole score over every recorded hole of a group.
type GroupAverage struct {
	Group   string  `json:"group"`
	Index   int     `json:"index"`
	Average float64 `json:"average"`
}

// GroupAverages computes per-group averages. Groups without a single
// recorded hole are omitted.
func GroupAverages(groups []groupservice.Group, book scoredomain.Book) []GroupAverage {
	var out []GroupAverage
	for i, g := range groups {
		total, holes := 0, 0
		for _, player := range g {
			sheet, ok := book.Sheet(player)
			if !ok {
				continue
			}
			for _, v := range sheet.Recorded() {
				total += v
				holes++
			}
		}
		if holes == 0 {
			continue
		}
		out = append(out, GroupAverage{
			Group:   fmt.Sprintf("Group %d", i+1),
			Index:   i,
			Average: float64(total) / float64(holes),
		})
	}
	return out
}
