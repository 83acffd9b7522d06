package leaderboardservice

import (
	"fmt"
	"strconv"
	"time"

	groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"
	scoredomain "github.com/Black-And-White-Club/outing-bot/app/modules/score/domain"
)

// NoData is the marker rendered in place of a missing statistic.
const NoData = "-"

// SummaryHeader lists the summary columns in export order.
var SummaryHeader = func() []string {
	h := []string{"Player"}
	for r := 1; r <= scoredomain.RoundCount; r++ {
		h = append(h, fmt.Sprintf("Round %d Total", r))
	}
	return append(h, "Overall Total", "Best Score", "Worst Score")
}()

// SummaryRow is one player's line of the leader board. Nil fields mean no
// recorded scores.
type SummaryRow struct {
	Player       string                       `json:"player"`
	RoundTotals  [scoredomain.RoundCount]*int `json:"round_totals"`
	OverallTotal *int                         `json:"overall_total"`
	Best         *int                         `json:"best_score"`
	Worst        *int                         `json:"worst_score"`
}

// Cells renders the row in SummaryHeader order.
func (r SummaryRow) Cells() []string {
	cells := make([]string, 0, len(SummaryHeader))
	cells = append(cells, r.Player)
	for _, t := range r.RoundTotals {
		cells = append(cells, formatStat(t))
	}
	return append(cells, formatStat(r.OverallTotal), formatStat(r.Best), formatStat(r.Worst))
}

// Summary is a generated leader board.
type Summary struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Rows        []SummaryRow `json:"rows"`
}

// BuildSummary produces one row per distinct player across the groups, in
// group order. Players without any recorded hole get a row of NoData.
func BuildSummary(groups []groupservice.Group, book scoredomain.Book) []SummaryRow {
	players := groupservice.Members(groups)
	rows := make([]SummaryRow, 0, len(players))

	for _, player := range players {
		row := SummaryRow{Player: player}
		sheet, ok := book.Sheet(player)
		if !ok {
			rows = append(rows, row)
			continue
		}

		for r := 1; r <= scoredomain.RoundCount; r++ {
			stats, err := sheet.RoundStats(r)
			if err == nil && stats.HasData() {
				row.RoundTotals[r-1] = intPtr(stats.Total)
			}
		}

		if overall := sheet.OverallStats(); overall.HasData() {
			row.OverallTotal = intPtr(overall.Total)
			row.Best = intPtr(overall.Best)
			row.Worst = intPtr(overall.Worst)
		}
		rows = append(rows, row)
	}

	return rows
}

func intPtr(v int) *int {
	return &v
}

func formatStat(v *int) string {
	if v == nil {
		return NoData
	}
	return strconv.Itoa(*v)
}
