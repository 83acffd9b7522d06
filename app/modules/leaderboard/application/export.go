package leaderboardservice

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// SummaryCSVName is the download name of the CSV export.
const SummaryCSVName = "golf_scores_summary.csv"

// SummaryCSV serializes rows with a header line.
func SummaryCSV(rows []SummaryRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(SummaryHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(r.Cells()); err != nil {
			return nil, fmt.Errorf("write csv row for %s: %w", r.Player, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
