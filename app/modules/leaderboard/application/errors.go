package leaderboardservice

import "errors"

// Missing-data conditions. Callers surface them as informational messages.
var (
	// ErrNoGroups indicates a summary was requested before any allocation.
	ErrNoGroups = errors.New("please allocate groups first")

	// ErrNoSummary indicates an export was requested before a summary was generated.
	ErrNoSummary = errors.New("no summary has been generated yet")

	// ErrNoChartData indicates there are no recorded scores to plot.
	ErrNoChartData = errors.New("no scores recorded yet")
)
