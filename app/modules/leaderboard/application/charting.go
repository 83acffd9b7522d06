package leaderboardservice

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	scoredomain "github.com/Black-And-White-Club/outing-bot/app/modules/score/domain"
)

// ChartPalette holds the colors used by the leader board charts.
type ChartPalette struct {
	Background drawing.Color
	TextColor  drawing.Color
	Bar        drawing.Color
	Rounds     [scoredomain.RoundCount]drawing.Color
}

// DefaultPalette is the fairway-green theme.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("FFFFFF"),
	TextColor:  drawing.ColorFromHex("1B1B1B"),
	Bar:        drawing.ColorFromHex("2D6A4F"),
	Rounds: [scoredomain.RoundCount]drawing.Color{
		drawing.ColorFromHex("2D6A4F"),
		drawing.ColorFromHex("D4A017"),
		drawing.ColorFromHex("4361EE"),
		drawing.ColorFromHex("C1121F"),
	},
}

// GeneratePlayerChart produces a PNG with one line per round, holes on the
// x-axis and strokes on the y-axis.
func GeneratePlayerChart(player string, points []HolePoint, palette ChartPalette) ([]byte, error) {
	if len(points) == 0 {
		return nil, ErrNoChartData
	}

	// Group the points by round, keeping hole order.
	var xs, ys [scoredomain.RoundCount][]float64
	maxScore := 0
	for _, p := range points {
		xs[p.Round-1] = append(xs[p.Round-1], float64(p.Hole))
		ys[p.Round-1] = append(ys[p.Round-1], float64(p.Score))
		maxScore = max(maxScore, p.Score)
	}

	var series []chart.Series
	for r := range scoredomain.RoundCount {
		if len(xs[r]) == 0 {
			continue
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("Round %d", r+1),
			XValues: xs[r],
			YValues: ys[r],
			Style: chart.Style{
				StrokeColor: palette.Rounds[r],
				StrokeWidth: 2,
				DotWidth:    4,
				DotColor:    palette.Rounds[r],
			},
		})
	}

	ticks := make([]chart.Tick, 0, scoredomain.HoleCount)
	for h := 1; h <= scoredomain.HoleCount; h++ {
		ticks = append(ticks, chart.Tick{Value: float64(h), Label: strconv.Itoa(h)})
	}

	graph := chart.Chart{
		Title:  player,
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:  "Hole",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(scoredomain.HoleCount) + 0.5},
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		YAxis: chart.YAxis{
			Name:  "Strokes",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxScore + 1)},
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render player chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateGroupChart produces a PNG bar chart of group averages.
func GenerateGroupChart(averages []GroupAverage, palette ChartPalette) ([]byte, error) {
	if len(averages) == 0 {
		return nil, ErrNoChartData
	}

	bars := make([]chart.Value, 0, len(averages))
	top := 0.0
	for _, a := range averages {
		bars = append(bars, chart.Value{
			Label: a.Group,
			Value: a.Average,
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		})
		top = max(top, a.Average)
	}

	graph := chart.BarChart{
		Title:  "Group Performance Comparison",
		Width:  max(800, 160*len(bars)+160),
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		BarWidth: 60,
		YAxis: chart.YAxis{
			Name:  "Avg Score",
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.2},
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render group chart: %w", err)
	}
	return buffer.Bytes(), nil
}
