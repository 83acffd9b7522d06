package leaderboardhandlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	leaderboardservice "github.com/Black-And-White-Club/outing-bot/app/modules/leaderboard/application"
	"github.com/Black-And-White-Club/outing-bot/app/modules/leaderboard/infrastructure/trackrecord"
	"github.com/Black-And-White-Club/outing-bot/app/session"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypePNG  = "image/png"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Clock supplies the summary generation time.
type Clock interface {
	Now() time.Time
}

// LeaderboardHandlers serves the summary, its exports and the charts.
type LeaderboardHandlers struct {
	sessions       httpapi.Sessions
	clock          Clock
	palette        leaderboardservice.ChartPalette
	maxUploadBytes int64
	logger         *slog.Logger
	tracer         trace.Tracer
}

// NewLeaderboardHandlers creates a new LeaderboardHandlers instance.
func NewLeaderboardHandlers(
	sessions httpapi.Sessions,
	clock Clock,
	maxUploadBytes int64,
	logger *slog.Logger,
	tracer trace.Tracer,
) *LeaderboardHandlers {
	return &LeaderboardHandlers{
		sessions:       sessions,
		clock:          clock,
		palette:        leaderboardservice.DefaultPalette,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
		tracer:         tracer,
	}
}

// Routes mounts the handlers under the caller's prefix.
func (h *LeaderboardHandlers) Routes(r chi.Router) {
	r.Post("/summary", h.HandleGenerateSummary)
	r.Get("/summary", h.HandleGetSummary)
	r.Get("/summary.csv", h.HandleSummaryCSV)
	r.Get("/charts/player/{member}", h.HandlePlayerChart)
	r.Get("/charts/groups", h.HandleGroupChart)
	r.Post("/track-record", h.HandleTrackRecord)
}

type summaryResponse struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Header      []string     `json:"header"`
	Rows        [][]string   `json:"rows"`
	OutingDate  *string      `json:"outing_date,omitempty"`
	Players     []summaryRow `json:"players"`
}

type summaryRow struct {
	Player       string `json:"player"`
	RoundTotals  []*int `json:"round_totals"`
	OverallTotal *int   `json:"overall_total"`
	Best         *int   `json:"best"`
	Worst        *int   `json:"worst"`
}

func toSummaryResponse(s session.State) summaryResponse {
	resp := summaryResponse{
		GeneratedAt: s.Summary.GeneratedAt,
		Header:      leaderboardservice.SummaryHeader,
		Rows:        make([][]string, 0, len(s.Summary.Rows)),
		Players:     make([]summaryRow, 0, len(s.Summary.Rows)),
	}
	for _, row := range s.Summary.Rows {
		resp.Rows = append(resp.Rows, row.Cells())
		resp.Players = append(resp.Players, summaryRow{
			Player:       row.Player,
			RoundTotals:  row.RoundTotals[:],
			OverallTotal: row.OverallTotal,
			Best:         row.Best,
			Worst:        row.Worst,
		})
	}
	if !s.OutingDate.IsZero() {
		d := s.OutingDate.Format(time.DateOnly)
		resp.OutingDate = &d
	}
	return resp
}

func (h *LeaderboardHandlers) summaryState(r *http.Request) (session.State, error) {
	state, err := httpapi.CurrentState(r.Context(), h.sessions)
	if err != nil {
		return state, err
	}
	if state.Summary == nil {
		return state, leaderboardservice.ErrNoSummary
	}
	return state, nil
}

// HandleGenerateSummary builds and stores the leader board.
func (h *LeaderboardHandlers) HandleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleGenerateSummary")
	defer span.End()

	state, err := h.sessions.Dispatch(ctx, httpapi.SessionID(ctx), session.GenerateSummary{At: h.clock.Now()})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toSummaryResponse(state))
}

// HandleGetSummary returns the last generated leader board.
func (h *LeaderboardHandlers) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	state, err := h.summaryState(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toSummaryResponse(state))
}

// HandleSummaryCSV downloads the last generated leader board as CSV.
func (h *LeaderboardHandlers) HandleSummaryCSV(w http.ResponseWriter, r *http.Request) {
	state, err := h.summaryState(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	data, err := leaderboardservice.SummaryCSV(state.Summary.Rows)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, fmt.Errorf("render summary csv: %w", err))
		return
	}
	httpapi.WriteFile(w, contentTypeCSV, leaderboardservice.SummaryCSVName, data)
}

// HandlePlayerChart renders one member's per-hole line chart.
func (h *LeaderboardHandlers) HandlePlayerChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandlePlayerChart")
	defer span.End()

	member := httpapi.URLParam(r, "member")
	state, err := httpapi.CurrentState(ctx, h.sessions)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	points, err := leaderboardservice.PlayerSeries(state.Scores, member)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	png, err := leaderboardservice.GeneratePlayerChart(member, points, h.palette)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteFile(w, contentTypePNG, "", png)
}

// HandleGroupChart renders the per-group average bar chart.
func (h *LeaderboardHandlers) HandleGroupChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleGroupChart")
	defer span.End()

	state, err := httpapi.CurrentState(ctx, h.sessions)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	if len(state.Groups) == 0 {
		httpapi.WriteError(w, r, h.logger, leaderboardservice.ErrNoGroups)
		return
	}
	png, err := leaderboardservice.GenerateGroupChart(leaderboardservice.GroupAverages(state.Groups, state.Scores), h.palette)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteFile(w, contentTypePNG, "", png)
}

// HandleTrackRecord merges the stored summary into an uploaded workbook and
// returns the result.
func (h *LeaderboardHandlers) HandleTrackRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleTrackRecord")
	defer span.End()

	state, err := h.summaryState(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httpapi.WriteJSON(w, http.StatusRequestEntityTooLarge, httpapi.ErrorResponse{Error: "upload exceeds size limit"})
			return
		}
		httpapi.WriteError(w, r, h.logger, httpapi.NewValidationError("file", "is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, fmt.Errorf("read upload: %w", err))
		return
	}

	history, err := trackrecord.ReadHistory(data)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	merged := trackrecord.Merge(history, trackrecord.FromSummary(state.Summary.Rows, state.OutingDate))
	out, err := trackrecord.WriteWorkbook(merged)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, fmt.Errorf("write track record: %w", err))
		return
	}

	h.logger.InfoContext(ctx, "Track record merged",
		slog.String("session_id", httpapi.SessionID(ctx)),
		slog.Int("history_rows", len(history.Rows)),
		slog.Int("merged_rows", len(merged.Rows)),
	)
	httpapi.WriteFile(w, contentTypeXLSX, trackrecord.UpdatedWorkbookName, out)
}
