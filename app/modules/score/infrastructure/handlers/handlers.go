package scorehandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	scoredomain "github.com/Black-And-White-Club/outing-bot/app/modules/score/domain"
	"github.com/Black-And-White-Club/outing-bot/app/session"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
)

// ScoreHandlers serves hole entry and per-member statistics.
type ScoreHandlers struct {
	sessions  httpapi.Sessions
	validator *validator.Validate
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewScoreHandlers creates a new ScoreHandlers instance.
func NewScoreHandlers(sessions httpapi.Sessions, v *validator.Validate, logger *slog.Logger, tracer trace.Tracer) *ScoreHandlers {
	return &ScoreHandlers{
		sessions:  sessions,
		validator: v,
		logger:    logger,
		tracer:    tracer,
	}
}

// Routes mounts the handlers under the caller's prefix.
func (h *ScoreHandlers) Routes(r chi.Router) {
	r.Get("/{member}", h.HandleOverall)
	r.Get("/{member}/rounds/{round}", h.HandleRound)
	r.Put("/{member}/rounds/{round}/holes/{hole}", h.HandleSetHole)
}

// setHoleRequest carries the strokes for one hole; null clears it.
type setHoleRequest struct {
	Strokes *int `json:"strokes"`
}

type roundResponse struct {
	Member  string   `json:"member"`
	Round   int      `json:"round"`
	Holes   []*int   `json:"holes"`
	Total   *int     `json:"total"`
	Average *float64 `json:"average"`
}

type overallResponse struct {
	Member string          `json:"member"`
	Rounds []roundResponse `json:"rounds"`
	Total  *int            `json:"total"`
	Best   *int            `json:"best"`
	Worst  *int            `json:"worst"`
}

func pathInt(r *http.Request, key string) (int, error) {
	raw := chi.URLParam(r, key)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, httpapi.NewValidationError(key, "must be an integer")
	}
	return n, nil
}

func toRoundResponse(member string, round int, sheet scoredomain.ScoreSheet) (roundResponse, error) {
	stats, err := sheet.RoundStats(round)
	if err != nil {
		return roundResponse{}, err
	}
	resp := roundResponse{Member: member, Round: round, Holes: make([]*int, 0, scoredomain.HoleCount)}
	for _, hs := range sheet.Rounds[round-1] {
		if v, ok := hs.Value(); ok {
			resp.Holes = append(resp.Holes, &v)
		} else {
			resp.Holes = append(resp.Holes, nil)
		}
	}
	if stats.HasData() {
		total, avg := stats.Total, stats.Average
		resp.Total, resp.Average = &total, &avg
	}
	return resp, nil
}

func (h *ScoreHandlers) sheet(r *http.Request) (string, scoredomain.ScoreSheet, error) {
	member := httpapi.URLParam(r, "member")
	state, err := httpapi.CurrentState(r.Context(), h.sessions)
	if err != nil {
		return member, scoredomain.ScoreSheet{}, err
	}
	sheet, ok := state.Scores.Sheet(member)
	if !ok {
		return member, scoredomain.ScoreSheet{}, scoredomain.ErrSheetNotFound
	}
	return member, sheet, nil
}

// HandleSetHole records or clears one hole and returns the round totals.
func (h *ScoreHandlers) HandleSetHole(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ScoreHandlers.HandleSetHole")
	defer span.End()

	member := httpapi.URLParam(r, "member")
	round, err := pathInt(r, "round")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	hole, err := pathInt(r, "hole")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	span.SetAttributes(
		attribute.String("member", member),
		attribute.Int("round", round),
		attribute.Int("hole", hole),
	)

	var req setHoleRequest
	if err := httpapi.DecodeJSON(r, h.validator, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	score := scoredomain.Unset()
	if req.Strokes != nil {
		score = scoredomain.Strokes(*req.Strokes)
	}

	state, err := h.sessions.Dispatch(ctx, httpapi.SessionID(ctx), session.RecordScore{
		Member: member,
		Round:  round,
		Hole:   hole,
		Score:  score,
	})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	sheet, _ := state.Scores.Sheet(member)
	resp, err := toRoundResponse(member, round, sheet)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

// HandleRound returns one round's holes, total and average.
func (h *ScoreHandlers) HandleRound(w http.ResponseWriter, r *http.Request) {
	round, err := pathInt(r, "round")
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	member, sheet, err := h.sheet(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	resp, err := toRoundResponse(member, round, sheet)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

// HandleOverall returns every round plus total, best and worst hole.
func (h *ScoreHandlers) HandleOverall(w http.ResponseWriter, r *http.Request) {
	member, sheet, err := h.sheet(r)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	resp := overallResponse{Member: member, Rounds: make([]roundResponse, 0, scoredomain.RoundCount)}
	for round := 1; round <= scoredomain.RoundCount; round++ {
		rr, err := toRoundResponse(member, round, sheet)
		if err != nil {
			httpapi.WriteError(w, r, h.logger, err)
			return
		}
		resp.Rounds = append(resp.Rounds, rr)
	}
	if stats := sheet.OverallStats(); stats.HasData() {
		resp.Total, resp.Best, resp.Worst = &stats.Total, &stats.Best, &stats.Worst
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}
