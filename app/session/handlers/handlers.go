package sessionhandlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Black-And-White-Club/outing-bot/app/session"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
)

// Sessions is the manager surface the session routes need.
type Sessions interface {
	httpapi.Sessions
	Reset(ctx context.Context, id string) (session.State, error)
	Now() time.Time
}

// SessionHandlers serves the session overview, reset and outing date.
type SessionHandlers struct {
	sessions  Sessions
	validator *validator.Validate
	logger    *slog.Logger
}

// NewSessionHandlers creates a new SessionHandlers instance.
func NewSessionHandlers(sessions Sessions, v *validator.Validate, logger *slog.Logger) *SessionHandlers {
	return &SessionHandlers{sessions: sessions, validator: v, logger: logger}
}

// Routes mounts the handlers under the caller's prefix.
func (h *SessionHandlers) Routes(r chi.Router) {
	r.Get("/", h.HandleGet)
	r.Post("/reset", h.HandleReset)
	r.Put("/outing-date", h.HandleSetOutingDate)
}

type outingDateRequest struct {
	Date string `json:"date"`
}

type sessionResponse struct {
	ID                 string  `json:"id"`
	Version            uint64  `json:"version"`
	Members            int     `json:"members"`
	Available          int     `json:"available"`
	Groups             int     `json:"groups"`
	ScoresRecorded     bool    `json:"scores_recorded"`
	SummaryReady       bool    `json:"summary_ready"`
	OutingDate         *string `json:"outing_date"`
	SummaryGeneratedAt *string `json:"summary_generated_at,omitempty"`
}

func toSessionResponse(id string, s session.State) sessionResponse {
	resp := sessionResponse{
		ID:             id,
		Version:        s.Version,
		Members:        s.Directory.Len(),
		Available:      len(s.Directory.AvailableNames()),
		Groups:         len(s.Groups),
		ScoresRecorded: s.Scores.AnyRecorded(),
		SummaryReady:   s.Summary != nil,
	}
	if !s.OutingDate.IsZero() {
		d := s.OutingDate.Format(time.DateOnly)
		resp.OutingDate = &d
	}
	if s.Summary != nil {
		at := s.Summary.GeneratedAt.Format(time.RFC3339)
		resp.SummaryGeneratedAt = &at
	}
	return resp
}

// HandleGet returns an overview of the caller's session.
func (h *SessionHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := httpapi.SessionID(r.Context())
	state, err := h.sessions.Get(id)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toSessionResponse(id, state))
}

// HandleReset starts the session over from the roster.
func (h *SessionHandlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := httpapi.SessionID(ctx)
	state, err := h.sessions.Reset(ctx, id)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toSessionResponse(id, state))
}

// HandleSetOutingDate sets the outing date from free text. An empty date
// clears it.
func (h *SessionHandlers) HandleSetOutingDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := httpapi.SessionID(ctx)

	var req outingDateRequest
	if err := httpapi.DecodeJSON(r, h.validator, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	cmd := session.SetOutingDate{Raw: req.Date}
	if strings.TrimSpace(req.Date) != "" {
		date, err := session.ParseOutingDate(req.Date, h.sessions.Now())
		if err != nil {
			httpapi.WriteError(w, r, h.logger, err)
			return
		}
		cmd.Date = date
	}

	state, err := h.sessions.Dispatch(ctx, id, cmd)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toSessionResponse(id, state))
}
