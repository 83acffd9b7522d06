package memberhandlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"

	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	"github.com/Black-And-White-Club/outing-bot/app/session"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
)

// MemberHandlers serves the member directory routes.
type MemberHandlers struct {
	sessions  httpapi.Sessions
	validator *validator.Validate
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewMemberHandlers creates a new MemberHandlers instance.
func NewMemberHandlers(sessions httpapi.Sessions, v *validator.Validate, logger *slog.Logger, tracer trace.Tracer) *MemberHandlers {
	return &MemberHandlers{
		sessions:  sessions,
		validator: v,
		logger:    logger,
		tracer:    tracer,
	}
}

// Routes mounts the handlers under the caller's prefix.
func (h *MemberHandlers) Routes(r chi.Router) {
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleAdd)
	r.Delete("/", h.HandleRemove)
	r.Put("/{name}/availability", h.HandleSetAvailability)
}

type addMemberRequest struct {
	Name   string `json:"name" validate:"required"`
	Gender string `json:"gender" validate:"required"`
}

type removeMembersRequest struct {
	Names []string `json:"names" validate:"required,min=1,dive,required"`
}

type availabilityRequest struct {
	Available *bool `json:"available" validate:"required"`
}

type directoryResponse struct {
	Members      []memberdomain.Member     `json:"members"`
	Total        int                       `json:"total"`
	Availability memberdomain.Availability `json:"availability"`
	Available    int                       `json:"available_count"`
	Unavailable  int                       `json:"unavailable_count"`
}

type addMemberResponse struct {
	Member memberdomain.Member `json:"member"`
	Added  bool                `json:"added"`
}

type removeMembersResponse struct {
	Removed []string `json:"removed"`
}

func toDirectoryResponse(d memberdomain.Directory) directoryResponse {
	a := d.Availability()
	return directoryResponse{
		Members:      d.List(),
		Total:        d.Len(),
		Availability: a,
		Available:    len(a.Available),
		Unavailable:  len(a.Unavailable),
	}
}

// HandleList returns the roster with attendance counts.
func (h *MemberHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	state, err := httpapi.CurrentState(r.Context(), h.sessions)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toDirectoryResponse(state.Directory))
}

// HandleAdd inserts a member. Repeating an existing name returns the
// current entry with added=false.
func (h *MemberHandlers) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "MemberHandlers.HandleAdd")
	defer span.End()

	var req addMemberRequest
	if err := httpapi.DecodeJSON(r, h.validator, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	gender, err := memberdomain.ParseGender(req.Gender)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, httpapi.NewValidationError("gender", "must be Male or Female"))
		return
	}

	id := httpapi.SessionID(ctx)
	before, err := h.sessions.Get(id)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	cmd := session.AddMember{Member: req.Name, Gender: gender}
	state, err := h.sessions.Dispatch(ctx, id, cmd)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	m, _ := state.Directory.Get(strings.TrimSpace(req.Name))
	added := !before.Directory.Has(m.Name)
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	httpapi.WriteJSON(w, status, addMemberResponse{Member: m, Added: added})
}

// HandleRemove deletes members by name; unknown names are ignored.
func (h *MemberHandlers) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req removeMembersRequest
	if err := httpapi.DecodeJSON(r, h.validator, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	id := httpapi.SessionID(ctx)
	before, err := h.sessions.Get(id)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	state, err := h.sessions.Dispatch(ctx, id, session.RemoveMembers{Names: req.Names})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	removed := make([]string, 0, len(req.Names))
	for _, m := range before.Directory.List() {
		if !state.Directory.Has(m.Name) {
			removed = append(removed, m.Name)
		}
	}
	httpapi.WriteJSON(w, http.StatusOK, removeMembersResponse{Removed: removed})
}

// HandleSetAvailability sets one member's attendance flag.
func (h *MemberHandlers) HandleSetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := httpapi.URLParam(r, "name")

	var req availabilityRequest
	if err := httpapi.DecodeJSON(r, h.validator, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	state, err := h.sessions.Dispatch(ctx, httpapi.SessionID(ctx), session.SetAvailability{Member: name, Available: *req.Available})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	m, _ := state.Directory.Get(name)
	httpapi.WriteJSON(w, http.StatusOK, m)
}
