package grouphandlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"

	groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"
	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	"github.com/Black-And-White-Club/outing-bot/app/session"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
	"github.com/Black-And-White-Club/outing-bot/config"
)

// GroupHandlers serves allocation, manual edits and the text export.
type GroupHandlers struct {
	sessions  httpapi.Sessions
	sizes     config.GroupsConfig
	shuffler  groupservice.Shuffler
	validator *validator.Validate
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewGroupHandlers creates a new GroupHandlers instance. A nil shuffler
// uses the default random source.
func NewGroupHandlers(
	sessions httpapi.Sessions,
	sizes config.GroupsConfig,
	shuffler groupservice.Shuffler,
	v *validator.Validate,
	logger *slog.Logger,
	tracer trace.Tracer,
) *GroupHandlers {
	return &GroupHandlers{
		sessions:  sessions,
		sizes:     sizes,
		shuffler:  shuffler,
		validator: v,
		logger:    logger,
		tracer:    tracer,
	}
}

// Routes mounts the handlers under the caller's prefix.
func (h *GroupHandlers) Routes(r chi.Router) {
	r.Get("/", h.HandleGet)
	r.Put("/", h.HandleSet)
	r.Post("/allocate", h.HandleAllocate)
	r.Get("/export", h.HandleExport)
}

type allocateRequest struct {
	Size int `json:"size"`
}

type setGroupsRequest struct {
	Groups [][]string `json:"groups" validate:"required"`
}

type groupMember struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
}

type groupView struct {
	Number       int                        `json:"number"`
	Members      []groupMember              `json:"members"`
	Distribution string                     `json:"distribution"`
	Genders      []groupservice.GenderCount `json:"genders"`
}

type groupsResponse struct {
	Groups []groupView `json:"groups"`
	Size   int         `json:"size,omitempty"`
}

func toGroupsResponse(groups []groupservice.Group, d memberdomain.Directory) groupsResponse {
	views := make([]groupView, 0, len(groups))
	for i, g := range groups {
		members := make([]groupMember, 0, len(g))
		for _, name := range g {
			gender := "N/A"
			if m, ok := d.Get(name); ok {
				gender = string(m.Gender)
			}
			members = append(members, groupMember{Name: name, Gender: gender})
		}
		counts := groupservice.GenderDistribution(g, d)
		views = append(views, groupView{
			Number:       i + 1,
			Members:      members,
			Distribution: groupservice.FormatDistribution(counts),
			Genders:      counts,
		})
	}
	return groupsResponse{Groups: views}
}

// HandleAllocate randomly splits the available members. The body is
// optional; a missing or zero size uses the configured default.
func (h *GroupHandlers) HandleAllocate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GroupHandlers.HandleAllocate")
	defer span.End()

	var req allocateRequest
	if r.ContentLength != 0 && r.Body != http.NoBody {
		if err := httpapi.DecodeJSON(r, nil, &req); err != nil {
			httpapi.WriteError(w, r, h.logger, err)
			return
		}
	}

	size := req.Size
	if size == 0 {
		size = h.sizes.DefaultSize
	}
	if size < h.sizes.MinSize || size > h.sizes.MaxSize {
		httpapi.WriteError(w, r, h.logger, httpapi.NewValidationError("size",
			fmt.Sprintf("must be between %d and %d", h.sizes.MinSize, h.sizes.MaxSize)))
		return
	}

	state, err := h.sessions.Dispatch(ctx, httpapi.SessionID(ctx), session.AllocateGroups{
		MaxGroupSize: size,
		Shuffler:     h.shuffler,
	})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	resp := toGroupsResponse(state.Groups, state.Directory)
	resp.Size = size
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

// HandleGet returns the current groups with gender distribution.
func (h *GroupHandlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	state, err := httpapi.CurrentState(r.Context(), h.sessions)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toGroupsResponse(state.Groups, state.Directory))
}

// HandleSet replaces the groups with a manual edit.
func (h *GroupHandlers) HandleSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req setGroupsRequest
	if err := httpapi.DecodeJSON(r, h.validator, &req); err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}

	groups := make([]groupservice.Group, 0, len(req.Groups))
	for _, g := range req.Groups {
		groups = append(groups, groupservice.Group(g))
	}

	state, err := h.sessions.Dispatch(ctx, httpapi.SessionID(ctx), session.SetGroups{Groups: groups})
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, toGroupsResponse(state.Groups, state.Directory))
}

// HandleExport returns the plain-text clipboard export.
func (h *GroupHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	state, err := httpapi.CurrentState(r.Context(), h.sessions)
	if err != nil {
		httpapi.WriteError(w, r, h.logger, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(groupservice.GroupsText(state.Groups, state.Directory)))
}
