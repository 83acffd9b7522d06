package member

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	memberhandlers "github.com/Black-And-White-Club/outing-bot/app/modules/member/infrastructure/handlers"
	"github.com/Black-And-White-Club/outing-bot/app/observability"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
)

// RoutePrefix is where the member directory routes are mounted.
const RoutePrefix = "/api/members"

// Module represents the member directory module.
type Module struct {
	handlers *memberhandlers.MemberHandlers
	logger   *slog.Logger
}

// NewModule creates the member module and registers its routes on httpRouter.
func NewModule(
	ctx context.Context,
	obs observability.Observability,
	sessions httpapi.Sessions,
	v *validator.Validate,
	httpRouter chi.Router,
) *Module {
	logger := obs.Logger.With(slog.String("module", "member"))
	logger.InfoContext(ctx, "Initializing member module")

	handlers := memberhandlers.NewMemberHandlers(sessions, v, logger, obs.Tracer)
	if httpRouter != nil {
		httpRouter.Route(RoutePrefix, handlers.Routes)
	}

	return &Module{handlers: handlers, logger: logger}
}
