package score

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	scorehandlers "github.com/Black-And-White-Club/outing-bot/app/modules/score/infrastructure/handlers"
	"github.com/Black-And-White-Club/outing-bot/app/observability"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
)

// RoutePrefix is where the score routes are mounted.
const RoutePrefix = "/api/scores"

// Module represents the score store module.
type Module struct {
	handlers *scorehandlers.ScoreHandlers
	logger   *slog.Logger
}

// NewModule creates the score module and registers its routes on httpRouter.
func NewModule(
	ctx context.Context,
	obs observability.Observability,
	sessions httpapi.Sessions,
	v *validator.Validate,
	httpRouter chi.Router,
) *Module {
	logger := obs.Logger.With(slog.String("module", "score"))
	logger.InfoContext(ctx, "Initializing score module")

	handlers := scorehandlers.NewScoreHandlers(sessions, v, logger, obs.Tracer)
	if httpRouter != nil {
		httpRouter.Route(RoutePrefix, handlers.Routes)
	}

	return &Module{handlers: handlers, logger: logger}
}
