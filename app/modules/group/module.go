package group

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"
	grouphandlers "github.com/Black-And-White-Club/outing-bot/app/modules/group/infrastructure/handlers"
	"github.com/Black-And-White-Club/outing-bot/app/observability"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
	"github.com/Black-And-White-Club/outing-bot/config"
)

// RoutePrefix is where the group routes are mounted.
const RoutePrefix = "/api/groups"

// Module represents the group allocation module.
type Module struct {
	handlers *grouphandlers.GroupHandlers
	logger   *slog.Logger
}

// NewModule creates the group module and registers its routes on httpRouter.
// A nil shuffler uses the default random source.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	sessions httpapi.Sessions,
	shuffler groupservice.Shuffler,
	v *validator.Validate,
	httpRouter chi.Router,
) *Module {
	logger := obs.Logger.With(slog.String("module", "group"))
	logger.InfoContext(ctx, "Initializing group module",
		slog.Int("default_size", cfg.Groups.DefaultSize),
		slog.Int("min_size", cfg.Groups.MinSize),
		slog.Int("max_size", cfg.Groups.MaxSize),
	)

	handlers := grouphandlers.NewGroupHandlers(sessions, cfg.Groups, shuffler, v, logger, obs.Tracer)
	if httpRouter != nil {
		httpRouter.Route(RoutePrefix, handlers.Routes)
	}

	return &Module{handlers: handlers, logger: logger}
}
