package leaderboard

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"

	leaderboardhandlers "github.com/Black-And-White-Club/outing-bot/app/modules/leaderboard/infrastructure/handlers"
	"github.com/Black-And-White-Club/outing-bot/app/observability"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
	"github.com/Black-And-White-Club/outing-bot/config"
)

// RoutePrefix is where the summary, export and chart routes are mounted.
const RoutePrefix = "/api/leaderboard"

// Module represents the summary and reporting module.
type Module struct {
	handlers *leaderboardhandlers.LeaderboardHandlers
	logger   *slog.Logger
}

// NewModule creates the leaderboard module and registers its routes on
// httpRouter.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	sessions httpapi.Sessions,
	clock leaderboardhandlers.Clock,
	httpRouter chi.Router,
) *Module {
	logger := obs.Logger.With(slog.String("module", "leaderboard"))
	logger.InfoContext(ctx, "Initializing leaderboard module",
		slog.Int64("max_upload_bytes", cfg.HTTP.MaxUploadBytes),
	)

	handlers := leaderboardhandlers.NewLeaderboardHandlers(sessions, clock, cfg.HTTP.MaxUploadBytes, logger, obs.Tracer)
	if httpRouter != nil {
		httpRouter.Route(RoutePrefix, handlers.Routes)
	}

	return &Module{handlers: handlers, logger: logger}
}
