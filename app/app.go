package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Black-And-White-Club/outing-bot/app/eventbus"
	"github.com/Black-And-White-Club/outing-bot/app/modules/group"
	groupservice "github.com/Black-And-White-Club/outing-bot/app/modules/group/application"
	"github.com/Black-And-White-Club/outing-bot/app/modules/leaderboard"
	"github.com/Black-And-White-Club/outing-bot/app/modules/member"
	memberdomain "github.com/Black-And-White-Club/outing-bot/app/modules/member/domain"
	"github.com/Black-And-White-Club/outing-bot/app/modules/member/infrastructure/parsers"
	"github.com/Black-And-White-Club/outing-bot/app/modules/score"
	"github.com/Black-And-White-Club/outing-bot/app/observability"
	"github.com/Black-And-White-Club/outing-bot/app/session"
	sessionhandlers "github.com/Black-And-White-Club/outing-bot/app/session/handlers"
	"github.com/Black-And-White-Club/outing-bot/app/shared/httpapi"
	"github.com/Black-And-White-Club/outing-bot/config"
)

// App holds the wired application.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	EventBus      *eventbus.EventBus
	Sessions      *session.Manager
	Router        chi.Router

	MemberModule      *member.Module
	GroupModule       *group.Module
	ScoreModule       *score.Module
	LeaderboardModule *leaderboard.Module

	logger *slog.Logger
}

// Options overrides collaborators that default to production values.
type Options struct {
	Clock    session.Clock
	Shuffler groupservice.Shuffler
}

// NewApp loads the roster named by cfg and wires every module. A roster
// that cannot be loaded is fatal.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability, opts Options) (*App, error) {
	roster, err := parsers.LoadDirectory(cfg.Roster.Path, cfg.Roster.Sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	obs.Logger.InfoContext(ctx, "Roster loaded",
		slog.String("path", cfg.Roster.Path),
		slog.Int("members", roster.Len()),
	)
	return NewAppWithRoster(ctx, cfg, obs, roster, opts)
}

// NewAppWithRoster wires every module around an already loaded roster.
func NewAppWithRoster(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	roster memberdomain.Directory,
	opts Options,
) (*App, error) {
	logger := obs.Logger

	bus := eventbus.NewEventBus(logger)
	if err := bus.Subscribe(ctx, eventbus.EventsTopic, eventbus.NewAuditHandler(logger, obs.Metrics)); err != nil {
		_ = bus.Close()
		return nil, fmt.Errorf("failed to subscribe audit handler: %w", err)
	}

	clock := opts.Clock
	if clock == nil {
		clock = session.RealClock{}
	}

	sessions := session.NewManager(roster, session.ManagerConfig{
		TTL:       cfg.Session.TTL,
		Publisher: bus,
		Logger:    logger,
		Metrics:   obs.Metrics,
		Tracer:    obs.Tracer,
		Clock:     clock,
	})

	app := &App{
		Config:        cfg,
		Observability: obs,
		EventBus:      bus,
		Sessions:      sessions,
		logger:        logger,
	}
	app.Router = app.routes(ctx, clock, opts.Shuffler)

	return app, nil
}

func (app *App) routes(ctx context.Context, clock session.Clock, shuffler groupservice.Shuffler) chi.Router {
	cfg := app.Config
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httpapi.CorrelationMiddleware)
	r.Use(httpapi.CORSMiddleware(cfg.HTTP.AllowedOrigins))
	if cfg.HTTP.RateLimitRPS > 0 {
		limiter := httpapi.NewClientLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		r.Use(httpapi.RateLimitMiddleware(limiter))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": app.Sessions.Len(),
		})
	})
	if reg := app.Observability.Registry; reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	}

	secure := cfg.Observability.Environment != "development"
	v := httpapi.NewValidator()

	r.Group(func(api chi.Router) {
		api.Use(httpapi.SessionMiddleware(app.Sessions, cfg.Session.CookieName, cfg.Session.TTL, secure))

		api.Route("/api/session", sessionhandlers.NewSessionHandlers(app.Sessions, v, app.logger).Routes)
		app.MemberModule = member.NewModule(ctx, app.Observability, app.Sessions, v, api)
		app.GroupModule = group.NewModule(ctx, cfg, app.Observability, app.Sessions, shuffler, v, api)
		app.ScoreModule = score.NewModule(ctx, app.Observability, app.Sessions, v, api)
		app.LeaderboardModule = leaderboard.NewModule(ctx, cfg, app.Observability, app.Sessions, clock, api)
	})

	return r
}

// Close releases the event bus.
func (app *App) Close() error {
	if err := app.EventBus.Close(); err != nil {
		return fmt.Errorf("failed to close event bus: %w", err)
	}
	return nil
}
