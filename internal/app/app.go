package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
	"github.com/bobmcallan/aide-portal/internal/handlers"
	"github.com/bobmcallan/aide-portal/internal/insights"
	"github.com/bobmcallan/aide-portal/internal/interfaces"
	"github.com/bobmcallan/aide-portal/internal/llm"
	"github.com/bobmcallan/aide-portal/internal/logo"
	"github.com/bobmcallan/aide-portal/internal/market"
	"github.com/bobmcallan/aide-portal/internal/mcp"
	"github.com/bobmcallan/aide-portal/internal/registry"
	"github.com/bobmcallan/aide-portal/internal/storage"
	"github.com/bobmcallan/aide-portal/internal/wikipedia"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Cache    interfaces.InsightCache
	Market   *market.Client
	Insights *insights.Service
	Sweeper  *CacheSweeper

	// HTTP handlers
	HealthHandler      *handlers.HealthHandler
	VersionHandler     *handlers.VersionHandler
	InsightsHandler    *handlers.InsightsHandler
	CompanyInfoHandler *handlers.CompanyInfoHandler
	MCPHandler         *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if issues := cfg.Validate(); len(issues) > 0 {
		for _, issue := range issues {
			logger.Error().Str("issue", issue).Msg("invalid configuration")
		}
		return nil, fmt.Errorf("invalid configuration: %d issue(s)", len(issues))
	}

	cache, err := storage.NewInsightCache(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize insight cache: %w", err)
	}
	a.Cache = cache

	generator := a.initGenerator()
	a.initServices(generator)
	a.initHandlers(generator != nil)

	a.Sweeper = NewCacheSweeper(a.Cache, logger)
	if err := a.Sweeper.Start(cfg.Cache.SweepSchedule); err != nil {
		a.Cache.Close()
		return nil, fmt.Errorf("failed to start cache sweeper: %w", err)
	}

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initGenerator returns nil when no model key is configured. Requests that
// need live generation then fail with a configuration error.
func (a *App) initGenerator() llm.Generator {
	gen, err := llm.NewGeminiGenerator(context.Background(), a.Logger, &a.Config.Gemini)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			a.Logger.Warn().Msg("GEMINI_API_KEY not set, only demo records will be served")
		} else {
			a.Logger.Error().Err(err).Msg("Gemini generator unavailable")
		}
		return nil
	}
	return gen
}

// initServices wires the insight pipeline and its collaborators.
func (a *App) initServices(generator llm.Generator) {
	a.Market = market.NewClient(a.Logger, &a.Config.Market)

	deps := insights.Deps{
		Cache:     a.Cache,
		Profiles:  a.Market,
		Logos:     logo.NewResolver(a.Logger, &a.Config.Logo),
		Generator: generator,
	}
	if reg := registry.NewClient(a.Logger, &a.Config.Registry); reg.Enabled() {
		deps.Registry = reg
	}
	if wiki := wikipedia.NewClient(a.Logger, &a.Config.Wikipedia); wiki.Enabled() {
		deps.Wiki = wiki
	}

	a.Insights = insights.NewService(a.Logger, deps, insights.OptionsFromConfig(a.Config))

	a.Logger.Debug().
		Bool("registry", deps.Registry != nil).
		Bool("wikipedia", deps.Wiki != nil).
		Bool("ai", generator != nil).
		Msg("Insight pipeline initialized")
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers(aiAvailable bool) {
	backend := a.Config.Storage.Backend
	if backend == "" {
		backend = "memory"
	}

	a.HealthHandler = handlers.NewHealthHandler(a.Logger, aiAvailable, backend)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.InsightsHandler = handlers.NewInsightsHandler(a.Logger, a.Insights)
	a.CompanyInfoHandler = handlers.NewCompanyInfoHandler(a.Logger, a.Market)
	a.MCPHandler = mcp.NewHandler(a.Logger, a.Insights, a.Market)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close stops background work and closes the cache.
func (a *App) Close() error {
	if a.Sweeper != nil {
		a.Sweeper.Stop()
	}
	if a.Cache != nil {
		return a.Cache.Close()
	}
	return nil
}
