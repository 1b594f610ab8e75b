// README: Wiring; builds the tool registry, agent and trip planner from Config.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"daytrip/internal/ai"
	"daytrip/internal/config"
	"daytrip/internal/infra"
	"daytrip/internal/maps"
	"daytrip/internal/modules/aiusage"
	"daytrip/internal/search"
	"daytrip/internal/service"
	"daytrip/internal/tools"
)

// App holds the long-lived clients. Close releases them.
type App struct {
	Planner *service.TripPlanner
	closers []func()
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// New wires everything cfg describes. The usage allowance is enabled only when
// withUsage is set and a DSN is configured.
func New(ctx context.Context, cfg config.Config, withUsage bool) (*App, error) {
	a := &App{}

	registry, err := NewRegistry(cfg)
	if err != nil {
		return nil, err
	}

	agent, closeAgent, err := NewAgent(ctx, cfg.AI, registry)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeAgent)

	opts := []service.Option{
		service.WithOutputLanguage(cfg.Planner.OutputLanguage),
		service.WithTimeout(cfg.Planner.Timeout),
	}
	if withUsage && cfg.DB.DSN != "" {
		db, err := openUsageDB(ctx, cfg.DB.DSN)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		store := aiusage.NewStore(db, cfg.DB.MonthlyPlans)
		if err := store.Migrate(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("migrate plan_usage: %w", err)
		}
		opts = append(opts, service.WithUsageGuard(aiusage.NewService(store)))
		log.Printf("plan allowance enabled: %d per client per month", cfg.DB.MonthlyPlans)
	}

	a.Planner = service.NewTripPlanner(agent, opts...)
	return a, nil
}

// NewRegistry builds the duration and search tools.
func NewRegistry(cfg config.Config) (*tools.Registry, error) {
	routes, err := maps.NewRouteService(cfg.Maps.APIKey,
		maps.WithLanguage(cfg.Maps.Language),
		maps.WithRegion(cfg.Maps.Region),
	)
	if err != nil {
		return nil, err
	}

	var engine search.Engine
	switch cfg.Search.Engine {
	case config.EnginePlaces:
		places, err := maps.NewPlacesService(cfg.Maps.APIKey, cfg.Maps.Language, cfg.Maps.Region)
		if err != nil {
			return nil, err
		}
		engine = search.NewPlaces(places)
	default:
		engine = search.NewDuckDuckGo(search.WithRegion(cfg.Search.Region))
	}

	return tools.NewRegistry(
		tools.NewDurationTool(routes, cfg.Planner.NoRouteMessage),
		tools.NewSearchTool(engine, cfg.Search.MaxResults),
	)
}

// NewAgent selects the provider named in cfg.
func NewAgent(ctx context.Context, cfg config.AIConfig, registry *tools.Registry) (ai.Agent, func(), error) {
	opts := ai.Options{Temperature: cfg.Temperature, MaxSteps: cfg.MaxSteps}
	switch cfg.Provider {
	case config.ProviderOpenAI:
		opts.Model = cfg.OpenAIModel
		return ai.NewOpenAIAgent(cfg.OpenAIKey, cfg.OpenAIBaseURL, registry, opts), func() {}, nil
	default:
		opts.Model = cfg.GeminiModel
		agent, err := ai.NewGeminiAgent(ctx, cfg.GeminiKey, registry, opts)
		if err != nil {
			return nil, nil, err
		}
		return agent, agent.Close, nil
	}
}

func openUsageDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	db, err := infra.NewDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}
