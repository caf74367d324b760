package app

import (
	"fmt"
	"net/http"

	"github.com/panjf2000/ants/v2"

	"github.com/plated-dev/chef-league/internal/config"
	"github.com/plated-dev/chef-league/internal/domain/chef"
	"github.com/plated-dev/chef-league/internal/domain/event"
	"github.com/plated-dev/chef-league/internal/domain/league"
	"github.com/plated-dev/chef-league/internal/infrastructure/account"
	"github.com/plated-dev/chef-league/internal/infrastructure/announce"
	cacherepo "github.com/plated-dev/chef-league/internal/infrastructure/repository/cache"
	"github.com/plated-dev/chef-league/internal/infrastructure/repository/memory"
	"github.com/plated-dev/chef-league/internal/infrastructure/repository/postgres"
	"github.com/plated-dev/chef-league/internal/interfaces/httpapi"
	platformcache "github.com/plated-dev/chef-league/internal/platform/cache"
	idgen "github.com/plated-dev/chef-league/internal/platform/id"
	"github.com/plated-dev/chef-league/internal/platform/logging"
	"github.com/plated-dev/chef-league/internal/platform/resilience"
	"github.com/plated-dev/chef-league/internal/usecase"
)

const scoringFanoutPoolSize = 16

// NewHTTPServer wires repositories, services and the router from config.
// The returned cleanup releases the worker pool and the database handle.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	cleanups := make([]func(), 0, 2)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var (
		leagueRepo league.Repository
		chefRepo   chef.Repository
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDatabase(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		cleanups = append(cleanups, func() { _ = db.Close() })
		leagueRepo = postgres.NewLeagueRepository(db)
		chefRepo = postgres.NewChefRepository(db)
	case config.StorageMemory:
		leagueRepo = memory.NewLeagueRepository(memory.SeedLeagues())
		chefRepo = memory.NewChefRepository(memory.SeedChefs())
	default:
		return nil, nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}

	if cfg.CacheEnabled {
		chefRepo = cacherepo.NewChefRepository(chefRepo, platformcache.NewStore(cfg.CacheTTL))
	}

	var announcer event.Announcer = announce.NewLogAnnouncer(logger)
	if cfg.AnnouncerWebhookEnabled {
		announcer = announce.NewWebhookAnnouncer(announce.WebhookConfig{
			URL:     cfg.AnnouncerWebhookURL,
			Token:   cfg.AnnouncerWebhookToken,
			Timeout: cfg.AnnouncerWebhookTimeout,
		}, logger)
	}

	fanout, err := ants.NewPool(scoringFanoutPoolSize)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("create scoring fan-out pool: %w", err)
	}
	cleanups = append(cleanups, fanout.Release)

	leagueSvc := usecase.NewLeagueService(leagueRepo, announcer, idgen.NewRandomGenerator())
	draftSvc := usecase.NewDraftService(leagueRepo, chefRepo, announcer, cfg.DraftMaxRetries)
	scoringSvc := usecase.NewScoringService(leagueRepo, chefRepo, announcer, logger, fanout)
	leaderboardSvc := usecase.NewLeaderboardService(leagueRepo)
	chefSvc := usecase.NewChefService(chefRepo)

	accountClient := account.NewClient(
		&http.Client{Timeout: cfg.AccountTimeout},
		cfg.AccountBaseURL,
		cfg.AccountIntrospectPath,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountCircuitEnabled,
			FailureThreshold: cfg.AccountCircuitFailures,
			OpenTimeout:      cfg.AccountCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMax,
		},
		logger,
	)

	handler := httpapi.NewHandler(leagueSvc, draftSvc, scoringSvc, leaderboardSvc, chefSvc, logger)
	router := httpapi.NewRouter(handler, accountClient, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}
