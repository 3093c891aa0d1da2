// Package app assembles the service: storage, provider, services, the
// background scheduler and the HTTP server.
package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/fwdline/prediction-league/external/footballdata"
	"github.com/fwdline/prediction-league/internal/config"
	"github.com/fwdline/prediction-league/internal/domain/gameweek"
	"github.com/fwdline/prediction-league/internal/domain/league"
	"github.com/fwdline/prediction-league/internal/domain/match"
	"github.com/fwdline/prediction-league/internal/domain/prediction"
	"github.com/fwdline/prediction-league/internal/domain/season"
	"github.com/fwdline/prediction-league/internal/domain/standings"
	"github.com/fwdline/prediction-league/internal/domain/team"
	"github.com/fwdline/prediction-league/internal/infrastructure/account/introspect"
	"github.com/fwdline/prediction-league/internal/infrastructure/repository/memory"
	"github.com/fwdline/prediction-league/internal/infrastructure/repository/postgres"
	"github.com/fwdline/prediction-league/internal/interfaces/httpapi"
	"github.com/fwdline/prediction-league/internal/platform/logging"
	"github.com/fwdline/prediction-league/internal/platform/resilience"
	"github.com/fwdline/prediction-league/internal/usecase"
)

// App bundles the long-lived pieces main has to start and stop.
type App struct {
	Server    *http.Server
	Scheduler *usecase.Scheduler
	db        *sqlx.DB
}

type repositories struct {
	teams       team.Repository
	seasons     season.Repository
	gameweeks   gameweek.Repository
	matches     match.Repository
	predictions prediction.Repository
	standings   standings.Repository
	leagues     league.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	app := &App{}
	repos, err := buildRepositories(cfg, logger, app)
	if err != nil {
		return nil, err
	}

	provider := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:    cfg.FootballDataBaseURL,
		Token:      cfg.FootballDataToken,
		Timeout:    cfg.FootballDataTimeout,
		MaxRetries: cfg.FootballDataMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootballDataCircuitEnabled,
			FailureThreshold: cfg.FootballDataCircuitFailureCount,
			OpenTimeout:      cfg.FootballDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootballDataCircuitHalfOpenMaxReq,
		},
	})

	standingsSvc := usecase.NewStandingsService(repos.matches, repos.predictions, repos.standings, repos.leagues, logger)
	scoringSvc := usecase.NewScoringService(repos.matches, repos.predictions, standingsSvc, logger)
	predictionSvc := usecase.NewPredictionService(repos.predictions, repos.matches, repos.gameweeks, repos.leagues, logger)
	gameweekSvc := usecase.NewGameweekService(repos.seasons, repos.gameweeks, repos.matches, repos.teams, logger)
	rescoreSvc := usecase.NewRescoreService(repos.seasons, repos.matches, repos.predictions, standingsSvc, cfg.RescoreWorkers, logger)
	syncerSvc := usecase.NewSyncerService(provider, repos.teams, repos.seasons, repos.gameweeks, repos.matches, usecase.SyncerConfig{
		Timing: gameweek.TimingPolicy{
			DeadlineLead:    cfg.DeadlineLead,
			WindowExtension: cfg.WindowExtension,
		},
	}, logger)

	scheduler := usecase.NewScheduler(syncerSvc, scoringSvc, usecase.SchedulerConfig{
		SyncInterval:    cfg.JobSyncInterval,
		ResultsInterval: cfg.JobResultsInterval,
		InitialDelay:    cfg.JobInitialDelay,
	}, logger)

	verifier := introspect.NewClient(
		&http.Client{Timeout: cfg.AccountTimeout},
		cfg.AccountBaseURL,
		cfg.AccountIntrospectPath,
		logger,
	)

	handler := httpapi.NewHandler(gameweekSvc, predictionSvc, standingsSvc, scoringSvc, rescoreSvc, scheduler, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app.Server = server
	app.Scheduler = scheduler
	return app, nil
}

// Close releases the database handle, if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// buildRepositories picks the storage backend: postgres when DB_URL is
// set, seeded in-memory stores otherwise so local development works
// without a database.
func buildRepositories(cfg config.Config, logger *logging.Logger, app *App) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("DB_URL not set, using in-memory repositories")

		gameweeks := memory.NewGameweekRepository(nil, nil)
		matches := memory.NewMatchRepository(nil)
		predictions := memory.NewPredictionRepository()
		matches.Attach(gameweeks, predictions)
		predictions.AttachMatches(matches)

		return repositories{
			teams:       memory.NewTeamRepository(nil),
			seasons:     memory.NewSeasonRepository(nil),
			gameweeks:   gameweeks,
			matches:     matches,
			predictions: predictions,
			standings:   memory.NewStandingsRepository(),
			leagues:     memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedMembers()),
		}, nil
	}

	db, err := otelsqlx.Connect("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary))
	if err != nil {
		return repositories{}, fmt.Errorf("connect database: %w", err)
	}
	app.db = db
	logger.Info("connected to database", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		teams:       postgres.NewTeamRepository(db),
		seasons:     postgres.NewSeasonRepository(db),
		gameweeks:   postgres.NewGameweekRepository(db),
		matches:     postgres.NewMatchRepository(db),
		predictions: postgres.NewPredictionRepository(db),
		standings:   postgres.NewStandingsRepository(db),
		leagues:     postgres.NewLeagueRepository(db),
	}, nil
}
