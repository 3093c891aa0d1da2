package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/platform/logging"
	"github.com/fwdline/prediction-league/internal/platform/resilience"
)

const (
	jobKeySync    = "job:sync"
	jobKeyResults = "job:results"
)

type SchedulerConfig struct {
	SyncInterval    time.Duration
	ResultsInterval time.Duration
	// InitialDelay spaces the first run away from process start so a
	// crash-looping deployment does not hammer the provider.
	InitialDelay time.Duration
	Competitions []competition.Competition
}

// Scheduler drives the two recurring jobs: the full schedule sync on a
// long interval and the results-refresh-plus-scoring pass on a short one.
// The two job types run concurrently with each other, but each type is
// guarded so an overlapping trigger is skipped while the previous run of
// the same type is still going.
type Scheduler struct {
	syncer  *SyncerService
	scoring *ScoringService
	cfg     SchedulerConfig
	flight  *resilience.SingleFlight
	logger  *logging.Logger
	cancel  context.CancelFunc
	wg      conc.WaitGroup
}

func NewScheduler(syncer *SyncerService, scoring *ScoringService, cfg SchedulerConfig, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 6 * time.Hour
	}
	if cfg.ResultsInterval <= 0 {
		cfg.ResultsInterval = 2 * time.Minute
	}
	if cfg.InitialDelay < 0 {
		cfg.InitialDelay = 0
	}
	if len(cfg.Competitions) == 0 {
		cfg.Competitions = competition.All()
	}

	return &Scheduler{
		syncer:  syncer,
		scoring: scoring,
		cfg:     cfg,
		flight:  &resilience.SingleFlight{},
		logger:  logger,
	}
}

// Start launches both job loops and returns immediately. Each loop does
// one deferred initial run, then ticks on its interval until Stop or
// context cancellation.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Go(func() {
		s.loop(ctx, jobKeySync, s.cfg.SyncInterval, s.RunSyncJob)
	})
	s.wg.Go(func() {
		s.loop(ctx, jobKeyResults, s.cfg.ResultsInterval, s.RunResultsJob)
	})

	s.logger.Info("scheduler started",
		"sync_interval", s.cfg.SyncInterval,
		"results_interval", s.cfg.ResultsInterval,
	)
}

// Stop cancels the loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, key string, interval time.Duration, job func(context.Context) error) {
	initial := time.NewTimer(s.cfg.InitialDelay)
	defer initial.Stop()
	select {
	case <-ctx.Done():
		return
	case <-initial.C:
		s.runGuarded(ctx, key, job)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runGuarded(ctx, key, job)
		}
	}
}

// runGuarded is the job boundary: a still-running previous tick makes the
// new one a skip, and a panic or error is logged without touching the
// ticker.
func (s *Scheduler) runGuarded(ctx context.Context, key string, job func(context.Context) error) {
	err, ran := s.flight.TryDo(key, func() (jobErr error) {
		defer func() {
			if r := recover(); r != nil {
				jobErr = fmt.Errorf("job panic: %v", r)
				s.logger.ErrorContext(ctx, "scheduled job panicked",
					"job", key, "panic", r, "stack", string(debug.Stack()))
			}
		}()
		return job(ctx)
	})
	if !ran {
		s.logger.WarnContext(ctx, "scheduled job still running, tick skipped", "job", key)
		return
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled job failed", "job", key, "error", err)
	}
}

// RunSyncJob performs one full schedule sync across all competitions.
func (s *Scheduler) RunSyncJob(ctx context.Context) error {
	started := time.Now()
	results, err := s.syncer.SyncAll(ctx)
	if err != nil {
		return err
	}

	teams, matches := 0, 0
	for _, result := range results {
		teams += result.Teams
		matches += result.Matches
	}
	s.logger.InfoContext(ctx, "sync job finished",
		"teams", teams,
		"matches", matches,
		"duration", time.Since(started),
	)
	return nil
}

// RunResultsJob refreshes live and final results per competition, scores
// the matches that just finished, then sweeps for any finished match the
// regular path missed. A competition failing mid-pass does not stop the
// others.
func (s *Scheduler) RunResultsJob(ctx context.Context) error {
	started := time.Now()
	finished := 0
	failures := 0

	for _, comp := range s.cfg.Competitions {
		ids, err := s.syncer.UpdateMatchResults(ctx, comp)
		if err != nil {
			failures++
			s.logger.ErrorContext(ctx, "results refresh failed", "competition", comp, "error", err)
			continue
		}
		for _, matchID := range ids {
			if err := s.scoring.ScorePredictionsForMatch(ctx, matchID); err != nil {
				s.logger.ErrorContext(ctx, "post-result scoring failed", "match_id", matchID, "error", err)
				continue
			}
			finished++
		}
	}

	swept, err := s.scoring.ScorePendingFinished(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "pending scoring sweep failed", "error", err)
	}

	s.logger.InfoContext(ctx, "results job finished",
		"finished", finished,
		"swept", swept,
		"duration", time.Since(started),
	)
	if failures == len(s.cfg.Competitions) && failures > 0 {
		return fmt.Errorf("%w: results refresh failed for all competitions", ErrDependencyUnavailable)
	}
	return nil
}
