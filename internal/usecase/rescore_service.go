package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/match"
	"github.com/fwdline/prediction-league/internal/domain/prediction"
	"github.com/fwdline/prediction-league/internal/domain/season"
	"github.com/fwdline/prediction-league/internal/platform/logging"
)

const defaultRescoreWorkers = 8

// RescoreReport summarizes one backfill run.
type RescoreReport struct {
	Matches  int      `json:"matches"`
	Rescored int      `json:"rescored"`
	Failed   []string `json:"failed,omitempty"`
	Leagues  int      `json:"leagues"`
}

// RescoreService recomputes points for every finished match of a
// competition's current season. It exists for operator recovery after a
// provider score correction; scoring assignment is deterministic, so a
// rescore of untouched matches converges on the same points.
type RescoreService struct {
	seasonRepo     season.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	standings      *StandingsService
	workers        int
	logger         *logging.Logger
	now            func() time.Time
}

func NewRescoreService(
	seasonRepo season.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	standings *StandingsService,
	workers int,
	logger *logging.Logger,
) *RescoreService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultRescoreWorkers
	}

	return &RescoreService{
		seasonRepo:     seasonRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		standings:      standings,
		workers:        workers,
		logger:         logger,
		now:            time.Now,
	}
}

// RescoreCompetition re-scores every finished match of the competition's
// current season on a bounded worker pool, then recomputes standings for
// each affected league. Unlike the regular scoring path it overwrites
// points that were already assigned.
func (s *RescoreService) RescoreCompetition(ctx context.Context, comp competition.Competition) (RescoreReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RescoreService.RescoreCompetition")
	defer span.End()

	current, exists, err := s.seasonRepo.GetCurrent(ctx, comp)
	if err != nil {
		return RescoreReport{}, fmt.Errorf("get current season competition=%s: %w", comp, err)
	}
	if !exists {
		return RescoreReport{}, fmt.Errorf("%w: no current season for competition=%s", ErrNotFound, comp)
	}

	matches, err := s.matchRepo.ListBySeason(ctx, current.ID)
	if err != nil {
		return RescoreReport{}, fmt.Errorf("list matches season=%s: %w", current.ID, err)
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return RescoreReport{}, fmt.Errorf("create rescore pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		report   RescoreReport
		affected = make(map[string]map[string]struct{})
	)

	for _, item := range matches {
		if !item.HasFinalScore() {
			continue
		}
		report.Matches++

		item := item
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			leagues, err := s.rescoreMatch(ctx, item)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, item.ID)
				s.logger.ErrorContext(ctx, "match rescore failed", "match_id", item.ID, "error", err)
				return
			}
			report.Rescored++
			for leagueID := range leagues {
				if _, exists := affected[leagueID]; !exists {
					affected[leagueID] = make(map[string]struct{})
				}
				affected[leagueID][item.ID] = struct{}{}
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.Failed = append(report.Failed, item.ID)
			mu.Unlock()
		}
	}
	wg.Wait()

	report.Leagues = len(affected)
	if s.standings != nil {
		for leagueID, matchIDs := range affected {
			for matchID := range matchIDs {
				if err := s.standings.RecomputeForMatch(ctx, leagueID, matchID); err != nil {
					s.logger.ErrorContext(ctx, "standings recompute failed",
						"league_id", leagueID, "match_id", matchID, "error", err)
				}
			}
		}
	}

	s.logger.InfoContext(ctx, "competition rescored",
		"competition", comp,
		"matches", report.Matches,
		"rescored", report.Rescored,
		"failed", len(report.Failed),
		"leagues", report.Leagues,
	)
	return report, nil
}

// rescoreMatch recomputes points for all predictions of a finished match,
// including ones already scored, and returns the affected league ids.
func (s *RescoreService) rescoreMatch(ctx context.Context, item match.Match) (map[string]struct{}, error) {
	predictions, err := s.predictionRepo.ListByMatch(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list predictions match=%s: %w", item.ID, err)
	}
	if len(predictions) == 0 {
		return nil, nil
	}

	pointsByID := make(map[string]int, len(predictions))
	leagues := make(map[string]struct{})
	for _, p := range predictions {
		pointsByID[p.ID] = Points(p.HomeScore, p.AwayScore, *item.HomeScore, *item.AwayScore)
		leagues[p.LeagueID] = struct{}{}
	}

	if err := s.predictionRepo.ScoreMatch(ctx, item.ID, pointsByID, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("score match id=%s: %w", item.ID, err)
	}
	return leagues, nil
}
