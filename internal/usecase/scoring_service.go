package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/match"
	"github.com/fwdline/prediction-league/internal/domain/prediction"
	"github.com/fwdline/prediction-league/internal/platform/logging"
)

const (
	PointsExactScore    = 3
	PointsCorrectResult = 1
)

// Points returns the award for one prediction against a final score:
// the full award for the exact scoreline, the lesser award for the right
// result category (home win, draw, away win), zero otherwise.
func Points(predHome, predAway, actualHome, actualAway int) int {
	if predHome == actualHome && predAway == actualAway {
		return PointsExactScore
	}
	if resultCategory(predHome, predAway) == resultCategory(actualHome, actualAway) {
		return PointsCorrectResult
	}
	return 0
}

func resultCategory(home, away int) int {
	switch {
	case home > away:
		return 1
	case home < away:
		return -1
	default:
		return 0
	}
}

// ScoringService assigns points to predictions once their match has a
// final result, then hands the affected (league, gameweek) pairs to the
// standings service.
type ScoringService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	standings      *StandingsService
	logger         *logging.Logger
	now            func() time.Time
}

func NewScoringService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	standings *StandingsService,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoringService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		standings:      standings,
		logger:         logger,
		now:            time.Now,
	}
}

// ScorePredictionsForMatch scores every prediction for one match. The
// match must be finished with a recorded final score; anything else is a
// silent no-op so callers can fire it speculatively. All points for the
// match land in one transaction. Points are recomputed for every row and
// only rows whose points differ are written, so a second call with the
// same result is a no-op while a corrected final score re-scores the
// match.
func (s *ScoringService) ScorePredictionsForMatch(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScorePredictionsForMatch")
	defer span.End()

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match id=%s: %w", matchID, err)
	}
	if !exists || !item.HasFinalScore() {
		return nil
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("list predictions match=%s: %w", matchID, err)
	}

	pointsByID := make(map[string]int, len(predictions))
	leagues := make(map[string]struct{})
	for _, p := range predictions {
		points := Points(p.HomeScore, p.AwayScore, *item.HomeScore, *item.AwayScore)
		if p.Points != nil && *p.Points == points {
			continue
		}
		pointsByID[p.ID] = points
		leagues[p.LeagueID] = struct{}{}
	}
	if len(pointsByID) == 0 {
		return nil
	}

	if err := s.predictionRepo.ScoreMatch(ctx, matchID, pointsByID, s.now().UTC()); err != nil {
		return fmt.Errorf("score match id=%s: %w", matchID, err)
	}

	s.logger.InfoContext(ctx, "match scored",
		"match_id", matchID,
		"predictions", len(pointsByID),
		"leagues", len(leagues),
	)

	if s.standings == nil {
		return nil
	}
	for leagueID := range leagues {
		if err := s.standings.RecomputeForMatch(ctx, leagueID, matchID); err != nil {
			// Points are already committed; the standings cache catches up
			// on the next recompute for the league.
			s.logger.ErrorContext(ctx, "standings recompute failed",
				"league_id", leagueID, "match_id", matchID, "error", err)
		}
	}
	return nil
}

// ApplyManualResult records an operator-entered final score for a match
// and scores it immediately. It is the recovery path for fixtures the
// provider never settles (abandoned feeds, long-delayed corrections).
func (s *ScoringService) ApplyManualResult(ctx context.Context, matchID string, homeScore, awayScore int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ApplyManualResult")
	defer span.End()

	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if homeScore < 0 || awayScore < 0 {
		return fmt.Errorf("%w: scores must be >= 0", ErrInvalidInput)
	}

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match id=%s: %w", matchID, err)
	}
	if !exists {
		return fmt.Errorf("%w: match id=%s", ErrNotFound, matchID)
	}

	item.Status = match.StatusFinished
	item.HomeScore = &homeScore
	item.AwayScore = &awayScore
	if _, err := s.matchRepo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("store manual result match=%s: %w", matchID, err)
	}

	s.logger.InfoContext(ctx, "manual result applied",
		"match_id", matchID,
		"home_score", homeScore,
		"away_score", awayScore,
	)
	return s.ScorePredictionsForMatch(ctx, matchID)
}

// ScorePendingFinished finds finished matches that still carry unscored
// predictions and scores each of them. It closes the gap left when a
// result landed but the follow-up scoring run failed.
func (s *ScoringService) ScorePendingFinished(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScorePendingFinished")
	defer span.End()

	ids, err := s.matchRepo.ListFinishedWithUnscoredPredictions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list pending finished matches: %w", err)
	}

	scored := 0
	for _, id := range ids {
		if err := s.ScorePredictionsForMatch(ctx, id); err != nil {
			s.logger.ErrorContext(ctx, "pending match scoring failed", "match_id", id, "error", err)
			continue
		}
		scored++
	}
	return scored, nil
}
