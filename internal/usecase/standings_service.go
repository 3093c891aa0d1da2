package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/league"
	"github.com/fwdline/prediction-league/internal/domain/match"
	"github.com/fwdline/prediction-league/internal/domain/prediction"
	"github.com/fwdline/prediction-league/internal/domain/standings"
	"github.com/fwdline/prediction-league/internal/platform/logging"
)

// LeagueTableRow is one ranked entry of a league table.
type LeagueTableRow struct {
	Rank            int    `json:"rank"`
	PreviousRank    int    `json:"previousRank"`
	UserID          string `json:"userId"`
	TotalPoints     int    `json:"totalPoints"`
	GameweeksPlayed int    `json:"gameweeksPlayed"`
	ExactScores     int    `json:"exactScores"`
	CorrectResults  int    `json:"correctResults"`
}

// StandingsService maintains the cached per-gameweek and all-time
// aggregates and serves the ranked league table. Aggregates are always
// rebuilt from scored predictions, never incremented, so a repeated
// recompute converges on the same numbers.
type StandingsService struct {
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	standingsRepo  standings.Repository
	leagueRepo     league.Repository
	logger         *logging.Logger
	now            func() time.Time
}

func NewStandingsService(
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	standingsRepo standings.Repository,
	leagueRepo league.Repository,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		standingsRepo:  standingsRepo,
		leagueRepo:     leagueRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// RecomputeForMatch refreshes the gameweek score and league standing of
// every league member who predicted the match, then rewrites the league's
// ranks.
func (s *StandingsService) RecomputeForMatch(ctx context.Context, leagueID, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.RecomputeForMatch")
	defer span.End()

	item, exists, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match id=%s: %w", matchID, err)
	}
	if !exists {
		return fmt.Errorf("%w: match id=%s", ErrNotFound, matchID)
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("list predictions match=%s: %w", matchID, err)
	}

	users := make(map[string]struct{})
	for _, p := range predictions {
		if p.LeagueID == leagueID {
			users[p.UserID] = struct{}{}
		}
	}
	if len(users) == 0 {
		return nil
	}

	for userID := range users {
		if err := s.recomputeGameweekScore(ctx, userID, leagueID, item.GameweekID); err != nil {
			return err
		}
		if err := s.recomputeLeagueStanding(ctx, userID, leagueID); err != nil {
			return err
		}
	}

	return s.recomputeRanks(ctx, leagueID)
}

// LeagueTable returns the league standings ordered by rank. The requester
// must be a member.
func (s *StandingsService) LeagueTable(ctx context.Context, leagueID, requesterID string) ([]LeagueTableRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.LeagueTable")
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league id=%s: %w", leagueID, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league id=%s", ErrNotFound, leagueID)
	}

	member, err := s.leagueRepo.IsMember(ctx, leagueID, requesterID)
	if err != nil {
		return nil, fmt.Errorf("check membership league=%s: %w", leagueID, err)
	}
	if !member {
		return nil, fmt.Errorf("%w: league id=%s", ErrForbidden, leagueID)
	}

	rows, err := s.standingsRepo.ListLeagueStandings(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list standings league=%s: %w", leagueID, err)
	}

	seen := make(map[string]struct{}, len(rows))
	out := make([]LeagueTableRow, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[row.UserID]; dup {
			s.logger.ErrorContext(ctx, "duplicate standing row",
				"league_id", leagueID, "user_id", row.UserID, "error", ErrConsistency)
			continue
		}
		seen[row.UserID] = struct{}{}
		out = append(out, LeagueTableRow{
			Rank:            row.CurrentRank,
			PreviousRank:    row.PreviousRank,
			UserID:          row.UserID,
			TotalPoints:     row.TotalPoints,
			GameweeksPlayed: row.GameweeksPlayed,
			ExactScores:     row.ExactScores,
			CorrectResults:  row.CorrectResults,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}

func (s *StandingsService) recomputeGameweekScore(ctx context.Context, userID, leagueID, gameweekID string) error {
	predictions, err := s.predictionRepo.ListByUserLeagueGameweek(ctx, userID, leagueID, gameweekID)
	if err != nil {
		return fmt.Errorf("list user predictions gameweek=%s: %w", gameweekID, err)
	}

	score := standings.GameweekScore{
		UserID:     userID,
		GameweekID: gameweekID,
		LeagueID:   leagueID,
		UpdatedAt:  s.now().UTC(),
	}
	for _, p := range predictions {
		score.PredictedMatches++
		if p.Points == nil {
			continue
		}
		score.ScoredMatches++
		score.TotalPoints += *p.Points
		switch *p.Points {
		case PointsExactScore:
			score.ExactScores++
		case PointsCorrectResult:
			score.CorrectResults++
		}
	}

	if score.ScoredMatches > score.PredictedMatches ||
		score.TotalPoints > score.ScoredMatches*PointsExactScore {
		return fmt.Errorf("%w: gameweek score user=%s gameweek=%s", ErrConsistency, userID, gameweekID)
	}

	if err := s.standingsRepo.UpsertGameweekScore(ctx, score); err != nil {
		return fmt.Errorf("upsert gameweek score user=%s gameweek=%s: %w", userID, gameweekID, err)
	}
	return nil
}

func (s *StandingsService) recomputeLeagueStanding(ctx context.Context, userID, leagueID string) error {
	scores, err := s.standingsRepo.ListGameweekScoresByUserLeague(ctx, userID, leagueID)
	if err != nil {
		return fmt.Errorf("list gameweek scores user=%s league=%s: %w", userID, leagueID, err)
	}

	existing, exists, err := s.standingsRepo.GetLeagueStanding(ctx, userID, leagueID)
	if err != nil {
		return fmt.Errorf("get league standing user=%s league=%s: %w", userID, leagueID, err)
	}

	next := standings.LeagueStanding{
		UserID:    userID,
		LeagueID:  leagueID,
		UpdatedAt: s.now().UTC(),
	}
	if exists {
		next.CurrentRank = existing.CurrentRank
		next.PreviousRank = existing.PreviousRank
	}
	for _, score := range scores {
		if score.ScoredMatches == 0 {
			continue
		}
		next.GameweeksPlayed++
		next.TotalPoints += score.TotalPoints
		next.ExactScores += score.ExactScores
		next.CorrectResults += score.CorrectResults
	}

	if err := s.standingsRepo.UpsertLeagueStanding(ctx, next); err != nil {
		return fmt.Errorf("upsert league standing user=%s league=%s: %w", userID, leagueID, err)
	}
	return nil
}

// recomputeRanks rewrites every member's current rank. Order is total
// points, then exact scores, then correct results, then the earliest
// joined member, then user id so the order is a strict total order even
// for members who joined in the same instant; the previous rank is
// carried forward only when the position actually changed.
func (s *StandingsService) recomputeRanks(ctx context.Context, leagueID string) error {
	rows, err := s.standingsRepo.ListLeagueStandings(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list standings league=%s: %w", leagueID, err)
	}
	if len(rows) == 0 {
		return nil
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list members league=%s: %w", leagueID, err)
	}
	joinedAt := make(map[string]time.Time, len(members))
	for _, m := range members {
		joinedAt[m.UserID] = m.JoinedAt
	}

	sort.SliceStable(rows, func(i, j int) bool {
		left, right := rows[i], rows[j]
		if left.TotalPoints != right.TotalPoints {
			return left.TotalPoints > right.TotalPoints
		}
		if left.ExactScores != right.ExactScores {
			return left.ExactScores > right.ExactScores
		}
		if left.CorrectResults != right.CorrectResults {
			return left.CorrectResults > right.CorrectResults
		}
		if !joinedAt[left.UserID].Equal(joinedAt[right.UserID]) {
			return joinedAt[left.UserID].Before(joinedAt[right.UserID])
		}
		return left.UserID < right.UserID
	})

	changed := make([]standings.LeagueStanding, 0, len(rows))
	for i := range rows {
		rank := i + 1
		if rows[i].CurrentRank == rank {
			continue
		}
		rows[i].PreviousRank = rows[i].CurrentRank
		rows[i].CurrentRank = rank
		rows[i].UpdatedAt = s.now().UTC()
		changed = append(changed, rows[i])
	}
	if len(changed) == 0 {
		return nil
	}

	if err := s.standingsRepo.UpdateRanks(ctx, leagueID, changed); err != nil {
		return fmt.Errorf("update ranks league=%s: %w", leagueID, err)
	}
	return nil
}
