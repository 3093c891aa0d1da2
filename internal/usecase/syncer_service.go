package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/gameweek"
	"github.com/fwdline/prediction-league/internal/domain/match"
	"github.com/fwdline/prediction-league/internal/domain/season"
	"github.com/fwdline/prediction-league/internal/domain/team"
	"github.com/fwdline/prediction-league/internal/platform/logging"
)

// SyncResult reports how many rows one competition sync touched.
type SyncResult struct {
	Teams   int    `json:"teams"`
	Matches int    `json:"matches"`
	Error   string `json:"error,omitempty"`
}

type SyncerConfig struct {
	Competitions []competition.Competition
	Timing       gameweek.TimingPolicy
}

// SyncerService reconciles provider data into durable storage. Every write
// is an upsert keyed by provider external id, so replaying an unchanged
// payload converges instead of duplicating.
type SyncerService struct {
	provider     FixtureProvider
	teamRepo     team.Repository
	seasonRepo   season.Repository
	gameweekRepo gameweek.Repository
	matchRepo    match.Repository
	cfg          SyncerConfig
	logger       *logging.Logger
	now          func() time.Time
}

func NewSyncerService(
	provider FixtureProvider,
	teamRepo team.Repository,
	seasonRepo season.Repository,
	gameweekRepo gameweek.Repository,
	matchRepo match.Repository,
	cfg SyncerConfig,
	logger *logging.Logger,
) *SyncerService {
	if logger == nil {
		logger = logging.Default()
	}
	if len(cfg.Competitions) == 0 {
		cfg.Competitions = competition.All()
	}
	if cfg.Timing.WindowExtension <= 0 {
		cfg.Timing = gameweek.DefaultTimingPolicy()
	}

	return &SyncerService{
		provider:     provider,
		teamRepo:     teamRepo,
		seasonRepo:   seasonRepo,
		gameweekRepo: gameweekRepo,
		matchRepo:    matchRepo,
		cfg:          cfg,
		logger:       logger,
		now:          time.Now,
	}
}

// SyncAll runs SyncCompetition for every supported competition in order.
// Competitions run sequentially to bound provider rate and avoid lock
// contention on shared team rows. One competition failing is recorded in
// its result and does not stop the others; an error is returned only when
// every competition failed.
func (s *SyncerService) SyncAll(ctx context.Context) (map[competition.Competition]SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncerService.SyncAll")
	defer span.End()

	out := make(map[competition.Competition]SyncResult, len(s.cfg.Competitions))
	failures := 0
	for _, comp := range s.cfg.Competitions {
		result, err := s.SyncCompetition(ctx, comp)
		if err != nil {
			failures++
			result.Error = err.Error()
			s.logger.ErrorContext(ctx, "competition sync failed", "competition", comp, "error", err)
		}
		out[comp] = result
	}

	if failures == len(s.cfg.Competitions) && failures > 0 {
		return out, fmt.Errorf("%w: all %d competition syncs failed", ErrDependencyUnavailable, failures)
	}
	return out, nil
}

// SyncCompetition pulls teams and fixtures for one competition and upserts
// season, gameweeks, matchdays and matches.
func (s *SyncerService) SyncCompetition(ctx context.Context, comp competition.Competition) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncerService.SyncCompetition")
	defer span.End()

	if s.provider == nil {
		return SyncResult{}, fmt.Errorf("%w: fixture provider is not configured", ErrDependencyUnavailable)
	}

	result := SyncResult{}

	externalTeams, err := s.provider.FetchTeams(ctx, comp)
	if err != nil {
		return result, fmt.Errorf("fetch teams competition=%s: %w", comp, err)
	}
	teamsByRefID, upserted, err := s.reconcileTeams(ctx, comp, externalTeams)
	if err != nil {
		return result, err
	}
	result.Teams = upserted

	fixtureSet, err := s.provider.FetchFixtures(ctx, comp)
	if err != nil {
		return result, fmt.Errorf("fetch fixtures competition=%s: %w", comp, err)
	}

	seasonName := strings.TrimSpace(fixtureSet.SeasonName)
	if seasonName == "" {
		seasonName = fmt.Sprintf("%s %d", comp.DisplayName(), s.now().UTC().Year())
	}
	currentSeason, err := s.seasonRepo.UpsertCurrent(ctx, season.Season{
		Competition: comp,
		Name:        seasonName,
		IsCurrent:   true,
	})
	if err != nil {
		return result, fmt.Errorf("upsert current season competition=%s: %w", comp, err)
	}

	matches, err := s.reconcileFixtures(ctx, currentSeason.ID, fixtureSet.Fixtures, teamsByRefID)
	if err != nil {
		return result, err
	}
	result.Matches = matches

	s.logger.InfoContext(ctx, "competition synced",
		"competition", comp,
		"season", currentSeason.Name,
		"teams", result.Teams,
		"matches", result.Matches,
	)
	return result, nil
}

// UpdateMatchResults applies live and final provider results for one
// competition. It returns the ids of matches that transitioned to finished
// in this run, plus finished matches whose final score was corrected, so
// the caller can trigger scoring for both. Re-applying an already final
// result with the same scores is a no-op.
func (s *SyncerService) UpdateMatchResults(ctx context.Context, comp competition.Competition) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncerService.UpdateMatchResults")
	defer span.End()

	if s.provider == nil {
		return nil, fmt.Errorf("%w: fixture provider is not configured", ErrDependencyUnavailable)
	}

	results, err := s.provider.FetchResults(ctx, comp)
	if err != nil {
		return nil, fmt.Errorf("fetch results competition=%s: %w", comp, err)
	}

	finished := make([]string, 0, len(results))
	for _, item := range results {
		if item.ExternalID <= 0 {
			continue
		}

		stored, exists, err := s.matchRepo.GetByExternalID(ctx, item.ExternalID)
		if err != nil {
			return finished, fmt.Errorf("get match by external id=%d: %w", item.ExternalID, err)
		}
		if !exists {
			// Result for a fixture the schedule sync has not seen yet;
			// the next full sync will create it.
			s.logger.WarnContext(ctx, "result for unknown match skipped",
				"competition", comp, "external_id", item.ExternalID)
			continue
		}

		nextStatus := match.NormalizeStatus(item.Status)
		wasFinished := stored.HasFinalScore()

		statusChanged := stored.Status != nextStatus
		stored.Status = nextStatus

		scoreChanged := false
		if match.IsFinishedStatus(nextStatus) && item.HomeScore != nil && item.AwayScore != nil {
			if !equalIntPtr(stored.HomeScore, item.HomeScore) || !equalIntPtr(stored.AwayScore, item.AwayScore) {
				stored.HomeScore = cloneIntPtr(item.HomeScore)
				stored.AwayScore = cloneIntPtr(item.AwayScore)
				scoreChanged = true
			}
		}
		if !statusChanged && !scoreChanged {
			continue
		}

		if _, err := s.matchRepo.Upsert(ctx, stored); err != nil {
			return finished, fmt.Errorf("update match result external_id=%d: %w", item.ExternalID, err)
		}
		// A late score correction has to re-flow through scoring just like
		// a fresh final whistle.
		if stored.HasFinalScore() && (!wasFinished || scoreChanged) {
			finished = append(finished, stored.ID)
		}
	}

	return finished, nil
}

func (s *SyncerService) reconcileTeams(
	ctx context.Context,
	comp competition.Competition,
	items []ExternalTeam,
) (map[int64]string, int, error) {
	byRefID := make(map[int64]string, len(items))
	count := 0

	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if item.ExternalID <= 0 || name == "" {
			continue
		}

		next := team.Team{
			ExternalID:  item.ExternalID,
			Name:        name,
			ShortName:   strings.TrimSpace(item.ShortName),
			Code:        strings.TrimSpace(item.Code),
			LogoURL:     strings.TrimSpace(item.LogoURL),
			Competition: comp,
		}

		existing, exists, err := s.teamRepo.GetByExternalID(ctx, item.ExternalID)
		if !exists && err == nil {
			existing, exists, err = s.teamRepo.FindByNormalizedName(ctx, team.NormalizeName(name))
		}
		if err != nil {
			return nil, count, fmt.Errorf("look up team %q: %w", name, err)
		}

		if exists {
			next.ID = existing.ID
			// The same club can appear in both competitions. The row keeps
			// its higher-priority competition tag; the lower-priority sync
			// only refreshes logo and code.
			if existing.Competition.Priority() < comp.Priority() {
				next.Competition = existing.Competition
				next.Name = existing.Name
				next.ShortName = existing.ShortName
			}
		}

		stored, err := s.teamRepo.Upsert(ctx, next)
		if err != nil {
			return nil, count, fmt.Errorf("upsert team %q: %w", name, err)
		}
		byRefID[item.ExternalID] = stored.ID
		count++
	}

	return byRefID, count, nil
}

func (s *SyncerService) reconcileFixtures(
	ctx context.Context,
	seasonID string,
	items []ExternalFixture,
	teamsByRefID map[int64]string,
) (int, error) {
	byGameweek := make(map[int][]ExternalFixture)
	numbers := make([]int, 0)
	for _, item := range items {
		if item.ExternalID <= 0 || item.KickoffAt.IsZero() {
			continue
		}
		number := item.Gameweek
		if number <= 0 {
			number = 1
		}
		if _, exists := byGameweek[number]; !exists {
			numbers = append(numbers, number)
		}
		byGameweek[number] = append(byGameweek[number], item)
	}
	sort.Ints(numbers)

	total := 0
	for _, number := range numbers {
		fixtures := byGameweek[number]

		kickoffs := make([]time.Time, 0, len(fixtures))
		for _, item := range fixtures {
			kickoffs = append(kickoffs, item.KickoffAt)
		}
		deadline, windowEnd, ok := s.cfg.Timing.Window(kickoffs)
		if !ok {
			continue
		}

		gw, err := s.gameweekRepo.Upsert(ctx, gameweek.Gameweek{
			SeasonID:  seasonID,
			Number:    number,
			Deadline:  deadline,
			WindowEnd: windowEnd,
		})
		if err != nil {
			return total, fmt.Errorf("upsert gameweek number=%d: %w", number, err)
		}

		matchdayByDate := make(map[string]string)
		for _, item := range fixtures {
			date := item.KickoffAt.UTC().Truncate(24 * time.Hour)
			dateKey := date.Format("2006-01-02")
			matchdayID, exists := matchdayByDate[dateKey]
			if !exists {
				md, err := s.gameweekRepo.UpsertMatchday(ctx, gameweek.Matchday{
					GameweekID: gw.ID,
					Date:       date,
				})
				if err != nil {
					return total, fmt.Errorf("upsert matchday gameweek=%s date=%s: %w", gw.ID, dateKey, err)
				}
				matchdayID = md.ID
				matchdayByDate[dateKey] = matchdayID
			}

			next := match.Match{
				ExternalID: item.ExternalID,
				MatchdayID: matchdayID,
				GameweekID: gw.ID,
				HomeTeamID: teamsByRefID[item.HomeTeamExternalID],
				AwayTeamID: teamsByRefID[item.AwayTeamExternalID],
				KickoffAt:  item.KickoffAt.UTC(),
				Status:     match.NormalizeStatus(item.Status),
				Venue:      strings.TrimSpace(item.Venue),
			}
			if match.IsFinishedStatus(next.Status) {
				next.HomeScore = cloneIntPtr(item.HomeScore)
				next.AwayScore = cloneIntPtr(item.AwayScore)
			}

			if _, err := s.matchRepo.Upsert(ctx, next); err != nil {
				return total, fmt.Errorf("upsert match external_id=%d: %w", item.ExternalID, err)
			}
			total++
		}
	}

	return total, nil
}

func cloneIntPtr(value *int) *int {
	if value == nil {
		return nil
	}
	v := *value
	return &v
}

func equalIntPtr(left, right *int) bool {
	if left == nil || right == nil {
		return left == right
	}
	return *left == *right
}
