package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fwdline/prediction-league/internal/domain/competition"
	"github.com/fwdline/prediction-league/internal/domain/match"
	"github.com/fwdline/prediction-league/internal/domain/season"
	"github.com/fwdline/prediction-league/internal/domain/team"
	"github.com/fwdline/prediction-league/internal/usecase"
)

type seasonDTO struct {
	ID          string `json:"id"`
	Competition string `json:"competition"`
	Name        string `json:"name"`
	IsCurrent   bool   `json:"isCurrent"`
}

type gameweekSummaryDTO struct {
	ID        string    `json:"id"`
	Number    int       `json:"number"`
	Deadline  time.Time `json:"deadline"`
	WindowEnd time.Time `json:"windowEnd"`
	State     string    `json:"state"`
}

type currentCompetitionDTO struct {
	Season    seasonDTO            `json:"season"`
	Gameweeks []gameweekSummaryDTO `json:"gameweeks"`
	Active    *gameweekSummaryDTO  `json:"active,omitempty"`
	Next      *gameweekSummaryDTO  `json:"next,omitempty"`
}

type matchDTO struct {
	ID         string    `json:"id"`
	MatchdayID string    `json:"matchdayId"`
	GameweekID string    `json:"gameweekId"`
	HomeTeamID string    `json:"homeTeamId"`
	AwayTeamID string    `json:"awayTeamId"`
	KickoffAt  time.Time `json:"kickoffAt"`
	Status     string    `json:"status"`
	HomeScore  *int      `json:"homeScore,omitempty"`
	AwayScore  *int      `json:"awayScore,omitempty"`
	Venue      string    `json:"venue,omitempty"`
}

type matchdayViewDTO struct {
	ID      string     `json:"id"`
	Date    time.Time  `json:"date"`
	Matches []matchDTO `json:"matches"`
}

type gameweekDetailDTO struct {
	Gameweek  gameweekSummaryDTO `json:"gameweek"`
	Matchdays []matchdayViewDTO  `json:"matchdays"`
}

type teamDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"shortName,omitempty"`
	Code        string `json:"code,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	Competition string `json:"competition"`
}

func (h *Handler) GetCurrentCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentCompetition")
	defer span.End()

	comp, err := parseCompetitionPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.gameweekService.Current(ctx, comp)
	if err != nil {
		h.logger.WarnContext(ctx, "get current competition failed", "competition", comp.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, currentCompetitionToDTO(view))
}

func (h *Handler) ListCompetitionTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitionTeams")
	defer span.End()

	comp, err := parseCompetitionPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.gameweekService.Teams(ctx, comp)
	if err != nil {
		h.logger.WarnContext(ctx, "list competition teams failed", "competition", comp.String(), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGameweek")
	defer span.End()

	gameweekID := r.PathValue("gameweekID")
	detail, err := h.gameweekService.Detail(ctx, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "get gameweek failed", "gameweek_id", gameweekID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameweekDetailToDTO(detail))
}

func parseCompetitionPath(r *http.Request) (competition.Competition, error) {
	comp, err := competition.Parse(r.PathValue("competition"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return comp, nil
}

func seasonToDTO(s season.Season) seasonDTO {
	return seasonDTO{
		ID:          s.ID,
		Competition: s.Competition.String(),
		Name:        s.Name,
		IsCurrent:   s.IsCurrent,
	}
}

func gameweekSummaryToDTO(item usecase.GameweekSummary) gameweekSummaryDTO {
	return gameweekSummaryDTO{
		ID:        item.Gameweek.ID,
		Number:    item.Gameweek.Number,
		Deadline:  item.Gameweek.Deadline,
		WindowEnd: item.Gameweek.WindowEnd,
		State:     string(item.State),
	}
}

func currentCompetitionToDTO(view usecase.CurrentCompetitionView) currentCompetitionDTO {
	out := currentCompetitionDTO{
		Season:    seasonToDTO(view.Season),
		Gameweeks: make([]gameweekSummaryDTO, 0, len(view.Gameweeks)),
	}
	for _, item := range view.Gameweeks {
		out.Gameweeks = append(out.Gameweeks, gameweekSummaryToDTO(item))
	}
	if view.Active != nil {
		dto := gameweekSummaryToDTO(*view.Active)
		out.Active = &dto
	}
	if view.Next != nil {
		dto := gameweekSummaryToDTO(*view.Next)
		out.Next = &dto
	}
	return out
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:         m.ID,
		MatchdayID: m.MatchdayID,
		GameweekID: m.GameweekID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		KickoffAt:  m.KickoffAt,
		Status:     m.Status,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		Venue:      m.Venue,
	}
}

func matchdayViewToDTO(view usecase.MatchdayView) matchdayViewDTO {
	out := matchdayViewDTO{
		ID:      view.Matchday.ID,
		Date:    view.Matchday.Date,
		Matches: make([]matchDTO, 0, len(view.Matches)),
	}
	for _, m := range view.Matches {
		out.Matches = append(out.Matches, matchToDTO(m))
	}
	return out
}

func gameweekDetailToDTO(detail usecase.GameweekDetail) gameweekDetailDTO {
	out := gameweekDetailDTO{
		Gameweek: gameweekSummaryToDTO(usecase.GameweekSummary{
			Gameweek: detail.Gameweek,
			State:    detail.State,
		}),
		Matchdays: make([]matchdayViewDTO, 0, len(detail.Matchdays)),
	}
	for _, day := range detail.Matchdays {
		out.Matchdays = append(out.Matchdays, matchdayViewToDTO(day))
	}
	return out
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:          t.ID,
		Name:        t.Name,
		ShortName:   t.ShortName,
		Code:        t.Code,
		LogoURL:     t.LogoURL,
		Competition: t.Competition.String(),
	}
}
