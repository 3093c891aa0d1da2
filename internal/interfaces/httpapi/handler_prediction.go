package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/fwdline/prediction-league/internal/domain/prediction"
	"github.com/fwdline/prediction-league/internal/usecase"
)

type predictionDTO struct {
	ID        string     `json:"id"`
	MatchID   string     `json:"matchId"`
	HomeScore int        `json:"homeScore"`
	AwayScore int        `json:"awayScore"`
	Points    *int       `json:"points,omitempty"`
	ScoredAt  *time.Time `json:"scoredAt,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (h *Handler) SubmitPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitPredictionsRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	gameweekID := r.PathValue("gameweekID")

	entries := make([]usecase.PredictionEntry, 0, len(req.Entries))
	for _, entry := range req.Entries {
		entries = append(entries, usecase.PredictionEntry{
			MatchID:   entry.MatchID,
			HomeScore: entry.HomeScore,
			AwayScore: entry.AwayScore,
		})
	}

	if err := h.predictionService.SubmitPredictions(ctx, principal.ID, leagueID, gameweekID, entries); err != nil {
		h.logger.WarnContext(ctx, "submit predictions failed",
			"user_id", principal.ID,
			"league_id", leagueID,
			"gameweek_id", gameweekID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"accepted": len(entries)})
}

func (h *Handler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	h.listPredictions(w, r.WithContext(ctx), principal.ID, principal.ID)
}

func (h *Handler) ListMemberPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMemberPredictions")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	h.listPredictions(w, r.WithContext(ctx), principal.ID, r.PathValue("userID"))
}

func (h *Handler) listPredictions(w http.ResponseWriter, r *http.Request, requesterID, userID string) {
	ctx := r.Context()
	leagueID := r.PathValue("leagueID")
	gameweekID := r.PathValue("gameweekID")

	items, err := h.predictionService.ListUserPredictions(ctx, requesterID, userID, leagueID, gameweekID)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed",
			"requester_id", requesterID,
			"user_id", userID,
			"league_id", leagueID,
			"gameweek_id", gameweekID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	out := make([]predictionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, predictionToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func predictionToDTO(p prediction.Prediction) predictionDTO {
	return predictionDTO{
		ID:        p.ID,
		MatchID:   p.MatchID,
		HomeScore: p.HomeScore,
		AwayScore: p.AwayScore,
		Points:    p.Points,
		ScoredAt:  p.ScoredAt,
		UpdatedAt: p.UpdatedAt,
	}
}
