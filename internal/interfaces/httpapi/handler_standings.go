package httpapi

import (
	"fmt"
	"net/http"

	"github.com/fwdline/prediction-league/internal/usecase"
)

func (h *Handler) ListLeagueStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueStandings")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := r.PathValue("leagueID")
	rows, err := h.standingsService.LeagueTable(ctx, leagueID, principal.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "list league standings failed",
			"user_id", principal.ID,
			"league_id", leagueID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}
