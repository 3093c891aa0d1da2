package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/fwdline/prediction-league/internal/platform/logging"
	"github.com/fwdline/prediction-league/internal/usecase"
)

type Handler struct {
	gameweekService   *usecase.GameweekService
	predictionService *usecase.PredictionService
	standingsService  *usecase.StandingsService
	scoringService    *usecase.ScoringService
	rescoreService    *usecase.RescoreService
	scheduler         *usecase.Scheduler
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	gameweekService *usecase.GameweekService,
	predictionService *usecase.PredictionService,
	standingsService *usecase.StandingsService,
	scoringService *usecase.ScoringService,
	rescoreService *usecase.RescoreService,
	scheduler *usecase.Scheduler,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		gameweekService:   gameweekService,
		predictionService: predictionService,
		standingsService:  standingsService,
		scoringService:    scoringService,
		rescoreService:    rescoreService,
		scheduler:         scheduler,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type predictionEntryRequest struct {
	MatchID   string `json:"matchId" validate:"required"`
	HomeScore int    `json:"homeScore" validate:"gte=0,lte=20"`
	AwayScore int    `json:"awayScore" validate:"gte=0,lte=20"`
}

type submitPredictionsRequest struct {
	Entries []predictionEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type rescoreJobRequest struct {
	Competition string `json:"competition" validate:"required"`
}

type manualResultRequest struct {
	HomeScore int `json:"homeScore" validate:"gte=0"`
	AwayScore int `json:"awayScore" validate:"gte=0"`
}
