package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/plated-dev/chef-league/internal/platform/logging"
	"github.com/plated-dev/chef-league/internal/usecase"
)

type Handler struct {
	leagueService      *usecase.LeagueService
	draftService       *usecase.DraftService
	scoringService     *usecase.ScoringService
	leaderboardService *usecase.LeaderboardService
	chefService        *usecase.ChefService
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	draftService *usecase.DraftService,
	scoringService *usecase.ScoringService,
	leaderboardService *usecase.LeaderboardService,
	chefService *usecase.ChefService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Handler{
		leagueService:      leagueService,
		draftService:       draftService,
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		chefService:        chefService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	_, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}
