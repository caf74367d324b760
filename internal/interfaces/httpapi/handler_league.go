package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/plated-dev/chef-league/internal/domain/league"
	"github.com/plated-dev/chef-league/internal/domain/scoring"
	"github.com/plated-dev/chef-league/internal/usecase"
)

type createLeagueRequest struct {
	Name          string              `json:"name" validate:"required,max=100"`
	Season        int                 `json:"season" validate:"required,min=1"`
	MaxMembers    int                 `json:"max_members" validate:"omitempty,min=2"`
	MaxRosterSize int                 `json:"max_roster_size" validate:"omitempty,min=1"`
	Scoring       *scoringSettingsDTO `json:"scoring"`
}

type joinLeagueRequest struct {
	InviteCode string `json:"invite_code" validate:"required,min=6"`
}

type updateLeagueSettingsRequest struct {
	Name          *string             `json:"name" validate:"omitempty,max=100"`
	MaxMembers    *int                `json:"max_members" validate:"omitempty,min=2"`
	MaxRosterSize *int                `json:"max_roster_size" validate:"omitempty,min=1"`
	CurrentWeek   *int                `json:"current_week" validate:"omitempty,min=1"`
	Scoring       *scoringSettingsDTO `json:"scoring"`
}

type transitionLeagueRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active completed"`
}

type updateDraftOrderRequest struct {
	Order []string `json:"order" validate:"required,min=1,dive,required"`
}

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createLeagueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}

	var settings *scoring.Settings
	if req.Scoring != nil {
		s := scoringSettingsFromDTO(*req.Scoring)
		settings = &s
	}

	created, err := h.leagueService.CreateLeague(ctx, usecase.CreateLeagueInput{
		UserID:        principal.UserID,
		Name:          req.Name,
		Season:        req.Season,
		MaxMembers:    req.MaxMembers,
		MaxRosterSize: req.MaxRosterSize,
		Scoring:       settings,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create league failed", "user_id", principal.UserID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, leagueToDTO(created))
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req joinLeagueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}

	joined, err := h.leagueService.JoinByInviteCode(ctx, usecase.JoinLeagueInput{
		UserID:     principal.UserID,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "join league failed", "user_id", principal.UserID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, leagueToDTO(joined))
}

func (h *Handler) ListMyLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyLeagues")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagues, err := h.leagueService.ListMyLeagues(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list leagues failed", "user_id", principal.UserID, "error", err)
		writeError(w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(w, http.StatusOK, items)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	item, err := h.leagueService.GetLeague(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) UpdateLeagueSettings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateLeagueSettings")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateLeagueSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}

	var settings *scoring.Settings
	if req.Scoring != nil {
		s := scoringSettingsFromDTO(*req.Scoring)
		settings = &s
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	updated, err := h.leagueService.UpdateSettings(ctx, usecase.UpdateLeagueSettingsInput{
		UserID:        principal.UserID,
		LeagueID:      leagueID,
		Name:          req.Name,
		MaxMembers:    req.MaxMembers,
		MaxRosterSize: req.MaxRosterSize,
		CurrentWeek:   req.CurrentWeek,
		Scoring:       settings,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update league settings failed", "league_id", leagueID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, leagueToDTO(updated))
}

func (h *Handler) TransitionLeagueStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TransitionLeagueStatus")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req transitionLeagueRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	updated, err := h.leagueService.TransitionStatus(ctx, usecase.TransitionLeagueInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		To:       league.Status(req.Status),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "transition league failed", "league_id", leagueID, "to", req.Status, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, leagueToDTO(updated))
}

func (h *Handler) UpdateDraftOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateDraftOrder")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req updateDraftOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	updated, err := h.leagueService.UpdateDraftOrder(ctx, usecase.UpdateDraftOrderInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		Order:    req.Order,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update draft order failed", "league_id", leagueID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, leagueToDTO(updated))
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	standings, err := h.leaderboardService.GetLeaderboard(ctx, principal.UserID, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "league_id", leagueID, "error", err)
		writeError(w, err)
		return
	}

	items := make([]standingDTO, 0, len(standings))
	for _, s := range standings {
		items = append(items, standingToDTO(s))
	}

	writeSuccess(w, http.StatusOK, items)
}
