package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/plated-dev/chef-league/internal/usecase"
)

type draftChefRequest struct {
	ChefID string `json:"chef_id" validate:"required"`
}

type setRosterSlotRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) DraftChef(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DraftChef")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req draftChefRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	updated, err := h.draftService.DraftChef(ctx, usecase.DraftChefInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		ChefID:   req.ChefID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "draft chef failed", "league_id", leagueID, "chef_id", req.ChefID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, leagueToDTO(updated))
}

func (h *Handler) SetRosterSlotActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetRosterSlotActive")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req setRosterSlotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	leagueID := strings.TrimSpace(r.PathValue("leagueID"))
	chefID := strings.TrimSpace(r.PathValue("chefID"))
	updated, err := h.draftService.SetRosterSlotActive(ctx, usecase.SetRosterSlotActiveInput{
		UserID:   principal.UserID,
		LeagueID: leagueID,
		ChefID:   chefID,
		Active:   req.Active,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set roster slot failed", "league_id", leagueID, "chef_id", chefID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, leagueToDTO(updated))
}
