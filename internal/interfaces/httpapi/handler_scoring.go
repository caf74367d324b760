package httpapi

import (
	"net/http"

	"github.com/plated-dev/chef-league/internal/usecase"
)

type weekEntryRequest struct {
	ChefID     string   `json:"chef_id" validate:"required"`
	Tags       []string `json:"tags" validate:"dive,required"`
	Highlights []string `json:"highlights"`
	Rank       *int     `json:"rank" validate:"omitempty,min=1"`
	Notes      string   `json:"notes" validate:"max=500"`
}

type recordWeekRequest struct {
	Week    int                `json:"week" validate:"required,min=1"`
	Entries []weekEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// RecordWeek ingests one broadcast week of results. The route is reachable
// only through the internal job token middleware.
func (h *Handler) RecordWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordWeek")
	defer span.End()

	var req recordWeekRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(w, err)
		return
	}

	entries := make([]usecase.WeekEntryInput, 0, len(req.Entries))
	for _, entry := range req.Entries {
		entries = append(entries, usecase.WeekEntryInput{
			ChefID:     entry.ChefID,
			Tags:       entry.Tags,
			Highlights: entry.Highlights,
			Rank:       entry.Rank,
			Notes:      entry.Notes,
		})
	}

	summary, err := h.scoringService.RecordWeek(ctx, usecase.RecordWeekInput{
		Week:    req.Week,
		Entries: entries,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record week failed", "week", req.Week, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, weekSummaryToDTO(summary))
}
