package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListChefs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListChefs")
	defer span.End()

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	chefs, err := h.chefService.ListChefs(ctx, status)
	if err != nil {
		h.logger.WarnContext(ctx, "list chefs failed", "status", status, "error", err)
		writeError(w, err)
		return
	}

	items := make([]chefDTO, 0, len(chefs))
	for _, c := range chefs {
		items = append(items, chefToDTO(c))
	}

	writeSuccess(w, http.StatusOK, items)
}

func (h *Handler) GetChef(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetChef")
	defer span.End()

	chefID := strings.TrimSpace(r.PathValue("chefID"))
	c, err := h.chefService.GetChef(ctx, chefID)
	if err != nil {
		h.logger.WarnContext(ctx, "get chef failed", "chef_id", chefID, "error", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, chefToDTO(c))
}
