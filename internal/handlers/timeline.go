package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/seawatts/nugget-sub007/internal/api/middleware"
	"github.com/seawatts/nugget-sub007/internal/timeline"
)

// Timeline handles GET /children/{id}/timeline: one merged feed page.
//
// Query parameters:
//
//	cursor          ISO-8601 instant; items strictly older are returned
//	limit           page size, 1-100, default 30
//	kinds           comma-separated subset of activity,milestone,chat
//	activity_types  comma-separated activity type filter
//	actor_ids       comma-separated caregiver id filter
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	raw := timeline.RawQuery{
		ChildID:       chi.URLParam(r, "id"),
		Cursor:        r.URL.Query().Get("cursor"),
		Limit:         r.URL.Query().Get("limit"),
		Kinds:         splitCSV(r.URL.Query().Get("kinds")),
		ActivityTypes: splitCSV(r.URL.Query().Get("activity_types")),
		ActorIDs:      splitCSV(r.URL.Query().Get("actor_ids")),
	}

	page, err := h.tl.Timeline(r.Context(), principal, raw)
	if err != nil {
		h.DomainError(w, err)
		return
	}

	h.JSON(w, http.StatusOK, page)
}
