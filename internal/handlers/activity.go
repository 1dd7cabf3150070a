package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/seawatts/nugget-sub007/internal/api/middleware"
	"github.com/seawatts/nugget-sub007/internal/metrics"
	"github.com/seawatts/nugget-sub007/internal/models"
)

// CreateActivityRequest represents the activity logging request.
type CreateActivityRequest struct {
	Type      string     `json:"type"`
	StartAt   *time.Time `json:"start_at,omitempty"`
	EndAt     *time.Time `json:"end_at,omitempty"`
	Scheduled bool       `json:"scheduled"`
	Details   string     `json:"details,omitempty"`
}

// ActivityResponse represents a logged activity.
type ActivityResponse struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	StartAt   *time.Time `json:"start_at,omitempty"`
	Scheduled bool       `json:"scheduled"`
}

// CreateActivity logs an activity for a child in the caller's family.
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	childID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid child ID format")
		return
	}
	if err := h.guard.Authorize(r.Context(), principal, childID); err != nil {
		h.DomainError(w, err)
		return
	}

	var req CreateActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Type == "" {
		h.Error(w, http.StatusBadRequest, "type is required")
		return
	}
	if len(req.Details) > 4096 {
		h.Error(w, http.StatusUnprocessableEntity, "details too long (max 4096 bytes)")
		return
	}

	activity, err := h.pg.CreateActivity(r.Context(), &models.Activity{
		ChildID:   childID,
		ActorID:   principal.CaregiverID,
		Type:      req.Type,
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Scheduled: req.Scheduled,
		Details:   req.Details,
	})
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to log activity")
		return
	}

	metrics.ActivitiesLogged.WithLabelValues(activity.Type).Inc()

	h.JSON(w, http.StatusCreated, ActivityResponse{
		ID:        activity.ID.String(),
		Type:      activity.Type,
		StartAt:   activity.StartAt,
		Scheduled: activity.Scheduled,
	})
}
