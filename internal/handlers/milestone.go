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

// CreateMilestoneRequest represents the milestone creation request.
// AchievedAt may be null for pending/expected milestones.
type CreateMilestoneRequest struct {
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
}

// MilestoneResponse represents a milestone.
type MilestoneResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Category   string     `json:"category"`
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
}

// CreateMilestone records a milestone for a child in the caller's family.
func (h *Handler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
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

	var req CreateMilestoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Title = sanitizeName(req.Title)
	if req.Title == "" {
		h.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	milestone, err := h.pg.CreateMilestone(r.Context(), &models.Milestone{
		ChildID:    childID,
		Title:      req.Title,
		Category:   req.Category,
		AchievedAt: req.AchievedAt,
	})
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create milestone")
		return
	}

	h.JSON(w, http.StatusCreated, MilestoneResponse{
		ID:         milestone.ID.String(),
		Title:      milestone.Title,
		Category:   milestone.Category,
		AchievedAt: milestone.AchievedAt,
	})
}

// AchieveMilestoneRequest represents the achievement request. A missing
// achieved_at defaults to now.
type AchieveMilestoneRequest struct {
	AchievedAt *time.Time `json:"achieved_at,omitempty"`
}

// AchieveMilestone marks a pending milestone as achieved.
func (h *Handler) AchieveMilestone(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	childID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid child ID format")
		return
	}
	milestoneID, err := uuid.Parse(chi.URLParam(r, "mid"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid milestone ID format")
		return
	}
	if err := h.guard.Authorize(r.Context(), principal, childID); err != nil {
		h.DomainError(w, err)
		return
	}

	var req AchieveMilestoneRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.Error(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}
	achievedAt := time.Now().UTC()
	if req.AchievedAt != nil {
		achievedAt = *req.AchievedAt
	}

	milestone, err := h.pg.AchieveMilestone(r.Context(), childID, milestoneID, achievedAt)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to update milestone")
		return
	}
	if milestone == nil {
		h.Error(w, http.StatusNotFound, "milestone not found")
		return
	}

	metrics.MilestonesAchieved.Inc()

	h.JSON(w, http.StatusOK, MilestoneResponse{
		ID:         milestone.ID.String(),
		Title:      milestone.Title,
		Category:   milestone.Category,
		AchievedAt: milestone.AchievedAt,
	})
}
