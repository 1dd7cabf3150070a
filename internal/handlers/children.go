package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/seawatts/nugget-sub007/internal/api/middleware"
)

// ChildResponse represents a child in API responses.
type ChildResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// ListChildren returns the children in the caller's family.
func (h *Handler) ListChildren(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	children, err := h.pg.ListChildren(r.Context(), principal.FamilyID)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}

	resp := make([]ChildResponse, len(children))
	for i, c := range children {
		resp[i] = ChildResponse{
			ID:        c.ID.String(),
			Name:      c.Name,
			BirthDate: c.BirthDate,
		}
	}
	h.JSON(w, http.StatusOK, map[string]any{"children": resp})
}

// CreateChildRequest represents the child creation request.
type CreateChildRequest struct {
	Name      string     `json:"name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// CreateChild adds a child to the caller's family.
func (h *Handler) CreateChild(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())
	if principal == nil {
		h.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateChildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Name = sanitizeName(req.Name)
	if req.Name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	child, err := h.pg.CreateChild(r.Context(), principal.FamilyID, req.Name, req.BirthDate)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create child")
		return
	}

	h.JSON(w, http.StatusCreated, ChildResponse{
		ID:        child.ID.String(),
		Name:      child.Name,
		BirthDate: child.BirthDate,
	})
}
