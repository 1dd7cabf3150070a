package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response.
type LoginResponse struct {
	Token       string `json:"token"`
	CaregiverID string `json:"caregiver_id"`
	FamilyID    string `json:"family_id"`
}

// Login authenticates a caregiver and issues a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		h.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	caregiver, err := h.pg.GetCaregiverByEmail(r.Context(), req.Email)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "database error")
		return
	}
	// Same response for unknown email and wrong password.
	if caregiver == nil {
		h.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(caregiver.PasswordHash), []byte(req.Password)); err != nil {
		h.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := newSessionToken()
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	if err := h.redis.CreateSession(r.Context(), token, caregiver.ID.String(), h.sessionTTL); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	h.JSON(w, http.StatusOK, LoginResponse{
		Token:       token,
		CaregiverID: caregiver.ID.String(),
		FamilyID:    caregiver.FamilyID.String(),
	})
}

// Logout invalidates the caller's session token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 {
		h.Error(w, http.StatusBadRequest, "missing bearer token")
		return
	}
	if err := h.redis.DeleteSession(r.Context(), strings.TrimSpace(parts[1])); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to end session")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func newSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
