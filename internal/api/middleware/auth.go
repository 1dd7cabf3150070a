package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/seawatts/nugget-sub007/internal/models"
	"github.com/seawatts/nugget-sub007/internal/store"
	"github.com/seawatts/nugget-sub007/internal/timeline"
)

type contextKey string

const principalContextKey contextKey = "principal"

// AuthMiddleware resolves bearer session tokens into a principal.
// Sessions live in Redis; the caregiver row supplies the family scope.
type AuthMiddleware struct {
	pg    store.DataStore
	redis *store.RedisStore
}

// NewAuthMiddleware creates a new auth middleware.
func NewAuthMiddleware(pg store.DataStore, redis *store.RedisStore) *AuthMiddleware {
	return &AuthMiddleware{pg: pg, redis: redis}
}

// RequireAuth verifies the session token and attaches the resolved
// principal to the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			jsonError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		caregiverIDStr, err := m.redis.GetSession(r.Context(), token)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "session lookup failed")
			return
		}
		if caregiverIDStr == "" {
			jsonError(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}

		caregiverID, err := uuid.Parse(caregiverIDStr)
		if err != nil {
			jsonError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		caregiver, err := m.pg.GetCaregiverByID(r.Context(), caregiverID)
		if err != nil || caregiver == nil {
			jsonError(w, http.StatusUnauthorized, "caregiver not found")
			return
		}

		ctx := withPrincipal(r.Context(), caregiver, &timeline.Principal{
			CaregiverID: caregiver.ID,
			FamilyID:    caregiver.FamilyID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// authInfo pairs the caregiver row with its derived principal.
type authInfo struct {
	caregiver *models.Caregiver
	principal *timeline.Principal
}

func withPrincipal(ctx context.Context, cg *models.Caregiver, p *timeline.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, &authInfo{caregiver: cg, principal: p})
}

// GetPrincipal retrieves the resolved principal from the request context,
// or nil for unauthenticated requests.
func GetPrincipal(ctx context.Context) *timeline.Principal {
	info, ok := ctx.Value(principalContextKey).(*authInfo)
	if !ok {
		return nil
	}
	return info.principal
}

// GetCaregiver retrieves the authenticated caregiver from the request
// context.
func GetCaregiver(ctx context.Context) *models.Caregiver {
	info, ok := ctx.Value(principalContextKey).(*authInfo)
	if !ok {
		return nil
	}
	return info.caregiver
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
