package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/seawatts/nugget-sub007/internal/store"
	"github.com/seawatts/nugget-sub007/internal/timeline"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	pg         store.DataStore
	redis      *store.RedisStore
	guard      *timeline.Guard
	tl         *timeline.Service
	logger     zerolog.Logger
	sessionTTL time.Duration
}

// NewHandler creates a new Handler with the given stores and timeline
// service.
func NewHandler(pg store.DataStore, redis *store.RedisStore, guard *timeline.Guard, tl *timeline.Service, logger zerolog.Logger, sessionTTL time.Duration) *Handler {
	return &Handler{
		pg:         pg,
		redis:      redis,
		guard:      guard,
		tl:         tl,
		logger:     logger,
		sessionTTL: sessionTTL,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// DomainError maps timeline errors onto HTTP responses. Authorization
// denials carry no detail about whether the child exists.
func (h *Handler) DomainError(w http.ResponseWriter, err error) {
	var vErr *timeline.ValidationError
	var sErr *timeline.SourceFetchError
	switch {
	case errors.As(err, &vErr):
		h.Error(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, timeline.ErrAuthenticationRequired):
		h.Error(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, timeline.ErrAuthorizationDenied):
		h.Error(w, http.StatusForbidden, "access denied")
	case errors.As(err, &sErr):
		h.logger.Error().Err(err).Str("kind", string(sErr.Kind)).Msg("source fetch failed")
		h.Error(w, http.StatusBadGateway, "failed to load feed")
	default:
		h.logger.Error().Err(err).Msg("request failed")
		h.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// sanitizeName trims and limits a name to 100 characters, removing
// control characters.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)

	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)

	if len(name) > 100 {
		name = name[:100]
	}

	return name
}

// splitCSV splits a comma-separated query parameter, dropping empty
// entries so "a,,b" and "" behave like the caller omitted them.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
