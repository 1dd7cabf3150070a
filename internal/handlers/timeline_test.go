package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/seawatts/nugget-sub007/internal/models"
	"github.com/seawatts/nugget-sub007/internal/timeline"
)

type fakeChildLookup struct {
	child *models.Child
}

func (f *fakeChildLookup) GetChildInFamily(ctx context.Context, childID, familyID uuid.UUID) (*models.Child, error) {
	return f.child, nil
}

func newTimelineHandler() *Handler {
	guard := timeline.NewGuard(&fakeChildLookup{})
	agg := timeline.NewAggregator(zerolog.Nop(), timeline.Options{})
	return &Handler{
		tl:     timeline.NewService(guard, agg),
		logger: zerolog.Nop(),
	}
}

func timelineRequest(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", uuid.New().String())
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTimelineRequiresPrincipal(t *testing.T) {
	h := newTimelineHandler()

	rec := httptest.NewRecorder()
	h.Timeline(rec, timelineRequest("/children/x/timeline"))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=%d got=%d", http.StatusUnauthorized, rec.Code)
	}
}

func TestTimelineRejectsBadLimitBeforeAuth(t *testing.T) {
	h := newTimelineHandler()

	// Validation runs before the guard, so a malformed limit is a 400
	// even without a principal.
	rec := httptest.NewRecorder()
	h.Timeline(rec, timelineRequest("/children/x/timeline?limit=abc"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected validation detail in body")
	}
}

func TestTimelineRejectsBadChildID(t *testing.T) {
	h := newTimelineHandler()

	req := httptest.NewRequest(http.MethodGet, "/children/nope/timeline", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "nope")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.Timeline(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
}
