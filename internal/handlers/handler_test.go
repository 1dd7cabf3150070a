package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/seawatts/nugget-sub007/internal/timeline"
)

func newTestHandler() *Handler {
	return &Handler{logger: zerolog.Nop()}
}

func TestDomainErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &timeline.ValidationError{Field: "limit", Reason: "must be an integer"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("parse: %w", &timeline.ValidationError{Field: "cursor", Reason: "bad"}), http.StatusBadRequest},
		{"unauthenticated", timeline.ErrAuthenticationRequired, http.StatusUnauthorized},
		{"denied", timeline.ErrAuthorizationDenied, http.StatusForbidden},
		{"source failure", &timeline.SourceFetchError{Kind: timeline.KindActivity, Err: errors.New("pg down")}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	h := newTestHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.DomainError(rec, tt.err)

			if rec.Code != tt.status {
				t.Fatalf("status: want=%d got=%d", tt.status, rec.Code)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body["error"] == "" {
				t.Fatalf("expected error message in body")
			}
		})
	}
}

func TestDomainErrorHidesDenialDetail(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.DomainError(rec, timeline.ErrAuthorizationDenied)

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "access denied" {
		t.Fatalf("denial message should be generic, got %q", body["error"])
	}
}

func TestSplitCSV(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"activity", []string{"activity"}},
		{"activity,milestone,chat", []string{"activity", "milestone", "chat"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "b"}},
		{",,,", nil},
	}
	for _, tt := range tests {
		got := splitCSV(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("splitCSV(%q): want=%v got=%v", tt.in, tt.want, got)
		}
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Maya  ", "Maya"},
		{"Maya\x00Lin", "MayaLin"},
		{"line\nbreak", "linebreak"},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Fatalf("sanitizeName(%q): want=%q got=%q", tt.in, tt.want, got)
		}
	}

	long := make([]byte, 150)
	for i := range long {
		long[i] = 'a'
	}
	if got := sanitizeName(string(long)); len(got) != 100 {
		t.Fatalf("long name should truncate to 100, got %d", len(got))
	}
}
