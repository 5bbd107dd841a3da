package runner

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/engine/internal/models"
)

// TestFetchWorkout verifies catalog lookup and decoding.
func TestFetchWorkout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/workouts/5" {
			t.Errorf("path = %q, want /api/v1/workouts/5", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.WorkoutDefinition{
			DayNumber: 5, DayType: models.DayInterval,
			Blocks: []models.Block{{WorkDuration: 180, RestDuration: 60, Rounds: 3}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	def, err := c.FetchWorkout(5)
	if err != nil {
		t.Fatalf("FetchWorkout() error: %v", err)
	}
	if def.DayType != models.DayInterval {
		t.Errorf("day type = %q, want %q", def.DayType, models.DayInterval)
	}
	if len(def.Blocks) != 1 {
		t.Errorf("blocks = %d, want 1", len(def.Blocks))
	}
}

// TestFetchWorkoutNotFound verifies a missing day surfaces as a terminal
// error.
func TestFetchWorkoutNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	if _, err := c.FetchWorkout(99); err == nil {
		t.Fatal("FetchWorkout() = nil error, want not-found error")
	}
}

// TestFetchLastPreference verifies the picker default is decoded, and that
// an empty history yields nil without error.
func TestFetchLastPreference(t *testing.T) {
	pref := &models.ModalityPreference{UserID: 1, Modality: "row", Units: "meters"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/preferences" {
			t.Errorf("path = %q, want /api/v1/preferences", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]*models.ModalityPreference{"preference": pref})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	got, err := c.FetchLastPreference()
	if err != nil {
		t.Fatalf("FetchLastPreference() error: %v", err)
	}
	if got == nil || got.Modality != "row" || got.Units != "meters" {
		t.Errorf("preference = %+v, want row/meters", got)
	}

	pref = nil
	got, err = c.FetchLastPreference()
	if err != nil {
		t.Fatalf("FetchLastPreference() with empty history error: %v", err)
	}
	if got != nil {
		t.Errorf("preference = %+v, want nil for empty history", got)
	}
}

// TestSubmitSessionSendsKey verifies the API key header rides along and
// the created result is decoded.
func TestSubmitSessionSendsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-Key"); got != "secret" {
			t.Errorf("X-API-Key = %q, want %q", got, "secret")
		}
		var sub Submission
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		if sub.TotalOutput != 89.1 {
			t.Errorf("total output = %v, want 89.1", sub.TotalOutput)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.SessionResult{TotalOutput: sub.TotalOutput})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	result, err := c.SubmitSession(Submission{ProgramDay: 5, Modality: "bike", Units: "calories", TotalOutput: 89.1})
	if err != nil {
		t.Fatalf("SubmitSession() error: %v", err)
	}
	if result.TotalOutput != 89.1 {
		t.Errorf("result output = %v, want 89.1", result.TotalOutput)
	}
}

// TestSubmitSessionRejectionNotRetried verifies a 400 is terminal: the
// server's validation verdict will not change on retry.
func TestSubmitSessionRejectionNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"total_output: must be greater than 0"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key")
	_, err := c.SubmitSession(Submission{ProgramDay: 5, Modality: "bike", Units: "calories"})
	if err == nil {
		t.Fatal("SubmitSession() = nil error, want rejection")
	}
	if calls != 1 {
		t.Errorf("server called %d times, want 1 (no retry on 4xx)", calls)
	}
}
