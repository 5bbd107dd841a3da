package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claude/engine/internal/analytics"
	"github.com/claude/engine/internal/engine"
	"github.com/claude/engine/internal/models"
	"github.com/claude/engine/internal/storage"
)

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	defs, err := s.store.ListWorkoutDefinitions(r.Context(), s.programVersion)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, defs)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid day number"})
		return
	}

	def, err := s.store.GetWorkoutDefinition(r.Context(), s.programVersion, day)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if def == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}
	writeJSON(w, http.StatusOK, def)
}

// plannedInterval pairs an executable interval with its computed target.
type plannedInterval struct {
	models.Interval
	Target engine.IntervalTarget `json:"target"`
}

type planResponse struct {
	Workout           *models.WorkoutDefinition `json:"workout"`
	Intervals         []plannedInterval         `json:"intervals"`
	AverageTargetPace *float64                  `json:"average_target_pace"`
	Baseline          *models.Baseline          `json:"baseline"`
	TotalWorkSeconds  int                       `json:"total_work_seconds"`
	TotalRestSeconds  int                       `json:"total_rest_seconds"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "day parameter required"})
		return
	}
	modality := r.URL.Query().Get("modality")
	unit := r.URL.Query().Get("unit")
	if modality == "" || unit == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "modality and unit parameters required"})
		return
	}

	def, err := s.store.GetWorkoutDefinition(r.Context(), s.programVersion, day)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if def == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}

	baseline, err := engine.ResolveBaseline(r.Context(), s.store, s.userID, modality)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	model, err := s.store.GetModel(r.Context(), s.userID, def.DayType, modality)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	plan := engine.BuildPlan(*def)
	resp := planResponse{
		Workout:           def,
		Intervals:         make([]plannedInterval, 0, len(plan)),
		AverageTargetPace: engine.AverageTargetPace(plan, baseline, model, unit),
		Baseline:          baseline,
		TotalWorkSeconds:  engine.TotalWorkSeconds(plan),
		TotalRestSeconds:  engine.TotalRestSeconds(plan),
	}
	for _, iv := range plan {
		resp.Intervals = append(resp.Intervals, plannedInterval{
			Interval: iv,
			Target:   engine.ComputeTarget(iv, baseline, model, unit),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBaseline(w http.ResponseWriter, r *http.Request) {
	modality := r.URL.Query().Get("modality")
	if modality == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "modality parameter required"})
		return
	}

	baseline, err := engine.ResolveBaseline(r.Context(), s.store, s.userID, modality)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	// No trial yet is a normal state: new users see null, not an error.
	writeJSON(w, http.StatusOK, map[string]any{"baseline": baseline})
}

// sessionRequest is a completed session as submitted by a client. The
// server reconstructs the plan from the catalog and derives every metric
// itself; clients only report what they measured.
type sessionRequest struct {
	ProgramDay     int       `json:"program_day"`
	Modality       string    `json:"modality"`
	Units          string    `json:"units"`
	Date           time.Time `json:"date"`
	TotalOutput    float64   `json:"total_output"`
	AvgHeartRate   float64   `json:"average_heart_rate,omitempty"`
	PeakHeartRate  float64   `json:"peak_heart_rate,omitempty"`
	PerceivedExert int       `json:"perceived_exertion,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Modality == "" || req.Units == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "modality and units are required"})
		return
	}

	def, err := s.store.GetWorkoutDefinition(r.Context(), s.programVersion, req.ProgramDay)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if def == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
		return
	}

	baseline, err := engine.ResolveBaseline(r.Context(), s.store, s.userID, req.Modality)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	model, err := s.store.GetModel(r.Context(), s.userID, def.DayType, req.Modality)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}
	plan := engine.BuildPlan(*def)
	in := engine.CompletionInput{
		TotalOutput:    req.TotalOutput,
		AvgHeartRate:   req.AvgHeartRate,
		PeakHeartRate:  req.PeakHeartRate,
		PerceivedExert: req.PerceivedExert,
	}
	result, err := engine.Evaluate(*def, plan, req.Modality, req.Units, in, baseline, model, s.userID, date)
	if err != nil {
		var verr *engine.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if err := s.store.InsertSession(r.Context(), result); err != nil {
		s.log.Error("session insert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// The session row is already durable; a model failure must not turn
	// the save into an error.
	s.updater.ApplyBestEffort(r.Context(), result)

	if err := s.store.SetPreference(r.Context(), s.userID, req.Modality, req.Units, date); err != nil {
		s.log.Warn("preference update failed", "modality", req.Modality, "error", err)
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	f := storage.SessionFilter{
		DayType:  models.DayType(r.URL.Query().Get("day_type")),
		Modality: r.URL.Query().Get("modality"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}

	sessions, err := s.store.ListSessions(r.Context(), s.userID, f)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

type trialRequest struct {
	Modality        string    `json:"modality"`
	TotalOutput     float64   `json:"total_output"`
	DurationSeconds int       `json:"duration_seconds"`
	Units           string    `json:"units"`
	Date            time.Time `json:"date"`
}

func (s *Server) handleCreateTrial(w http.ResponseWriter, r *http.Request) {
	var req trialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Modality == "" || req.Units == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "modality and units are required"})
		return
	}
	if req.TotalOutput <= 0 || req.DurationSeconds <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "total_output and duration_seconds must be positive"})
		return
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}
	trial := &models.TimeTrial{
		ID:              uuid.New().String(),
		UserID:          s.userID,
		Modality:        req.Modality,
		TotalOutput:     req.TotalOutput,
		DurationSeconds: req.DurationSeconds,
		Units:           req.Units,
		Date:            date,
	}
	if err := s.store.InsertTimeTrial(r.Context(), trial); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, trial)
}

func (s *Server) handleListTrials(w http.ResponseWriter, r *http.Request) {
	modality := r.URL.Query().Get("modality")
	if modality == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "modality parameter required"})
		return
	}

	trials, err := s.store.ListTimeTrials(r.Context(), s.userID, modality)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, trials)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	f := analytics.Filter{
		DayType:  models.DayType(r.URL.Query().Get("day_type")),
		Modality: r.URL.Query().Get("modality"),
	}

	sessions, err := s.store.ListSessions(r.Context(), s.userID, storage.SessionFilter{})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics.Build(sessions, f))
}

// handleLastPreference returns the most recently used modality and unit so
// clients can default their equipment picker. A user with no history gets a
// null preference, not an error.
func (s *Server) handleLastPreference(w http.ResponseWriter, r *http.Request) {
	pref, err := s.store.LastPreference(r.Context(), s.userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preference": pref})
}

func (s *Server) handleGetPreference(w http.ResponseWriter, r *http.Request) {
	modality := chi.URLParam(r, "modality")
	pref, err := s.store.GetPreference(r.Context(), s.userID, modality)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if pref == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no preference recorded"})
		return
	}
	writeJSON(w, http.StatusOK, pref)
}

func (s *Server) handlePutPreference(w http.ResponseWriter, r *http.Request) {
	modality := chi.URLParam(r, "modality")

	var req struct {
		Units string `json:"units"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Units == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "units is required"})
		return
	}

	if err := s.store.SetPreference(r.Context(), s.userID, modality, req.Units, s.now()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"modality": modality, "units": req.Units})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
