package engine

import (
	"sync"

	"github.com/claude/engine/internal/models"
)

// View is the coarse screen-level state of a session.
type View string

const (
	ViewEquipment View = "equipment-selection"
	ViewPreview   View = "preview"
	ViewActive    View = "active"
)

// RunState is the execution sub-state within the active view.
type RunState string

const (
	StateNotStarted  RunState = "not-started"
	StateRunningWork RunState = "running-work"
	StateRunningRest RunState = "running-rest"
	StatePaused      RunState = "paused"
	StateCompleted   RunState = "completed"
)

// Session owns all mutable state for one workout execution: the view, the
// run state, the countdown, and the per-interval completion flags. It is the
// only mutator of that state; display layers read it through Snapshot.
type Session struct {
	mu sync.Mutex

	def  models.WorkoutDefinition
	plan []models.Interval

	view       View
	state      RunState
	pausedFrom RunState
	current    int
	countdown  int

	modality string
	unit     string
	form     CompletionInput
}

// Snapshot is a read-only projection of a session's state.
type Snapshot struct {
	View      View              `json:"view"`
	State     RunState          `json:"state"`
	Current   int               `json:"current_interval"`
	Countdown int               `json:"countdown"`
	Modality  string            `json:"modality"`
	Unit      string            `json:"unit"`
	Intervals []models.Interval `json:"intervals"`
}

// NewSession creates a session for a workout definition, expanding its plan
// and starting at equipment selection.
func NewSession(def models.WorkoutDefinition) *Session {
	return &Session{
		def:   def,
		plan:  BuildPlan(def),
		view:  ViewEquipment,
		state: StateNotStarted,
	}
}

// SelectModality records the equipment choice and output unit and advances
// to the preview view.
func (s *Session) SelectModality(modality, unit string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modality = modality
	s.unit = unit
	if s.view == ViewEquipment {
		s.view = ViewPreview
	}
}

// Begin enters the active view, arming the countdown for the first interval
// without starting it.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modality == "" {
		return &ValidationError{Field: "modality", Message: "select a modality before starting"}
	}
	s.view = ViewActive
	s.state = StateNotStarted
	s.current = 0
	s.countdown = s.plan[0].Duration
	return nil
}

// Start begins the countdown: not-started moves to running-work, paused
// resumes the phase that was active before pausing. Starting without a
// modality is rejected with no state transition.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modality == "" {
		return &ValidationError{Field: "modality", Message: "select a modality before starting"}
	}
	switch s.state {
	case StateNotStarted:
		s.view = ViewActive
		if s.countdown == 0 {
			s.countdown = s.plan[s.current].Duration
		}
		s.state = StateRunningWork
	case StatePaused:
		s.state = s.pausedFrom
	}
	return nil
}

// Pause suspends a running countdown, preserving the remaining time.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunningWork || s.state == StateRunningRest {
		s.pausedFrom = s.state
		s.state = StatePaused
	}
}

// Resume continues from a pause into the phase active before pausing.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StatePaused {
		s.state = s.pausedFrom
	}
}

// Running reports whether the countdown should be ticking. The ticker
// driving Tick must be torn down whenever this becomes false.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateRunningWork || s.state == StateRunningRest
}

// Tick advances the countdown by one second. At zero the session either
// switches work to rest, advances to the next interval, or completes.
// Ticks are ignored unless the session is running.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunningWork && s.state != StateRunningRest {
		return
	}

	s.countdown--
	if s.countdown > 0 {
		return
	}

	iv := &s.plan[s.current]
	if s.state == StateRunningWork && iv.RestDuration > 0 {
		iv.WorkCompleted = true
		s.state = StateRunningRest
		s.countdown = iv.RestDuration
		return
	}

	// Work with no rest, or rest elapsed: the interval is done.
	iv.WorkCompleted = true
	iv.Completed = true
	if s.current+1 < len(s.plan) {
		s.current++
		s.state = StateRunningWork
		s.countdown = s.plan[s.current].Duration
		return
	}
	s.state = StateCompleted
}

// SkipToEnd stops the timer, marks every interval complete, and jumps
// straight to the completed state.
func (s *Session) SkipToEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.plan {
		s.plan[i].Completed = true
		s.plan[i].WorkCompleted = true
	}
	s.current = len(s.plan) - 1
	s.countdown = 0
	s.state = StateCompleted
}

// Reset starts over from preview: all completion flags and the completion
// form are cleared and the countdown re-arms for the first interval. The
// session does not re-enter active execution.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearProgress()
	s.view = ViewPreview
}

// Discard throws away a completed, unsaved session and returns to preview.
// It is only meaningful before persistence; callers must not invoke it after
// the result has been saved.
func (s *Session) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCompleted {
		return
	}
	s.clearProgress()
	s.view = ViewPreview
}

func (s *Session) clearProgress() {
	for i := range s.plan {
		s.plan[i].Completed = false
		s.plan[i].WorkCompleted = false
	}
	s.current = 0
	s.countdown = s.plan[0].Duration
	s.state = StateNotStarted
	s.form = CompletionInput{}
}

// SetCompletionInput records the user's post-session entries.
func (s *Session) SetCompletionInput(in CompletionInput) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = in
}

// CompletionInput returns the recorded post-session entries.
func (s *Session) CompletionInput() CompletionInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Modality returns the selected equipment and unit.
func (s *Session) Modality() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modality, s.unit
}

// Plan returns a copy of the session's intervals.
func (s *Session) Plan() []models.Interval {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan := make([]models.Interval, len(s.plan))
	copy(plan, s.plan)
	return plan
}

// Definition returns the workout definition the session was built from.
func (s *Session) Definition() models.WorkoutDefinition {
	return s.def
}

// Snapshot returns a read-only view of the session for display.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	plan := make([]models.Interval, len(s.plan))
	copy(plan, s.plan)
	return Snapshot{
		View:      s.view,
		State:     s.state,
		Current:   s.current,
		Countdown: s.countdown,
		Modality:  s.modality,
		Unit:      s.unit,
		Intervals: plan,
	}
}
