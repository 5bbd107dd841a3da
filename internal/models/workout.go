package models

import "time"

// Block is one prescribed segment of a workout definition: a work/rest
// pattern repeated for a number of rounds, with an optional pace
// prescription and optional per-round progressions.
type Block struct {
	WorkDuration  int        `json:"workDuration"`
	RestDuration  int        `json:"restDuration"`
	Rounds        int        `json:"rounds"`
	PaceRange     PaceTarget `json:"paceRange"`
	WorkIncrement int        `json:"workDurationIncrement,omitempty"`
	RestIncrement int        `json:"restDurationIncrement,omitempty"`
	// PaceProgression is "increasing" when the round's multiplier walks from
	// the range's low bound to its high bound across rounds.
	PaceProgression string `json:"paceProgression,omitempty"`
}

// Usable reports whether the block carries enough parameters to expand.
func (b Block) Usable() bool {
	return b.WorkDuration > 0
}

// WorkoutDefinition is a day's prescribed training, as served by the workout
// catalog. Immutable once loaded for a session.
type WorkoutDefinition struct {
	ID             int     `json:"id"`
	ProgramVersion string  `json:"program_version"`
	DayNumber      int     `json:"day_number"`
	DayType        DayType `json:"day_type"`
	Blocks         []Block `json:"blocks"`
	// TotalSeconds is the definition's total prescribed duration, used only
	// for the fallback interval when no block is usable.
	TotalSeconds int `json:"total_seconds,omitempty"`
}

// Interval is one executable unit derived from a Block. Completion flags are
// mutated only by the session state machine.
type Interval struct {
	ID            int        `json:"id"`
	Type          DayType    `json:"type"`
	Duration      int        `json:"duration"`
	RestDuration  int        `json:"rest_duration"`
	BlockNumber   int        `json:"block_number"`
	RoundNumber   int        `json:"round_number"`
	PaceRange     PaceTarget `json:"pace_range"`
	Completed     bool       `json:"completed"`
	WorkCompleted bool       `json:"work_completed"`
}

// Baseline is a pace-per-minute figure derived from the most recent
// qualifying time trial for a (user, modality) pair.
type Baseline struct {
	Modality string    `json:"modality"`
	Pace     float64   `json:"pace"`
	Unit     string    `json:"unit"`
	Date     time.Time `json:"date"`
}

// Matches reports whether the baseline can be used for target computation
// with the given output unit.
func (b *Baseline) Matches(unit string) bool {
	return b != nil && b.Pace > 0 && b.Unit == unit
}

// PerformanceModel is the rolling performance record for a
// (user, day_type, modality) key. It is read by the target calculator and
// mutated exactly once per completed session by the model updater.
type PerformanceModel struct {
	UserID         int       `json:"user_id"`
	DayType        DayType   `json:"day_type"`
	Modality       string    `json:"modality"`
	RollingRatio   float64   `json:"rolling_avg_ratio"`
	RollingCount   int       `json:"rolling_count"`
	RecentRatios   []float64 `json:"recent_ratios"`
	LearnedMaxPace float64   `json:"learned_max_pace"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ModalityPreference remembers the output unit last used with a piece of
// equipment. The newest UpdatedAt across a user's rows is the default
// selection for the next session.
type ModalityPreference struct {
	UserID    int       `json:"user_id"`
	Modality  string    `json:"modality"`
	Units     string    `json:"units"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TimeTrial is one maximal-effort benchmark session.
type TimeTrial struct {
	ID              string    `json:"id"`
	UserID          int       `json:"user_id"`
	Modality        string    `json:"modality"`
	TotalOutput     float64   `json:"total_output"`
	DurationSeconds int       `json:"duration_seconds"`
	Units           string    `json:"units"`
	Date            time.Time `json:"date"`
}

// PacePerMinute returns the trial's output rate, or 0 when the trial has no
// usable duration.
func (t TimeTrial) PacePerMinute() float64 {
	if t.DurationSeconds <= 0 {
		return 0
	}
	return t.TotalOutput / (float64(t.DurationSeconds) / 60)
}
