package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionResult is the persisted record of one completed session. Created
// once at completion, never mutated; corrections require a new record.
type SessionResult struct {
	ID               uuid.UUID `json:"id"`
	UserID           int       `json:"user_id"`
	ProgramVersion   string    `json:"program_version"`
	ProgramDay       int       `json:"program_day"`
	DayType          DayType   `json:"day_type"`
	Modality         string    `json:"modality"`
	Units            string    `json:"units"`
	Date             time.Time `json:"date"`
	TotalOutput      float64   `json:"total_output"`
	ActualPace       float64   `json:"actual_pace"`
	TargetPace       *float64  `json:"target_pace"`
	PerformanceRatio *float64  `json:"performance_ratio"`
	AvgHeartRate     *float64  `json:"average_heart_rate"`
	PeakHeartRate    *float64  `json:"peak_heart_rate"`
	PerceivedExert   int       `json:"perceived_exertion"`
	TotalWorkSecs    int       `json:"total_work_seconds"`
	TotalRestSecs    int       `json:"total_rest_seconds"`
	WorkRestRatio    *float64  `json:"avg_work_rest_ratio"`
	Efficiency       *float64  `json:"efficiency"`
	TrainingLoad     *float64  `json:"training_load"`
	CreatedAt        time.Time `json:"created_at"`
}

// Pace returns the session's recorded pace, deriving it from output and work
// seconds when the stored column is empty (older rows).
func (s SessionResult) Pace() float64 {
	if s.ActualPace > 0 {
		return s.ActualPace
	}
	if s.TotalOutput > 0 && s.TotalWorkSecs > 0 {
		return s.TotalOutput / (float64(s.TotalWorkSecs) / 60)
	}
	return 0
}
