package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/claude/engine/internal/models"
)

// Output and heart rate bounds for completion input. Values outside these
// are rejected before any derived metric is computed.
const (
	maxTotalOutput = 10000
	minHeartRate   = 40
	maxHeartRate   = 220
)

// ValidationError reports a rejected completion or session input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CompletionInput is what the athlete reports after finishing a session.
// Heart rates are optional; zero means not recorded.
type CompletionInput struct {
	TotalOutput    float64 `json:"total_output"`
	AvgHeartRate   float64 `json:"average_heart_rate,omitempty"`
	PeakHeartRate  float64 `json:"peak_heart_rate,omitempty"`
	PerceivedExert int     `json:"perceived_exertion,omitempty"`
}

// Validate checks the completion input against physiological bounds.
func (in CompletionInput) Validate() error {
	if in.TotalOutput <= 0 || in.TotalOutput > maxTotalOutput {
		return &ValidationError{
			Field:   "total_output",
			Message: fmt.Sprintf("must be greater than 0 and at most %d", maxTotalOutput),
		}
	}
	if in.AvgHeartRate != 0 && (in.AvgHeartRate < minHeartRate || in.AvgHeartRate > maxHeartRate) {
		return &ValidationError{
			Field:   "average_heart_rate",
			Message: fmt.Sprintf("must be between %d and %d", minHeartRate, maxHeartRate),
		}
	}
	if in.PeakHeartRate != 0 && (in.PeakHeartRate < minHeartRate || in.PeakHeartRate > maxHeartRate) {
		return &ValidationError{
			Field:   "peak_heart_rate",
			Message: fmt.Sprintf("must be between %d and %d", minHeartRate, maxHeartRate),
		}
	}
	if in.AvgHeartRate != 0 && in.PeakHeartRate != 0 && in.PeakHeartRate < in.AvgHeartRate {
		return &ValidationError{Field: "peak_heart_rate", Message: "cannot be below average heart rate"}
	}
	if in.PerceivedExert != 0 && (in.PerceivedExert < 1 || in.PerceivedExert > 10) {
		return &ValidationError{Field: "perceived_exertion", Message: "must be between 1 and 10"}
	}
	return nil
}

// Evaluate turns a completed session into its persisted result. The plan
// supplies work and rest totals, baseline and model feed the target average,
// and the completion input supplies the measured side. Derived metrics that
// lack their inputs are left nil rather than zeroed.
func Evaluate(def models.WorkoutDefinition, plan []models.Interval, modality, unit string, in CompletionInput, baseline *models.Baseline, model *models.PerformanceModel, userID int, now time.Time) (*models.SessionResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	workSecs := TotalWorkSeconds(plan)
	restSecs := TotalRestSeconds(plan)

	var actualPace float64
	if workSecs > 0 {
		actualPace = in.TotalOutput / (float64(workSecs) / 60)
	}

	result := &models.SessionResult{
		ID:             uuid.New(),
		UserID:         userID,
		ProgramVersion: def.ProgramVersion,
		ProgramDay:     def.DayNumber,
		DayType:        def.DayType,
		Modality:       modality,
		Units:          unit,
		Date:           now,
		TotalOutput:    in.TotalOutput,
		ActualPace:     actualPace,
		PerceivedExert: in.PerceivedExert,
		TotalWorkSecs:  workSecs,
		TotalRestSecs:  restSecs,
		CreatedAt:      now,
	}

	result.TargetPace = AverageTargetPace(plan, baseline, model, unit)
	if result.TargetPace != nil && *result.TargetPace > 0 && actualPace > 0 {
		ratio := actualPace / *result.TargetPace
		result.PerformanceRatio = &ratio
	}

	if restSecs > 0 {
		wr := float64(workSecs) / float64(restSecs)
		result.WorkRestRatio = &wr
	}

	if in.AvgHeartRate > 0 {
		result.AvgHeartRate = &in.AvgHeartRate
	}
	if in.PeakHeartRate > 0 {
		result.PeakHeartRate = &in.PeakHeartRate
	}

	var baselinePace float64
	if baseline.Matches(unit) {
		baselinePace = baseline.Pace
	}
	if eff := efficiency(actualPace, baselinePace, in.AvgHeartRate); eff > 0 {
		result.Efficiency = &eff
	}
	if load := trainingLoad(actualPace, baselinePace, in.AvgHeartRate, workSecs); load > 0 {
		result.TrainingLoad = &load
	}

	return result, nil
}

// Evaluate produces the session's persisted result from its recorded
// completion input.
func (s *Session) Evaluate(baseline *models.Baseline, model *models.PerformanceModel, userID int, now time.Time) (*models.SessionResult, error) {
	modality, unit := s.Modality()
	return Evaluate(s.Definition(), s.Plan(), modality, unit, s.CompletionInput(), baseline, model, userID, now)
}

// efficiency scores output per heartbeat, normalized against the baseline
// when one exists so modalities with different output scales compare.
func efficiency(pace, baselinePace, avgHR float64) float64 {
	if pace <= 0 || avgHR <= 0 {
		return 0
	}
	if baselinePace > 0 {
		return pace / baselinePace / avgHR * 1000
	}
	return pace / avgHR * 1000
}

// trainingLoad is relative intensity times cardiovascular cost times
// duration, falling back to absolute pace without a baseline.
func trainingLoad(pace, baselinePace, avgHR float64, workSecs int) float64 {
	if pace <= 0 || avgHR <= 0 || workSecs <= 0 {
		return 0
	}
	minutes := float64(workSecs) / 60
	if baselinePace > 0 {
		return pace / baselinePace * avgHR * minutes
	}
	return pace * avgHR * minutes
}
