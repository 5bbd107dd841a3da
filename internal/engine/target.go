package engine

import (
	"math"

	"github.com/claude/engine/internal/models"
)

// TargetSource records how an interval's target was derived.
type TargetSource string

const (
	SourceBaselineOnly    TargetSource = "baseline_only"
	SourceModelAdjusted   TargetSource = "model_adjusted"
	SourceLearnedMax      TargetSource = "learned_max"
	SourceMaxEffortNoPace TargetSource = "max_effort_no_pace"
	SourceNeedsBaseline   TargetSource = "needs_baseline"
)

// IntervalTarget is the computed goal for one interval.
type IntervalTarget struct {
	// Pace is the target pace in output units per minute. Zero when the
	// interval has no numeric target.
	Pace float64 `json:"pace,omitempty"`
	// ExpectedOutput is the rounded output the athlete should reach over the
	// interval's work duration.
	ExpectedOutput int `json:"expected_output,omitempty"`
	// MaxEffort marks intervals evaluated as all-out rather than paced.
	MaxEffort bool `json:"max_effort,omitempty"`
	// Intensity is the applied multiplier as a whole percentage of baseline.
	Intensity int          `json:"intensity,omitempty"`
	Source    TargetSource `json:"source"`
}

// HasPacedTarget reports whether the target contributes to session-level
// target averaging. Max-effort intervals never do, even when a learned max
// pace gives them an informational figure.
func (t IntervalTarget) HasPacedTarget() bool {
	return !t.MaxEffort && t.Pace > 0
}

// ComputeTarget derives the goal for a single interval from the resolved
// baseline and the rolling performance model. Baseline and model may be nil;
// unit is the output unit selected for the session. A baseline recorded in a
// different unit is never used.
func ComputeTarget(iv models.Interval, baseline *models.Baseline, model *models.PerformanceModel, unit string) IntervalTarget {
	maxEffort := iv.PaceRange.Kind == models.PaceMaxEffort || iv.Type.MaxEffortStyle()

	if maxEffort {
		// A learned max pace gives the athlete a number to chase, but the
		// interval is still evaluated as max effort.
		if model != nil && model.LearnedMaxPace > 0 {
			t := IntervalTarget{
				Pace:           model.LearnedMaxPace,
				ExpectedOutput: expectedOutput(model.LearnedMaxPace, iv.Duration),
				MaxEffort:      true,
				Source:         SourceLearnedMax,
			}
			if baseline.Matches(unit) {
				t.Intensity = int(math.Round(model.LearnedMaxPace / baseline.Pace * 100))
			}
			return t
		}
		return IntervalTarget{MaxEffort: true, Intensity: 100, Source: SourceMaxEffortNoPace}
	}

	if iv.PaceRange.Kind != models.PaceRange {
		return IntervalTarget{Source: SourceNeedsBaseline}
	}
	if !baseline.Matches(unit) {
		return IntervalTarget{Source: SourceNeedsBaseline}
	}

	multiplier := iv.PaceRange.Midpoint()
	source := SourceBaselineOnly
	if model != nil && model.RollingRatio > 0 {
		multiplier *= model.RollingRatio
		source = SourceModelAdjusted
	}

	pace := baseline.Pace * multiplier
	return IntervalTarget{
		Pace:           pace,
		ExpectedOutput: expectedOutput(pace, iv.Duration),
		Intensity:      int(math.Round(multiplier * 100)),
		Source:         source,
	}
}

func expectedOutput(pace float64, durationSecs int) int {
	return int(math.Round(pace * float64(durationSecs) / 60))
}

// AverageTargetPace computes the duration-weighted mean target pace across a
// plan. Max-effort and target-less intervals are excluded. Returns nil when
// no interval qualifies; the session average is undefined, not zero.
func AverageTargetPace(plan []models.Interval, baseline *models.Baseline, model *models.PerformanceModel, unit string) *float64 {
	var weighted, seconds float64
	for _, iv := range plan {
		t := ComputeTarget(iv, baseline, model, unit)
		if !t.HasPacedTarget() {
			continue
		}
		weighted += t.Pace * float64(iv.Duration)
		seconds += float64(iv.Duration)
	}
	if seconds == 0 {
		return nil
	}
	avg := weighted / seconds
	return &avg
}
