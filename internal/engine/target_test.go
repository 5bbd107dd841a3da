package engine

import (
	"testing"

	"github.com/claude/engine/internal/models"
)

func calorieBaseline(pace float64) *models.Baseline {
	return &models.Baseline{Modality: "bike", Pace: pace, Unit: "calories"}
}

// TestComputeTargetFromBaseline verifies the flat multiplication: a 10/min
// baseline with range [0.8,1.0] targets 9/min and 27 output over 180s.
func TestComputeTargetFromBaseline(t *testing.T) {
	iv := models.Interval{
		Type:      models.DayInterval,
		Duration:  180,
		PaceRange: models.RangeTarget(0.8, 1.0),
	}

	got := ComputeTarget(iv, calorieBaseline(10), nil, "calories")
	if got.Pace != 9 {
		t.Errorf("pace = %v, want 9", got.Pace)
	}
	if got.ExpectedOutput != 27 {
		t.Errorf("expected output = %d, want 27", got.ExpectedOutput)
	}
	if got.Intensity != 90 {
		t.Errorf("intensity = %d, want 90", got.Intensity)
	}
	if got.Source != SourceBaselineOnly {
		t.Errorf("source = %q, want %q", got.Source, SourceBaselineOnly)
	}
	if !got.HasPacedTarget() {
		t.Error("HasPacedTarget() = false, want true")
	}
}

// TestComputeTargetModelAdjusted verifies the rolling ratio scales the
// target multiplicatively.
func TestComputeTargetModelAdjusted(t *testing.T) {
	iv := models.Interval{
		Type:      models.DayInterval,
		Duration:  60,
		PaceRange: models.RangeTarget(0.8, 1.0),
	}
	model := &models.PerformanceModel{RollingRatio: 1.1}

	got := ComputeTarget(iv, calorieBaseline(10), model, "calories")
	want := 10 * 0.9 * 1.1
	if got.Pace != want {
		t.Errorf("pace = %v, want %v", got.Pace, want)
	}
	if got.Source != SourceModelAdjusted {
		t.Errorf("source = %q, want %q", got.Source, SourceModelAdjusted)
	}
}

// TestComputeTargetNeedsBaseline verifies missing, zero, and unit-mismatched
// baselines all yield a needs-baseline target instead of a bogus number.
func TestComputeTargetNeedsBaseline(t *testing.T) {
	iv := models.Interval{
		Type:      models.DayInterval,
		Duration:  60,
		PaceRange: models.RangeTarget(0.8, 1.0),
	}

	cases := []struct {
		name     string
		baseline *models.Baseline
	}{
		{"nil baseline", nil},
		{"zero pace", calorieBaseline(0)},
		{"unit mismatch", &models.Baseline{Modality: "bike", Pace: 10, Unit: "meters"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTarget(iv, tc.baseline, nil, "calories")
			if got.Source != SourceNeedsBaseline {
				t.Errorf("source = %q, want %q", got.Source, SourceNeedsBaseline)
			}
			if got.HasPacedTarget() {
				t.Error("HasPacedTarget() = true, want false")
			}
		})
	}
}

// TestComputeTargetMaxEffort verifies max-effort intervals get no numeric
// target without a learned max, and an informational one with it.
func TestComputeTargetMaxEffort(t *testing.T) {
	iv := models.Interval{
		Type:      models.DayAnaerobic,
		Duration:  60,
		PaceRange: models.MaxEffortTarget(),
	}

	got := ComputeTarget(iv, calorieBaseline(10), nil, "calories")
	if !got.MaxEffort {
		t.Error("MaxEffort = false, want true")
	}
	if got.Source != SourceMaxEffortNoPace {
		t.Errorf("source = %q, want %q", got.Source, SourceMaxEffortNoPace)
	}

	model := &models.PerformanceModel{LearnedMaxPace: 14}
	got = ComputeTarget(iv, calorieBaseline(10), model, "calories")
	if got.Pace != 14 {
		t.Errorf("pace = %v, want 14 (learned max)", got.Pace)
	}
	if got.Source != SourceLearnedMax {
		t.Errorf("source = %q, want %q", got.Source, SourceLearnedMax)
	}
	// Informational only: still excluded from averaging.
	if got.HasPacedTarget() {
		t.Error("HasPacedTarget() = true, want false for max effort")
	}
}

// TestComputeTargetMaxEffortDayType verifies a max-effort day type forces
// max-effort evaluation even when the block carries a numeric range.
func TestComputeTargetMaxEffortDayType(t *testing.T) {
	iv := models.Interval{
		Type:      models.DayRocketRacesA,
		Duration:  60,
		PaceRange: models.RangeTarget(0.9, 1.1),
	}
	got := ComputeTarget(iv, calorieBaseline(10), nil, "calories")
	if !got.MaxEffort {
		t.Error("MaxEffort = false, want true for rocket races")
	}
}

// TestAverageTargetPace verifies duration weighting: 180s at 9/min and
// 360s at 9.5/min average to about 9.33/min.
func TestAverageTargetPace(t *testing.T) {
	plan := []models.Interval{
		{Type: models.DayInterval, Duration: 180, PaceRange: models.RangeTarget(0.8, 1.0)},
		{Type: models.DayInterval, Duration: 360, PaceRange: models.RangeTarget(0.9, 1.0)},
	}

	got := AverageTargetPace(plan, calorieBaseline(10), nil, "calories")
	if got == nil {
		t.Fatal("average = nil, want value")
	}
	want := (9.0*180 + 9.5*360) / 540
	if *got < want-1e-9 || *got > want+1e-9 {
		t.Errorf("average = %v, want %v", *got, want)
	}
}

// TestAverageTargetPaceExcludesMaxEffort verifies max-effort intervals are
// excluded from the weighted average, and an all-max plan has no average.
func TestAverageTargetPaceExcludesMaxEffort(t *testing.T) {
	plan := []models.Interval{
		{Type: models.DayInterval, Duration: 120, PaceRange: models.RangeTarget(0.8, 1.0)},
		{Type: models.DayInterval, Duration: 600, PaceRange: models.MaxEffortTarget()},
	}
	got := AverageTargetPace(plan, calorieBaseline(10), nil, "calories")
	if got == nil || *got != 9 {
		t.Errorf("average = %v, want 9 (max-effort interval excluded)", got)
	}

	allMax := []models.Interval{
		{Type: models.DayAnaerobic, Duration: 60, PaceRange: models.MaxEffortTarget()},
	}
	if got := AverageTargetPace(allMax, calorieBaseline(10), nil, "calories"); got != nil {
		t.Errorf("average = %v, want nil for an all-max-effort plan", *got)
	}
}
