package engine

import (
	"testing"
	"time"

	"github.com/claude/engine/internal/models"
)

func evalDef() models.WorkoutDefinition {
	return models.WorkoutDefinition{
		ProgramVersion: "v1",
		DayNumber:      5,
		DayType:        models.DayInterval,
		Blocks: []models.Block{
			{WorkDuration: 180, RestDuration: 60, Rounds: 3, PaceRange: models.RangeTarget(0.8, 1.0)},
		},
	}
}

func evaluateWith(t *testing.T, in CompletionInput, baseline *models.Baseline, model *models.PerformanceModel) *models.SessionResult {
	t.Helper()
	def := evalDef()
	plan := BuildPlan(def)
	result, err := Evaluate(def, plan, "bike", "calories", in, baseline, model, 1, time.Now())
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	return result
}

// TestEvaluateDerivesMetrics verifies actual pace, performance ratio, and
// work:rest ratio over a 9-minute-work plan.
func TestEvaluateDerivesMetrics(t *testing.T) {
	result := evaluateWith(t,
		CompletionInput{TotalOutput: 89.1, AvgHeartRate: 150, PeakHeartRate: 170},
		calorieBaseline(10), nil)

	if got := result.ActualPace; got < 9.8999 || got > 9.9001 {
		t.Errorf("actual pace = %v, want 9.9", got)
	}
	if result.TargetPace == nil || *result.TargetPace != 9 {
		t.Errorf("target pace = %v, want 9", result.TargetPace)
	}
	if result.PerformanceRatio == nil {
		t.Fatal("performance ratio = nil")
	}
	if got := *result.PerformanceRatio; got < 1.0999 || got > 1.1001 {
		t.Errorf("performance ratio = %v, want 1.1", got)
	}
	if result.WorkRestRatio == nil || *result.WorkRestRatio != 3 {
		t.Errorf("work:rest ratio = %v, want 3", result.WorkRestRatio)
	}
	if result.TotalWorkSecs != 540 || result.TotalRestSecs != 180 {
		t.Errorf("totals = %d/%d, want 540/180", result.TotalWorkSecs, result.TotalRestSecs)
	}
}

// TestEvaluateWithoutBaseline verifies missing-target sessions keep their
// ratio and target nil instead of zero.
func TestEvaluateWithoutBaseline(t *testing.T) {
	result := evaluateWith(t, CompletionInput{TotalOutput: 80}, nil, nil)

	if result.TargetPace != nil {
		t.Errorf("target pace = %v, want nil", *result.TargetPace)
	}
	if result.PerformanceRatio != nil {
		t.Errorf("performance ratio = %v, want nil", *result.PerformanceRatio)
	}
	if result.ActualPace == 0 {
		t.Error("actual pace = 0, want derived value")
	}
}

// TestEvaluateEfficiencyAndLoad verifies the heart-rate derived metrics
// with and without a baseline.
func TestEvaluateEfficiencyAndLoad(t *testing.T) {
	// With baseline 10: pace 9.9 gives relative intensity 0.99.
	result := evaluateWith(t,
		CompletionInput{TotalOutput: 89.1, AvgHeartRate: 150, PeakHeartRate: 170},
		calorieBaseline(10), nil)

	if result.Efficiency == nil {
		t.Fatal("efficiency = nil")
	}
	wantEff := 9.9 / 10 / 150 * 1000
	if got := *result.Efficiency; got < wantEff-1e-9 || got > wantEff+1e-9 {
		t.Errorf("efficiency = %v, want %v", got, wantEff)
	}

	if result.TrainingLoad == nil {
		t.Fatal("training load = nil")
	}
	wantLoad := 9.9 / 10 * 150 * 9
	if got := *result.TrainingLoad; got < wantLoad-1e-9 || got > wantLoad+1e-9 {
		t.Errorf("training load = %v, want %v", got, wantLoad)
	}

	// Without baseline the absolute-pace fallback applies.
	result = evaluateWith(t,
		CompletionInput{TotalOutput: 89.1, AvgHeartRate: 150}, nil, nil)
	wantEff = 9.9 / 150 * 1000
	if got := *result.Efficiency; got < wantEff-1e-9 || got > wantEff+1e-9 {
		t.Errorf("fallback efficiency = %v, want %v", got, wantEff)
	}
}

// TestEvaluateNoHeartRate verifies heart-rate metrics stay nil when not
// recorded.
func TestEvaluateNoHeartRate(t *testing.T) {
	result := evaluateWith(t, CompletionInput{TotalOutput: 80}, calorieBaseline(10), nil)
	if result.AvgHeartRate != nil || result.PeakHeartRate != nil {
		t.Error("heart rates set without input")
	}
	if result.Efficiency != nil {
		t.Errorf("efficiency = %v, want nil without heart rate", *result.Efficiency)
	}
	if result.TrainingLoad != nil {
		t.Errorf("training load = %v, want nil without heart rate", *result.TrainingLoad)
	}
}

// TestSessionEvaluate verifies the session wrapper evaluates its own
// selection and recorded completion form.
func TestSessionEvaluate(t *testing.T) {
	s := NewSession(evalDef())
	s.SelectModality("bike", "calories")
	s.SkipToEnd()
	s.SetCompletionInput(CompletionInput{TotalOutput: 89.1})

	result, err := s.Evaluate(calorieBaseline(10), nil, 1, time.Now())
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if result.Modality != "bike" || result.Units != "calories" {
		t.Errorf("selection = %s/%s, want bike/calories", result.Modality, result.Units)
	}
	if result.TargetPace == nil || *result.TargetPace != 9 {
		t.Errorf("target pace = %v, want 9", result.TargetPace)
	}
	if got := result.ActualPace; got < 9.8999 || got > 9.9001 {
		t.Errorf("actual pace = %v, want 9.9", got)
	}
}

// TestValidateCompletionInput exercises the physiological bounds.
func TestValidateCompletionInput(t *testing.T) {
	cases := []struct {
		name    string
		in      CompletionInput
		wantErr bool
	}{
		{"valid", CompletionInput{TotalOutput: 100, AvgHeartRate: 150, PeakHeartRate: 180, PerceivedExert: 7}, false},
		{"valid minimal", CompletionInput{TotalOutput: 1}, false},
		{"zero output", CompletionInput{TotalOutput: 0}, true},
		{"negative output", CompletionInput{TotalOutput: -5}, true},
		{"output over cap", CompletionInput{TotalOutput: 10001}, true},
		{"output at cap", CompletionInput{TotalOutput: 10000}, false},
		{"avg HR low", CompletionInput{TotalOutput: 100, AvgHeartRate: 39}, true},
		{"avg HR high", CompletionInput{TotalOutput: 100, AvgHeartRate: 221}, true},
		{"peak below avg", CompletionInput{TotalOutput: 100, AvgHeartRate: 160, PeakHeartRate: 150}, true},
		{"peak equals avg", CompletionInput{TotalOutput: 100, AvgHeartRate: 160, PeakHeartRate: 160}, false},
		{"rpe high", CompletionInput{TotalOutput: 100, PerceivedExert: 11}, true},
		{"rpe low", CompletionInput{TotalOutput: 100, PerceivedExert: -1}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.Validate()
			if tc.wantErr && err == nil {
				t.Error("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}
