package analytics

import (
	"math"
	"testing"

	"github.com/claude/engine/internal/models"
)

func fptr(v float64) *float64 { return &v }

func session(dayType models.DayType, pace, output float64) models.SessionResult {
	return models.SessionResult{
		DayType:     dayType,
		Modality:    "bike",
		ActualPace:  pace,
		TotalOutput: output,
	}
}

// TestFilterExcludesTimeTrials verifies time trials stay out of cross-day
// views but appear when asked for directly.
func TestFilterExcludesTimeTrials(t *testing.T) {
	history := []models.SessionResult{
		session(models.DayInterval, 9, 80),
		session(models.DayTimeTrial, 12, 120),
		session(models.DayEndurance, 7, 200),
	}

	all := Filter{}.Apply(history)
	if len(all) != 2 {
		t.Errorf("unfiltered sessions = %d, want 2 (trial excluded)", len(all))
	}
	for _, s := range all {
		if s.DayType == models.DayTimeTrial {
			t.Error("time trial leaked into cross-day view")
		}
	}

	trials := Filter{DayType: models.DayTimeTrial}.Apply(history)
	if len(trials) != 1 {
		t.Errorf("trial sessions = %d, want 1", len(trials))
	}
}

// TestPaceConsistency verifies the population CV over a known sample.
func TestPaceConsistency(t *testing.T) {
	sessions := []models.SessionResult{
		session(models.DayInterval, 8, 0),
		session(models.DayInterval, 10, 0),
		session(models.DayInterval, 12, 0),
	}

	c := PaceConsistency(sessions)
	if c.Samples != 3 {
		t.Fatalf("samples = %d, want 3", c.Samples)
	}
	if c.MeanPace != 10 {
		t.Errorf("mean = %v, want 10", c.MeanPace)
	}
	wantStd := math.Sqrt(8.0 / 3.0)
	if math.Abs(c.StdDev-wantStd) > 1e-9 {
		t.Errorf("stddev = %v, want %v", c.StdDev, wantStd)
	}
	if c.CV == nil {
		t.Fatal("cv = nil, want value")
	}
	if math.Abs(*c.CV-wantStd*10) > 1e-9 {
		t.Errorf("cv = %v, want %v", *c.CV, wantStd*10)
	}
}

// TestPaceConsistencyUndefined verifies CV stays undefined below two
// samples rather than reporting a misleading zero.
func TestPaceConsistencyUndefined(t *testing.T) {
	if c := PaceConsistency(nil); c.CV != nil {
		t.Errorf("cv with no sessions = %v, want nil", *c.CV)
	}
	one := []models.SessionResult{session(models.DayInterval, 9, 0)}
	c := PaceConsistency(one)
	if c.CV != nil {
		t.Errorf("cv with one session = %v, want nil", *c.CV)
	}
	if c.MeanPace != 9 {
		t.Errorf("mean with one session = %v, want 9", c.MeanPace)
	}
}

// TestWorkRestBands verifies band boundaries and per-band aggregation.
func TestWorkRestBands(t *testing.T) {
	mk := func(ratio, pace, output float64) models.SessionResult {
		s := session(models.DayInterval, pace, output)
		s.WorkRestRatio = fptr(ratio)
		return s
	}
	sessions := []models.SessionResult{
		mk(0.5, 8, 60),   // 1:2+
		mk(0.79, 9, 70),  // 1:2+
		mk(0.8, 10, 80),  // 1:1 (lower bound inclusive)
		mk(1.19, 10, 90), // 1:1
		mk(1.5, 11, 100), // 1.5:1
		mk(3.0, 12, 120), // 2:1+
		session(models.DayEndurance, 7, 200), // no ratio, no band
	}

	bands := WorkRestBands(sessions)
	if len(bands) != 4 {
		t.Fatalf("bands = %d, want 4", len(bands))
	}

	want := []struct {
		band     string
		sessions int
		pace     float64
	}{
		{BandRestDominant, 2, 8.5},
		{BandBalanced, 2, 10},
		{BandWorkLeaning, 1, 11},
		{BandWorkDominant, 1, 12},
	}
	for i, w := range want {
		if bands[i].Band != w.band {
			t.Errorf("band %d = %q, want %q", i, bands[i].Band, w.band)
		}
		if bands[i].Sessions != w.sessions {
			t.Errorf("band %q sessions = %d, want %d", w.band, bands[i].Sessions, w.sessions)
		}
		if bands[i].MeanPace != w.pace {
			t.Errorf("band %q mean pace = %v, want %v", w.band, bands[i].MeanPace, w.pace)
		}
	}
}

// TestPersonalRecords verifies per-day-type records and first-wins ties.
func TestPersonalRecords(t *testing.T) {
	first := session(models.DayInterval, 9, 100)
	first.Modality = "row"
	sessions := []models.SessionResult{
		first,
		session(models.DayInterval, 10, 100), // ties, must not displace
		session(models.DayInterval, 8, 90),
		session(models.DayEndurance, 7, 250),
	}

	records := PersonalRecords(sessions)
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	byType := make(map[models.DayType]models.SessionResult)
	for _, r := range records {
		byType[r.DayType] = r.Session
	}
	if got := byType[models.DayInterval]; got.Modality != "row" {
		t.Errorf("interval record modality = %q, want %q (tie keeps first)", got.Modality, "row")
	}
	if got := byType[models.DayEndurance]; got.TotalOutput != 250 {
		t.Errorf("endurance record output = %v, want 250", got.TotalOutput)
	}
}

// TestTargetHitRate verifies the hit share counts only target-bearing
// sessions and is nil without any.
func TestTargetHitRate(t *testing.T) {
	mk := func(ratio float64) models.SessionResult {
		s := session(models.DayInterval, 9, 80)
		s.PerformanceRatio = fptr(ratio)
		return s
	}
	sessions := []models.SessionResult{
		mk(1.1), mk(0.95), mk(1.0),
		session(models.DayInterval, 9, 80), // no ratio, excluded
	}

	rate := TargetHitRate(sessions)
	if rate == nil {
		t.Fatal("rate = nil, want value")
	}
	want := 2.0 / 3.0
	if math.Abs(*rate-want) > 1e-9 {
		t.Errorf("rate = %v, want %v", *rate, want)
	}

	if r := TargetHitRate([]models.SessionResult{session(models.DayInterval, 9, 80)}); r != nil {
		t.Errorf("rate without ratios = %v, want nil", *r)
	}
}

// TestHeartRates verifies aggregation skips sessions without data.
func TestHeartRates(t *testing.T) {
	withHR := session(models.DayInterval, 9, 80)
	withHR.AvgHeartRate = fptr(150)
	withHR.PeakHeartRate = fptr(175)
	withHR2 := session(models.DayInterval, 10, 90)
	withHR2.AvgHeartRate = fptr(160)
	sessions := []models.SessionResult{
		withHR, withHR2,
		session(models.DayInterval, 8, 70),
	}

	hr := HeartRates(sessions)
	if hr.Sessions != 2 {
		t.Errorf("sessions = %d, want 2", hr.Sessions)
	}
	if hr.MeanAvg != 155 {
		t.Errorf("mean avg = %v, want 155", hr.MeanAvg)
	}
	if hr.MaxPeak != 175 {
		t.Errorf("max peak = %v, want 175", hr.MaxPeak)
	}
}

// TestEffortByDayType verifies per-day-type effort means skip sessions
// without the metric rather than dragging the mean toward zero.
func TestEffortByDayType(t *testing.T) {
	withEff := session(models.DayInterval, 9, 80)
	withEff.Efficiency = fptr(0.4)
	withEff.TrainingLoad = fptr(900)
	withEff2 := session(models.DayInterval, 10, 90)
	withEff2.Efficiency = fptr(0.6)
	sessions := []models.SessionResult{
		withEff, withEff2,
		session(models.DayInterval, 8, 70), // no metrics
		session(models.DayEndurance, 7, 200),
	}

	effort := EffortByDayType(sessions)
	if len(effort) != 2 {
		t.Fatalf("day types = %d, want 2", len(effort))
	}

	// Sorted by day type name: endurance before interval.
	endurance, interval := effort[0], effort[1]
	if endurance.DayType != models.DayEndurance || interval.DayType != models.DayInterval {
		t.Fatalf("order = %s, %s, want endurance, interval", endurance.DayType, interval.DayType)
	}
	if interval.Sessions != 3 {
		t.Errorf("interval sessions = %d, want 3", interval.Sessions)
	}
	if interval.MeanEfficiency == nil || *interval.MeanEfficiency != 0.5 {
		t.Errorf("interval mean efficiency = %v, want 0.5", interval.MeanEfficiency)
	}
	if interval.MeanTrainingLoad == nil || *interval.MeanTrainingLoad != 900 {
		t.Errorf("interval mean training load = %v, want 900", interval.MeanTrainingLoad)
	}
	if endurance.MeanEfficiency != nil {
		t.Errorf("endurance mean efficiency = %v, want nil", *endurance.MeanEfficiency)
	}
}

// TestModalityCounts verifies the per-modality tally.
func TestModalityCounts(t *testing.T) {
	rowSession := session(models.DayInterval, 9, 80)
	rowSession.Modality = "row"
	sessions := []models.SessionResult{
		session(models.DayInterval, 9, 80),
		session(models.DayEndurance, 7, 200),
		rowSession,
	}

	counts := ModalityCounts(sessions)
	if counts["bike"] != 2 {
		t.Errorf("bike count = %d, want 2", counts["bike"])
	}
	if counts["row"] != 1 {
		t.Errorf("row count = %d, want 1", counts["row"])
	}
}

// TestBuildIdempotent verifies the same history always yields the same
// report.
func TestBuildIdempotent(t *testing.T) {
	mk := func(ratio float64) models.SessionResult {
		s := session(models.DayInterval, 9, 80)
		s.PerformanceRatio = fptr(ratio)
		s.WorkRestRatio = fptr(1.0)
		return s
	}
	history := []models.SessionResult{mk(1.1), mk(0.9), session(models.DayEndurance, 7, 200)}

	a := Build(history, Filter{})
	b := Build(history, Filter{})

	if a.Sessions != b.Sessions {
		t.Errorf("sessions differ: %d vs %d", a.Sessions, b.Sessions)
	}
	if (a.Consistency.CV == nil) != (b.Consistency.CV == nil) {
		t.Error("cv presence differs between runs")
	} else if a.Consistency.CV != nil && *a.Consistency.CV != *b.Consistency.CV {
		t.Errorf("cv differs: %v vs %v", *a.Consistency.CV, *b.Consistency.CV)
	}
	if len(a.Records) != len(b.Records) {
		t.Errorf("records differ: %d vs %d", len(a.Records), len(b.Records))
	}
	if len(a.WorkRestBands) != len(b.WorkRestBands) {
		t.Errorf("bands differ: %d vs %d", len(a.WorkRestBands), len(b.WorkRestBands))
	}
}
