// Package analytics computes read-side summaries over persisted session
// results. Every function is pure: the same history always yields the same
// report, and nothing here writes back.
package analytics

import (
	"math"
	"sort"

	"github.com/claude/engine/internal/models"
)

// Filter narrows a session history for a report. Zero values mean "all".
type Filter struct {
	DayType  models.DayType
	Modality string
}

// Apply returns the sessions matching the filter, preserving order. Time
// trials are benchmark efforts, not training sessions, so they are excluded
// from cross-day-type views unless the filter asks for them directly.
func (f Filter) Apply(sessions []models.SessionResult) []models.SessionResult {
	var out []models.SessionResult
	for _, s := range sessions {
		if f.DayType != "" && s.DayType != f.DayType {
			continue
		}
		if f.DayType == "" && s.DayType == models.DayTimeTrial {
			continue
		}
		if f.Modality != "" && s.Modality != f.Modality {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Consistency is the pace variability of a filtered history. CV is the
// population coefficient of variation as a percentage; it is undefined
// below two samples.
type Consistency struct {
	Samples  int      `json:"samples"`
	MeanPace float64  `json:"mean_pace"`
	StdDev   float64  `json:"std_dev"`
	CV       *float64 `json:"cv"`
}

// PaceConsistency measures how repeatable the athlete's pacing is across
// sessions with a recorded pace.
func PaceConsistency(sessions []models.SessionResult) Consistency {
	var paces []float64
	for _, s := range sessions {
		if p := s.Pace(); p > 0 {
			paces = append(paces, p)
		}
	}

	c := Consistency{Samples: len(paces)}
	if len(paces) == 0 {
		return c
	}

	var sum float64
	for _, p := range paces {
		sum += p
	}
	c.MeanPace = sum / float64(len(paces))

	if len(paces) < 2 {
		return c
	}

	var sq float64
	for _, p := range paces {
		d := p - c.MeanPace
		sq += d * d
	}
	c.StdDev = math.Sqrt(sq / float64(len(paces)))
	if c.MeanPace > 0 {
		cv := c.StdDev / c.MeanPace * 100
		c.CV = &cv
	}
	return c
}

// Work-to-rest structure bands. Sessions without a work:rest ratio
// (continuous efforts with no rest) fall outside every band.
const (
	BandRestDominant = "1:2+"
	BandBalanced     = "1:1"
	BandWorkLeaning  = "1.5:1"
	BandWorkDominant = "2:1+"
)

// bandOrder fixes report ordering from most rest to most work.
var bandOrder = []string{BandRestDominant, BandBalanced, BandWorkLeaning, BandWorkDominant}

// BandSummary aggregates the sessions falling into one work:rest band.
type BandSummary struct {
	Band       string  `json:"band"`
	Sessions   int     `json:"sessions"`
	MeanPace   float64 `json:"mean_pace"`
	MeanOutput float64 `json:"mean_output"`
}

func bandFor(ratio float64) string {
	switch {
	case ratio < 0.8:
		return BandRestDominant
	case ratio < 1.2:
		return BandBalanced
	case ratio < 1.8:
		return BandWorkLeaning
	default:
		return BandWorkDominant
	}
}

// WorkRestBands buckets sessions by their work:rest ratio and summarizes
// each band. Bands with no sessions are omitted.
func WorkRestBands(sessions []models.SessionResult) []BandSummary {
	type acc struct {
		n      int
		pace   float64
		output float64
	}
	byBand := make(map[string]*acc)
	for _, s := range sessions {
		if s.WorkRestRatio == nil {
			continue
		}
		band := bandFor(*s.WorkRestRatio)
		a := byBand[band]
		if a == nil {
			a = &acc{}
			byBand[band] = a
		}
		a.n++
		a.pace += s.Pace()
		a.output += s.TotalOutput
	}

	var out []BandSummary
	for _, band := range bandOrder {
		a := byBand[band]
		if a == nil {
			continue
		}
		out = append(out, BandSummary{
			Band:       band,
			Sessions:   a.n,
			MeanPace:   a.pace / float64(a.n),
			MeanOutput: a.output / float64(a.n),
		})
	}
	return out
}

// Record is the best total output achieved for one day type.
type Record struct {
	DayType models.DayType       `json:"day_type"`
	Session models.SessionResult `json:"session"`
}

// PersonalRecords returns the highest-output session per day type. Ties go
// to the earlier session; a record must be beaten, not matched, to change.
func PersonalRecords(sessions []models.SessionResult) []Record {
	best := make(map[models.DayType]models.SessionResult)
	for _, s := range sessions {
		cur, ok := best[s.DayType]
		if !ok || s.TotalOutput > cur.TotalOutput {
			best[s.DayType] = s
		}
	}

	out := make([]Record, 0, len(best))
	for dt, s := range best {
		out = append(out, Record{DayType: dt, Session: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayType < out[j].DayType })
	return out
}

// TargetHitRate is the share of target-bearing sessions that met or beat
// their target pace. Nil when no session carries a performance ratio.
func TargetHitRate(sessions []models.SessionResult) *float64 {
	var hits, total int
	for _, s := range sessions {
		if s.PerformanceRatio == nil {
			continue
		}
		total++
		if *s.PerformanceRatio >= 1.0 {
			hits++
		}
	}
	if total == 0 {
		return nil
	}
	rate := float64(hits) / float64(total)
	return &rate
}

// HeartRateSummary aggregates sessions that recorded heart rate data.
type HeartRateSummary struct {
	Sessions int     `json:"sessions"`
	MeanAvg  float64 `json:"mean_average"`
	MaxPeak  float64 `json:"max_peak"`
}

// HeartRates summarizes recorded heart rate data, skipping sessions
// without it.
func HeartRates(sessions []models.SessionResult) HeartRateSummary {
	var sum HeartRateSummary
	var avgTotal float64
	for _, s := range sessions {
		if s.AvgHeartRate == nil {
			continue
		}
		sum.Sessions++
		avgTotal += *s.AvgHeartRate
		if s.PeakHeartRate != nil && *s.PeakHeartRate > sum.MaxPeak {
			sum.MaxPeak = *s.PeakHeartRate
		}
	}
	if sum.Sessions > 0 {
		sum.MeanAvg = avgTotal / float64(sum.Sessions)
	}
	return sum
}

// EffortSummary aggregates the derived effort metrics for one day type.
// Only sessions that carry the metric contribute to its mean.
type EffortSummary struct {
	DayType          models.DayType `json:"day_type"`
	Sessions         int            `json:"sessions"`
	MeanEfficiency   *float64       `json:"mean_efficiency"`
	MeanTrainingLoad *float64       `json:"mean_training_load"`
}

// EffortByDayType summarizes efficiency and training load per day type,
// ordered by day type name.
func EffortByDayType(sessions []models.SessionResult) []EffortSummary {
	type acc struct {
		n     int
		effN  int
		eff   float64
		loadN int
		load  float64
	}
	byType := make(map[models.DayType]*acc)
	for _, s := range sessions {
		a := byType[s.DayType]
		if a == nil {
			a = &acc{}
			byType[s.DayType] = a
		}
		a.n++
		if s.Efficiency != nil {
			a.effN++
			a.eff += *s.Efficiency
		}
		if s.TrainingLoad != nil {
			a.loadN++
			a.load += *s.TrainingLoad
		}
	}

	out := make([]EffortSummary, 0, len(byType))
	for dt, a := range byType {
		sum := EffortSummary{DayType: dt, Sessions: a.n}
		if a.effN > 0 {
			mean := a.eff / float64(a.effN)
			sum.MeanEfficiency = &mean
		}
		if a.loadN > 0 {
			mean := a.load / float64(a.loadN)
			sum.MeanTrainingLoad = &mean
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DayType < out[j].DayType })
	return out
}

// ModalityCounts tallies sessions per equipment modality.
func ModalityCounts(sessions []models.SessionResult) map[string]int {
	counts := make(map[string]int)
	for _, s := range sessions {
		counts[s.Modality]++
	}
	return counts
}

// Report is the full analytics payload for a filtered history.
type Report struct {
	Sessions       int              `json:"sessions"`
	Consistency    Consistency      `json:"consistency"`
	WorkRestBands  []BandSummary    `json:"work_rest_bands"`
	Records        []Record         `json:"records"`
	TargetHitRate  *float64         `json:"target_hit_rate"`
	HeartRates     HeartRateSummary `json:"heart_rates"`
	EffortByType   []EffortSummary  `json:"effort_by_day_type"`
	ModalityCounts map[string]int   `json:"modality_counts"`
}

// Build assembles the full report for a history under a filter.
func Build(sessions []models.SessionResult, f Filter) Report {
	filtered := f.Apply(sessions)
	return Report{
		Sessions:       len(filtered),
		Consistency:    PaceConsistency(filtered),
		WorkRestBands:  WorkRestBands(filtered),
		Records:        PersonalRecords(filtered),
		TargetHitRate:  TargetHitRate(filtered),
		HeartRates:     HeartRates(filtered),
		EffortByType:   EffortByDayType(filtered),
		ModalityCounts: ModalityCounts(filtered),
	}
}
