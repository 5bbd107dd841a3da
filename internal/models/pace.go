package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaceTargetKind discriminates the PaceTarget variant.
type PaceTargetKind int

const (
	// PaceNone means the block carries no pace prescription.
	PaceNone PaceTargetKind = iota
	// PaceRange prescribes an intensity-multiplier range applied to the baseline.
	PaceRange
	// PaceMaxEffort prescribes maximal effort with no numeric target.
	PaceMaxEffort
)

// PaceTarget is the tagged form of the catalog's pace prescription. The
// catalog stores either a two-element multiplier array, a "max_effort"
// string, or nothing; this type resolves that union at decode time so
// downstream code never string-matches.
type PaceTarget struct {
	Kind PaceTargetKind
	Lo   float64
	Hi   float64
}

// RangeTarget builds a PaceRange target.
func RangeTarget(lo, hi float64) PaceTarget {
	return PaceTarget{Kind: PaceRange, Lo: lo, Hi: hi}
}

// MaxEffortTarget builds a PaceMaxEffort target.
func MaxEffortTarget() PaceTarget {
	return PaceTarget{Kind: PaceMaxEffort}
}

// PointTarget builds a PaceRange target collapsed to a single multiplier.
func PointTarget(m float64) PaceTarget {
	return PaceTarget{Kind: PaceRange, Lo: m, Hi: m}
}

// Midpoint returns the intensity multiplier for a range target: the mean of
// its bounds. Zero for non-range targets.
func (p PaceTarget) Midpoint() float64 {
	if p.Kind != PaceRange {
		return 0
	}
	return (p.Lo + p.Hi) / 2
}

// UnmarshalJSON accepts the legacy wire union: null, a two-element numeric
// array, or a string marker (anything containing "max" means max effort).
// An unrecognized string marker degrades to no target so a single odd block
// cannot make its whole workout definition unreadable.
func (p *PaceTarget) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*p = PaceTarget{Kind: PaceNone}
		return nil
	}

	var marker string
	if err := json.Unmarshal(data, &marker); err == nil {
		if strings.Contains(strings.ToLower(marker), "max") {
			*p = PaceTarget{Kind: PaceMaxEffort}
			return nil
		}
		*p = PaceTarget{Kind: PaceNone}
		return nil
	}

	var bounds []float64
	if err := json.Unmarshal(data, &bounds); err != nil {
		return fmt.Errorf("parsing pace range: %w", err)
	}
	if len(bounds) < 2 {
		*p = PaceTarget{Kind: PaceNone}
		return nil
	}
	*p = PaceTarget{Kind: PaceRange, Lo: bounds[0], Hi: bounds[1]}
	return nil
}

// MarshalJSON writes the wire form back out: null, "max_effort", or [lo, hi].
func (p PaceTarget) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PaceMaxEffort:
		return json.Marshal("max_effort")
	case PaceRange:
		return json.Marshal([2]float64{p.Lo, p.Hi})
	}
	return []byte("null"), nil
}
