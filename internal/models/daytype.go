package models

// DayType classifies a workout's training stimulus. It determines how blocks
// expand into intervals and which target formula applies.
type DayType string

const (
	DayEndurance       DayType = "endurance"
	DayThreshold       DayType = "threshold"
	DayTempo           DayType = "tempo"
	DayRecovery        DayType = "recovery"
	DayTimeTrial       DayType = "time_trial"
	DayInterval        DayType = "interval"
	DayAnaerobic       DayType = "anaerobic"
	DayMaxAerobicPower DayType = "max_aerobic_power"
	DayAtomic          DayType = "atomic"
	DayTowers          DayType = "towers"
	DayInfinity        DayType = "infinity"
	DayFlux            DayType = "flux"
	DayPolarized       DayType = "polarized"
	DayRocketRacesA    DayType = "rocket_races_a"
	DayRocketRacesB    DayType = "rocket_races_b"
)

// Continuous reports whether the day type is executed as one unbroken effort
// per block, regardless of the block's round count.
func (d DayType) Continuous() bool {
	switch d {
	case DayEndurance, DayTimeTrial, DayThreshold:
		return true
	}
	return false
}

// MaxEffortStyle reports whether sessions of this day type update the learned
// max pace even when no performance ratio is available.
func (d DayType) MaxEffortStyle() bool {
	switch d {
	case DayTimeTrial, DayAnaerobic, DayRocketRacesA, DayRocketRacesB:
		return true
	}
	return false
}

// DisplayName returns a human-readable label for the day type.
func (d DayType) DisplayName() string {
	switch d {
	case DayTimeTrial:
		return "Time Trial"
	case DayEndurance:
		return "Endurance"
	case DayThreshold:
		return "Threshold"
	case DayTempo:
		return "Tempo"
	case DayRecovery:
		return "Recovery"
	case DayAnaerobic:
		return "Anaerobic"
	case DayMaxAerobicPower:
		return "Max Aerobic Power"
	case DayInterval:
		return "Interval"
	case DayAtomic:
		return "Atomic"
	case DayTowers:
		return "Towers"
	case DayInfinity:
		return "Infinity"
	case DayFlux:
		return "Flux"
	case DayPolarized:
		return "Polarized"
	case DayRocketRacesA:
		return "Rocket Races A"
	case DayRocketRacesB:
		return "Rocket Races B"
	}
	return "Workout"
}
