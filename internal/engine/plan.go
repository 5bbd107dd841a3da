package engine

import "github.com/claude/engine/internal/models"

// defaultFallbackSeconds is the duration of the single fallback interval
// produced when a workout definition has no usable blocks and no total
// prescribed duration.
const defaultFallbackSeconds = 1200

// BuildPlan expands a workout definition into the ordered, flat list of
// intervals to execute. Block order is preserved; rounds ascend within a
// block. The result is never empty: a definition with no usable blocks
// yields one interval covering the prescribed total duration.
func BuildPlan(def models.WorkoutDefinition) []models.Interval {
	var plan []models.Interval
	id := 1

	for i, block := range def.Blocks {
		if !block.Usable() {
			continue
		}
		blockNumber := i + 1

		if def.DayType.Continuous() {
			// Continuous day types run each block as one unbroken effort.
			plan = append(plan, models.Interval{
				ID:          id,
				Type:        def.DayType,
				Duration:    block.WorkDuration,
				BlockNumber: blockNumber,
				RoundNumber: 1,
				PaceRange:   block.PaceRange,
			})
			id++
			continue
		}

		rounds := block.Rounds
		if rounds < 1 {
			rounds = 1
		}
		for r := 0; r < rounds; r++ {
			work := block.WorkDuration + block.WorkIncrement*r
			rest := block.RestDuration - block.RestIncrement*r
			if rest < 0 {
				rest = 0
			}
			plan = append(plan, models.Interval{
				ID:           id,
				Type:         def.DayType,
				Duration:     work,
				RestDuration: rest,
				BlockNumber:  blockNumber,
				RoundNumber:  r + 1,
				PaceRange:    roundPace(block, r, rounds),
			})
			id++
		}
	}

	if len(plan) == 0 {
		total := def.TotalSeconds
		if total <= 0 {
			total = defaultFallbackSeconds
		}
		plan = append(plan, models.Interval{
			ID:          1,
			Type:        def.DayType,
			Duration:    total,
			BlockNumber: 1,
			RoundNumber: 1,
		})
	}

	return plan
}

// roundPace resolves the pace prescription for one round of a block. An
// "increasing" progression walks a point multiplier from the range's low
// bound to its high bound across the rounds.
func roundPace(block models.Block, round, rounds int) models.PaceTarget {
	p := block.PaceRange
	if block.PaceProgression != "increasing" || p.Kind != models.PaceRange || rounds < 2 {
		return p
	}
	progress := float64(round) / float64(rounds-1)
	return models.PointTarget(p.Lo + (p.Hi-p.Lo)*progress)
}

// TotalWorkSeconds sums the work durations of a plan.
func TotalWorkSeconds(plan []models.Interval) int {
	total := 0
	for _, iv := range plan {
		total += iv.Duration
	}
	return total
}

// TotalRestSeconds sums the rest durations of a plan.
func TotalRestSeconds(plan []models.Interval) int {
	total := 0
	for _, iv := range plan {
		total += iv.RestDuration
	}
	return total
}
