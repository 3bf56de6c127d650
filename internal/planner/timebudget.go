// internal/planner/timebudget.go
package planner

// Session time model. A set takes its average rep count at a fixed pace plus
// its rest; the whole session carries one warm-up/transition overhead.
const (
	secondsPerRep      = 4
	warmupOverheadMins = 8
)

// EstimateMinutes computes the session time estimate for a set of planned
// exercises, rounded up to whole minutes.
func EstimateMinutes(exercises []PlannedExercise) int {
	totalSec := 0
	for _, ex := range exercises {
		repMid := (ex.RepLow + ex.RepHigh) / 2
		totalSec += ex.Sets * (repMid*secondsPerRep + ex.RestSec)
	}
	mins := (totalSec + 59) / 60
	return mins + warmupOverheadMins
}

// trimToBudget removes planned exercises until the estimate fits capMin,
// cheapest-to-lose first: accessory-class work before main-class work, ties by
// highest slot priority rank, then latest insertion. Exercises occupying
// priority-1 slots are never removed; when only those remain and the estimate
// still exceeds the cap, the plan is returned as-is with overBudget set.
// The input order of the surviving exercises is preserved.
func trimToBudget(exercises []PlannedExercise, capMin int) (kept []PlannedExercise, estimate int, overBudget bool) {
	kept = exercises
	estimate = EstimateMinutes(kept)

	for estimate > capMin {
		idx := nextTrimIndex(kept)
		if idx < 0 {
			return kept, estimate, true
		}
		kept = append(kept[:idx:idx], kept[idx+1:]...)
		estimate = EstimateMinutes(kept)
	}

	return kept, estimate, false
}

// nextTrimIndex picks the single exercise to remove next, or -1 when only
// protected priority-1 work remains.
func nextTrimIndex(exercises []PlannedExercise) int {
	best := -1
	for i, ex := range exercises {
		if ex.SlotPriority == 1 {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		if trimBefore(ex, i, exercises[best], best) {
			best = i
		}
	}
	return best
}

// trimBefore reports whether candidate a (at index ai) should be removed
// before b (at index bi).
func trimBefore(a PlannedExercise, ai int, b PlannedExercise, bi int) bool {
	if a.Class != b.Class {
		return a.Class == ClassAccessory
	}
	if a.SlotPriority != b.SlotPriority {
		return a.SlotPriority > b.SlotPriority
	}
	return ai > bi
}
