// internal/workers/plan/calculate-working-loads/models.go
package calculateworkingloads

import "fitplan-workers/internal/models"

// RepMax is one recorded best set for an exercise.
type RepMax struct {
	WeightKg float64 `json:"weight_kg"`
	Reps     int     `json:"reps"`
}

type Input struct {
	Goal     string             `json:"goal"`
	Plan     *models.DayPlan    `json:"plan"`
	RepMaxes map[string]RepMax  `json:"rep_maxes"`
}

// WorkingLoad is the suggested load for one planned exercise. Exercises
// without a recorded max still appear, flagged as having no suggestion.
type WorkingLoad struct {
	ExerciseID      string  `json:"exercise_id"`
	HasSuggestion   bool    `json:"has_suggestion"`
	Estimated1RMKg  float64 `json:"estimated_1rm_kg,omitempty"`
	WorkingWeightKg float64 `json:"working_weight_kg,omitempty"`
}

type Output struct {
	Loads []WorkingLoad `json:"loads"`
}
