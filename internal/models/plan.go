// internal/models/plan.go
package models

import "fitplan-workers/internal/planner"

// PlannedExercise is the wire form of one resolved slot.
type PlannedExercise struct {
	ExerciseID   string `json:"exercise_id"`
	Name         string `json:"name"`
	SlotPattern  string `json:"slot_pattern"`
	Pattern      string `json:"pattern"`
	Modality     string `json:"modality"`
	SlotPriority int    `json:"slot_priority"`
	Class        string `json:"class"`
	Sets         int    `json:"sets"`
	RepLow       int    `json:"rep_low"`
	RepHigh      int    `json:"rep_high"`
	RestSec      int    `json:"rest_sec"`
}

// UnfilledSlot reports a template slot no eligible exercise could fill.
type UnfilledSlot struct {
	Pattern  string `json:"pattern"`
	Priority int    `json:"priority"`
}

// DayPlan is the wire form of an assembled session.
type DayPlan struct {
	TemplateID       string            `json:"template_id"`
	DayKey           string            `json:"day_key"`
	Exercises        []PlannedExercise `json:"exercises"`
	EstimatedTimeMin int               `json:"estimated_time_min"`
	OverBudget       bool              `json:"over_budget"`
	UnfilledSlots    []UnfilledSlot    `json:"unfilled_slots,omitempty"`
}

// DayPlanFromPlanner converts the planner's output into the wire DTO.
func DayPlanFromPlanner(plan planner.DayPlan) DayPlan {
	out := DayPlan{
		TemplateID:       plan.TemplateID,
		DayKey:           plan.DayKey,
		EstimatedTimeMin: plan.EstimatedTimeMin,
		OverBudget:       plan.OverBudget,
	}

	for _, ex := range plan.Exercises {
		out.Exercises = append(out.Exercises, PlannedExercise{
			ExerciseID:   ex.ExerciseID,
			Name:         ex.Name,
			SlotPattern:  string(ex.SlotPattern),
			Pattern:      string(ex.Pattern),
			Modality:     string(ex.Modality),
			SlotPriority: ex.SlotPriority,
			Class:        string(ex.Class),
			Sets:         ex.Sets,
			RepLow:       ex.RepLow,
			RepHigh:      ex.RepHigh,
			RestSec:      ex.RestSec,
		})
	}

	for _, slot := range plan.UnfilledSlots {
		out.UnfilledSlots = append(out.UnfilledSlots, UnfilledSlot{
			Pattern:  string(slot.Pattern),
			Priority: slot.Priority,
		})
	}

	return out
}
