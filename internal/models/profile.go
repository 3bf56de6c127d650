// internal/models/profile.go

// Package models holds the wire-level DTOs shared between workers. The wire
// contract is snake_case JSON; conversion to the planner's typed domain
// happens here so every worker normalizes inputs the same way.
package models

import (
	"fmt"
	"strings"

	"fitplan-workers/internal/planner"
)

// UserProfile is the profile shape carried in job variables and stored in the
// profile store.
type UserProfile struct {
	UserID            string            `json:"user_id"`
	Experience        string            `json:"experience"`
	Equipment         []string          `json:"equipment"`
	Preferences       Preferences       `json:"preferences"`
	Limitations       map[string]string `json:"limitations"`
	Goals             []string          `json:"goals"`
	DaysPerWeek       int               `json:"days_per_week"`
	SessionMinutesCap int               `json:"session_minutes_cap"`
}

// Preferences lists liked and disliked exercises or modalities by name.
type Preferences struct {
	LikedExercises     []string `json:"liked_exercises,omitempty"`
	DislikedExercises  []string `json:"disliked_exercises,omitempty"`
	LikedModalities    []string `json:"liked_modalities,omitempty"`
	DislikedModalities []string `json:"disliked_modalities,omitempty"`
}

// limitationLabels maps the human-readable limitation labels the profile
// surface uses onto the planner's contraindication tags. Raw tag names are
// also accepted.
var limitationLabels = map[string]planner.ContraindicationTag{
	"no_overhead_press":     planner.TagOverhead,
	"no_overhead":           planner.TagOverhead,
	"no_spinal_loading":     planner.TagSpinalLoad,
	"no_spinal_load":        planner.TagSpinalLoad,
	"low_impact_only":       planner.TagHighImpact,
	"no_jumping":            planner.TagHighImpact,
	"no_deep_knee_flexion":  planner.TagDeepKneeFlexion,
	"limited_knee_flexion":  planner.TagDeepKneeFlexion,
	"no_ballistic_movement": planner.TagBallistic,
	"no_explosive":          planner.TagBallistic,
}

var labelSeparators = strings.NewReplacer(" ", "_", "-", "_")

// ParseLimitationLabel converts a profile limitation label to its
// contraindication tag. Labels are normalized before lookup: lowercased,
// spaces and hyphens folded to underscores.
func ParseLimitationLabel(label string) (planner.ContraindicationTag, error) {
	norm := labelSeparators.Replace(strings.ToLower(strings.TrimSpace(label)))
	if tag, ok := limitationLabels[norm]; ok {
		return tag, nil
	}
	// Tolerate raw tag values for callers that already speak the enum. Labels
	// carry a "no_" prefix the enum does not.
	if tag := planner.ContraindicationTag(strings.TrimPrefix(norm, "no_")); tag.Valid() {
		return tag, nil
	}
	return "", fmt.Errorf("unknown limitation label %q", label)
}

// ToPlanner converts the wire profile into the planner's typed profile.
// Unknown enum values fail the conversion: a misspelled limitation that fell
// through silently could produce an unsafe plan.
func (p *UserProfile) ToPlanner() (planner.UserProfile, error) {
	out := planner.UserProfile{
		Experience:    planner.Experience(p.Experience),
		DaysPerWeek:   p.DaysPerWeek,
		SessionCapMin: p.SessionMinutesCap,
	}

	for _, raw := range p.Equipment {
		m, err := planner.ParseModality(raw)
		if err != nil {
			return planner.UserProfile{}, fmt.Errorf("equipment: %w", err)
		}
		out.Equipment = append(out.Equipment, m)
	}

	for _, raw := range p.Goals {
		g, err := planner.ParseGoal(raw)
		if err != nil {
			return planner.UserProfile{}, fmt.Errorf("goals: %w", err)
		}
		out.Goals = append(out.Goals, g)
	}

	if len(p.Limitations) > 0 {
		out.Limitations = make(map[planner.BodyRegion]planner.ContraindicationTag, len(p.Limitations))
		for region, label := range p.Limitations {
			tag, err := ParseLimitationLabel(label)
			if err != nil {
				return planner.UserProfile{}, fmt.Errorf("limitations[%s]: %w", region, err)
			}
			out.Limitations[planner.BodyRegion(region)] = tag
		}
	}

	out.Preferences.LikedExercises = p.Preferences.LikedExercises
	out.Preferences.DislikedExercises = p.Preferences.DislikedExercises
	for _, raw := range p.Preferences.LikedModalities {
		if m := planner.Modality(raw); m.Valid() {
			out.Preferences.LikedModalities = append(out.Preferences.LikedModalities, m)
		}
	}
	for _, raw := range p.Preferences.DislikedModalities {
		if m := planner.Modality(raw); m.Valid() {
			out.Preferences.DislikedModalities = append(out.Preferences.DislikedModalities, m)
		}
	}

	return out, nil
}
