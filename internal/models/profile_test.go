// internal/models/profile_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitplan-workers/internal/planner"
)

// ==========================
// Limitation Label Tests
// ==========================

func TestParseLimitationLabel(t *testing.T) {
	tests := []struct {
		label string
		want  planner.ContraindicationTag
	}{
		{"no_overhead_press", planner.TagOverhead},
		{"No_Overhead_Press", planner.TagOverhead},
		{"no overhead press", planner.TagOverhead},
		{"no-overhead-press", planner.TagOverhead},
		{" no_overhead ", planner.TagOverhead},
		{"no_spinal_loading", planner.TagSpinalLoad},
		{"Low_Impact_Only", planner.TagHighImpact},
		{"limited knee flexion", planner.TagDeepKneeFlexion},
		{"no_explosive", planner.TagBallistic},
		// Raw enum values pass through, with or without the label prefix.
		{"spinal_load", planner.TagSpinalLoad},
		{"no_high_impact", planner.TagHighImpact},
		{"Deep-Knee-Flexion", planner.TagDeepKneeFlexion},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			tag, err := ParseLimitationLabel(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tag)
		})
	}
}

func TestParseLimitationLabel_Unknown(t *testing.T) {
	for _, label := range []string{"", "kind_of_sore", "no_fun"} {
		t.Run(label, func(t *testing.T) {
			_, err := ParseLimitationLabel(label)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unknown limitation label")
		})
	}
}

func TestUserProfile_ToPlanner_NormalizesLimitations(t *testing.T) {
	profile := &UserProfile{
		UserID:      "user-1",
		Experience:  "beginner",
		Equipment:   []string{"dumbbell"},
		Goals:       []string{"general_fitness"},
		DaysPerWeek: 3,
		Limitations: map[string]string{
			"shoulder": "No Overhead Press",
			"knee":     "limited-knee-flexion",
		},
		SessionMinutesCap: 45,
	}

	out, err := profile.ToPlanner()
	require.NoError(t, err)
	assert.Equal(t, planner.TagOverhead, out.Limitations[planner.BodyRegion("shoulder")])
	assert.Equal(t, planner.TagDeepKneeFlexion, out.Limitations[planner.BodyRegion("knee")])
}
