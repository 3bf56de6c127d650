// internal/workers/plan/build-day-plan/handler_test.go
package builddayplan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fitplan-workers/internal/common/errors"
	"fitplan-workers/internal/common/logger"
	"fitplan-workers/internal/models"
	"fitplan-workers/internal/planner"
)

// ==========================
// Test Helper Functions
// ==========================

func newTestBuilder(t *testing.T) *planner.Builder {
	t.Helper()

	catalog, err := planner.NewCatalog([]planner.Exercise{
		{
			ID: "back-squat", Name: "Barbell Back Squat",
			Pattern: planner.PatternSquat, Modality: planner.ModalityBarbell,
			Contraindications: []planner.ContraindicationTag{planner.TagSpinalLoad},
			Base:              planner.Prescription{Sets: 4, RepLow: 5, RepHigh: 8, RestSec: 150},
			Class:             planner.ClassMain, Skill: planner.SkillModerate,
		},
		{
			ID: "goblet-squat", Name: "Goblet Squat",
			Pattern: planner.PatternSquat, Modality: planner.ModalityDumbbell,
			Base:  planner.Prescription{Sets: 3, RepLow: 8, RepHigh: 12, RestSec: 90},
			Class: planner.ClassAccessory, Skill: planner.SkillLow,
		},
		{
			ID: "overhead-press", Name: "Barbell Overhead Press",
			Pattern: planner.PatternVerticalPress, Modality: planner.ModalityBarbell,
			Contraindications: []planner.ContraindicationTag{planner.TagOverhead},
			Base:              planner.Prescription{Sets: 3, RepLow: 5, RepHigh: 8, RestSec: 120},
			Class:             planner.ClassMain, Skill: planner.SkillModerate,
		},
		{
			ID: "hanging-knee-raise", Name: "Hanging Knee Raise",
			Pattern: planner.PatternCore, Modality: planner.ModalityBodyweight,
			Base:  planner.Prescription{Sets: 3, RepLow: 8, RepHigh: 12, RestSec: 60},
			Class: planner.ClassAccessory, Skill: planner.SkillLow,
		},
	})
	require.NoError(t, err)

	registry, err := planner.NewTemplateRegistry([]planner.Template{
		{
			ID: "full_body_3day", DayKey: "day_a", Name: "Full Body A",
			Slots: []planner.Slot{
				{Pattern: planner.PatternSquat, Priority: 1},
				{Pattern: planner.PatternVerticalPress, Priority: 2},
				{Pattern: planner.PatternCore, Priority: 3, Substitutable: true},
			},
		},
	})
	require.NoError(t, err)

	return planner.NewBuilder(catalog, registry)
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(LoadConfig(), newTestBuilder(t), logger.NewNoOpLogger())
}

func validInput() *Input {
	return &Input{
		UserProfile: &models.UserProfile{
			UserID:            "user-1",
			Experience:        "intermediate",
			Equipment:         []string{"barbell", "dumbbell", "bodyweight"},
			Goals:             []string{"strength"},
			DaysPerWeek:       3,
			SessionMinutesCap: 60,
		},
		TemplateID: "full_body_3day",
		DayKey:     "day_a",
	}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_BuildsPlan(t *testing.T) {
	handler := newTestHandler(t)

	output, err := handler.Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, 3, output.SlotsTotal)
	assert.Equal(t, 3, output.SlotsFilled)
	assert.Equal(t, "full_body_3day", output.Plan.TemplateID)
	assert.Equal(t, "day_a", output.Plan.DayKey)
	require.Len(t, output.Plan.Exercises, 3)
	assert.Equal(t, "back-squat", output.Plan.Exercises[0].ExerciseID)
	assert.Greater(t, output.Plan.EstimatedTimeMin, 0)
	assert.False(t, output.Plan.OverBudget)
}

func TestHandler_Execute_NormalizesLimitationLabels(t *testing.T) {
	handler := newTestHandler(t)

	input := validInput()
	input.UserProfile.Limitations = map[string]string{"shoulder": "no_overhead_press"}

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	// The overhead-press slot is unfillable and reported, not an error.
	assert.Equal(t, 3, output.SlotsTotal)
	assert.Equal(t, 2, output.SlotsFilled)
	for _, ex := range output.Plan.Exercises {
		assert.NotEqual(t, "overhead-press", ex.ExerciseID)
	}
	require.Len(t, output.Plan.UnfilledSlots, 1)
	assert.Equal(t, "vertical_press", output.Plan.UnfilledSlots[0].Pattern)
}

func TestHandler_Execute_ExplicitCapOverridesProfileCap(t *testing.T) {
	handler := newTestHandler(t)

	input := validInput()
	input.UserProfile.SessionMinutesCap = 60
	input.TimeCapMin = 20

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.LessOrEqual(t, output.Plan.EstimatedTimeMin, 20)
}

func TestHandler_Execute_SlotsTotalSurvivesTrimming(t *testing.T) {
	handler := newTestHandler(t)

	input := validInput()
	input.TimeCapMin = 20

	output, err := handler.Execute(context.Background(), input)
	require.NoError(t, err)

	// The cap trims down to the priority-1 squat; slots_total still reports
	// the template's slot count so the caller can see the plan is partial.
	assert.Equal(t, 3, output.SlotsTotal)
	assert.Equal(t, 1, output.SlotsFilled)
	require.Len(t, output.Plan.Exercises, 1)
	assert.Equal(t, "back-squat", output.Plan.Exercises[0].ExerciseID)
	assert.Empty(t, output.Plan.UnfilledSlots)
	assert.False(t, output.Plan.OverBudget)
}

// ==========================
// Error Mapping
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name     string
		mutate   func(input *Input)
		wantErr  error
		wantCode string
	}{
		{
			name:     "missing profile",
			mutate:   func(input *Input) { input.UserProfile = nil },
			wantErr:  ErrInvalidProfile,
			wantCode: "INVALID_PROFILE",
		},
		{
			name:     "missing template id",
			mutate:   func(input *Input) { input.TemplateID = "" },
			wantErr:  ErrInvalidProfile,
			wantCode: "INVALID_PROFILE",
		},
		{
			name:     "missing day key",
			mutate:   func(input *Input) { input.DayKey = "" },
			wantErr:  ErrInvalidProfile,
			wantCode: "INVALID_PROFILE",
		},
		{
			name:     "unknown template",
			mutate:   func(input *Input) { input.TemplateID = "nonexistent" },
			wantErr:  ErrTemplateNotFound,
			wantCode: "TEMPLATE_NOT_FOUND",
		},
		{
			name:     "unknown day key",
			mutate:   func(input *Input) { input.DayKey = "day_z" },
			wantErr:  ErrTemplateNotFound,
			wantCode: "TEMPLATE_NOT_FOUND",
		},
		{
			name:     "empty equipment",
			mutate:   func(input *Input) { input.UserProfile.Equipment = nil },
			wantErr:  ErrInvalidProfile,
			wantCode: "INVALID_PROFILE",
		},
		{
			name:     "unknown limitation label",
			mutate:   func(input *Input) { input.UserProfile.Limitations = map[string]string{"knee": "sore"} },
			wantErr:  ErrInvalidProfile,
			wantCode: "INVALID_PROFILE",
		},
		{
			name: "no resolvable cap",
			mutate: func(input *Input) {
				input.TimeCapMin = 0
				input.UserProfile.SessionMinutesCap = 0
			},
			wantErr:  ErrInvalidProfile,
			wantCode: "INVALID_PROFILE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			_, err := handler.Execute(context.Background(), input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			bpmnErr := apperrors.ConvertToBPMNError(handler.toStandardError(err, input))
			assert.Equal(t, tt.wantCode, bpmnErr.Code)
			assert.Equal(t, 0, bpmnErr.Retries)
		})
	}
}

// ==========================
// Benchmarks
// ==========================

func BenchmarkHandler_Execute(b *testing.B) {
	catalog, _ := planner.NewCatalog([]planner.Exercise{
		{
			ID: "back-squat", Name: "Barbell Back Squat",
			Pattern: planner.PatternSquat, Modality: planner.ModalityBarbell,
			Base:  planner.Prescription{Sets: 4, RepLow: 5, RepHigh: 8, RestSec: 150},
			Class: planner.ClassMain, Skill: planner.SkillModerate,
		},
	})
	registry, _ := planner.NewTemplateRegistry([]planner.Template{
		{
			ID: "full_body_3day", DayKey: "day_a",
			Slots: []planner.Slot{{Pattern: planner.PatternSquat, Priority: 1}},
		},
	})
	handler := NewHandler(LoadConfig(), planner.NewBuilder(catalog, registry), logger.NewNoOpLogger())
	input := validInput()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := handler.Execute(context.Background(), input); err != nil {
			b.Fatal(err)
		}
	}
}
