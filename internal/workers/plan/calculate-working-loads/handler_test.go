// internal/workers/plan/calculate-working-loads/handler_test.go
package calculateworkingloads

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitplan-workers/internal/common/logger"
	"fitplan-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), logger.NewTestLogger(t))
}

func planWith(exerciseIDs ...string) *models.DayPlan {
	plan := &models.DayPlan{TemplateID: "full_body_3day", DayKey: "day_a"}
	for _, id := range exerciseIDs {
		plan.Exercises = append(plan.Exercises, models.PlannedExercise{ExerciseID: id})
	}
	return plan
}

// ==========================
// Estimation Formula Tests
// ==========================

func TestEstimate1RM(t *testing.T) {
	tests := []struct {
		name     string
		weightKg float64
		reps     int
		want     float64
	}{
		{"single is taken as the max", 140, 1, 140},
		{"five reps uses epley", 100, 5, 100 * (1.0 + 5.0/30.0)},
		{"ten reps uses epley", 80, 10, 80 * (1.0 + 10.0/30.0)},
		{"twelve reps uses brzycki", 60, 12, 60 * 36.0 / 25.0},
		{"twenty reps uses brzycki", 40, 20, 40 * 36.0 / 17.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, estimate1RM(tt.weightKg, tt.reps), 0.001)
		})
	}
}

func TestRoundToIncrement(t *testing.T) {
	assert.Equal(t, 115.0, roundToIncrement(116.67))
	assert.Equal(t, 117.5, roundToIncrement(119.0))
	assert.Equal(t, 140.0, roundToIncrement(140.0))
	assert.Equal(t, 0.0, roundToIncrement(2.49))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SuggestsLoads(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Goal: "strength",
		Plan: planWith("bench-press", "back-squat", "conventional-deadlift"),
		RepMaxes: map[string]RepMax{
			"bench-press":           {WeightKg: 100, Reps: 5},
			"back-squat":            {WeightKg: 60, Reps: 12},
			"conventional-deadlift": {WeightKg: 140, Reps: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, output.Loads, 3)

	// Epley: 100 * (1 + 5/30) = 116.67 -> 115; at 85%: 99.17 -> 97.5.
	bench := output.Loads[0]
	assert.True(t, bench.HasSuggestion)
	assert.Equal(t, 115.0, bench.Estimated1RMKg)
	assert.Equal(t, 97.5, bench.WorkingWeightKg)

	// Brzycki: 60 * 36/25 = 86.4 -> 85; at 85%: 73.44 -> 72.5.
	squat := output.Loads[1]
	assert.True(t, squat.HasSuggestion)
	assert.Equal(t, 85.0, squat.Estimated1RMKg)
	assert.Equal(t, 72.5, squat.WorkingWeightKg)

	// A single is already the max: 140; at 85%: 119 -> 117.5.
	deadlift := output.Loads[2]
	assert.True(t, deadlift.HasSuggestion)
	assert.Equal(t, 140.0, deadlift.Estimated1RMKg)
	assert.Equal(t, 117.5, deadlift.WorkingWeightKg)
}

func TestHandler_Execute_IntensityByGoal(t *testing.T) {
	tests := []struct {
		goal        string
		wantWorking float64
	}{
		{"strength", 85.0},        // 100 * 0.85
		{"hypertrophy", 75.0},     // 100 * 0.75
		{"general_fitness", 70.0}, // 100 * 0.70
		{"fat_loss", 65.0},        // 100 * 0.65
		{"endurance", 60.0},       // 100 * 0.60
	}

	handler := createTestHandler(t)

	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{
				Goal:     tt.goal,
				Plan:     planWith("bench-press"),
				RepMaxes: map[string]RepMax{"bench-press": {WeightKg: 100, Reps: 1}},
			})
			require.NoError(t, err)
			require.Len(t, output.Loads, 1)
			assert.Equal(t, tt.wantWorking, output.Loads[0].WorkingWeightKg)
		})
	}
}

func TestHandler_Execute_NoRecordedMax(t *testing.T) {
	handler := createTestHandler(t)

	output, err := handler.Execute(context.Background(), &Input{
		Goal: "strength",
		Plan: planWith("bench-press", "pushup"),
		RepMaxes: map[string]RepMax{
			"bench-press": {WeightKg: 100, Reps: 5},
		},
	})
	require.NoError(t, err)
	require.Len(t, output.Loads, 2)

	assert.True(t, output.Loads[0].HasSuggestion)
	assert.False(t, output.Loads[1].HasSuggestion)
	assert.Equal(t, "pushup", output.Loads[1].ExerciseID)
	assert.Zero(t, output.Loads[1].WorkingWeightKg)
}

func TestHandler_Execute_UnusableMaxes(t *testing.T) {
	tests := []struct {
		name string
		max  RepMax
	}{
		{"zero weight", RepMax{WeightKg: 0, Reps: 5}},
		{"negative weight", RepMax{WeightKg: -20, Reps: 5}},
		{"zero reps", RepMax{WeightKg: 100, Reps: 0}},
		{"too many reps", RepMax{WeightKg: 20, Reps: 50}},
	}

	handler := createTestHandler(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{
				Goal:     "strength",
				Plan:     planWith("bench-press"),
				RepMaxes: map[string]RepMax{"bench-press": tt.max},
			})
			require.NoError(t, err)
			require.Len(t, output.Loads, 1)
			assert.False(t, output.Loads[0].HasSuggestion)
		})
	}
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	handler := createTestHandler(t)

	t.Run("missing plan", func(t *testing.T) {
		_, err := handler.Execute(context.Background(), &Input{Goal: "strength"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidLoadRequest)
	})

	t.Run("unknown goal", func(t *testing.T) {
		_, err := handler.Execute(context.Background(), &Input{
			Goal: "bulk",
			Plan: planWith("bench-press"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidLoadRequest)
	})
}
