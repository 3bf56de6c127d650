// internal/workers/plan/calculate-working-loads/handler.go
package calculateworkingloads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"fitplan-workers/internal/common/logger"
	"fitplan-workers/internal/planner"
)

const (
	TaskType = "calculate-working-loads"

	// Plates below 1.25 kg per side are rare, so suggestions land on a
	// 2.5 kg grid.
	weightIncrementKg = 2.5
)

// intensityByGoal maps the primary training goal to the fraction of the
// estimated one-rep max used for working sets.
var intensityByGoal = map[planner.Goal]float64{
	planner.GoalStrength:       0.85,
	planner.GoalHypertrophy:    0.75,
	planner.GoalGeneralFitness: 0.70,
	planner.GoalFatLoss:        0.65,
	planner.GoalEndurance:      0.60,
}

var (
	ErrInvalidLoadRequest = errors.New("INVALID_PROFILE")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err), 0)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "INVALID_PROFILE", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.Plan == nil {
		return nil, fmt.Errorf("%w: plan is required", ErrInvalidLoadRequest)
	}

	goal, err := planner.ParseGoal(input.Goal)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLoadRequest, err)
	}
	intensity := intensityByGoal[goal]

	loads := make([]WorkingLoad, 0, len(input.Plan.Exercises))
	for _, ex := range input.Plan.Exercises {
		// Sets past 30 reps say nothing useful about maximal strength.
		max, ok := input.RepMaxes[ex.ExerciseID]
		if !ok || max.WeightKg <= 0 || max.Reps < 1 || max.Reps > 30 {
			loads = append(loads, WorkingLoad{ExerciseID: ex.ExerciseID})
			continue
		}

		oneRM := estimate1RM(max.WeightKg, max.Reps)
		loads = append(loads, WorkingLoad{
			ExerciseID:      ex.ExerciseID,
			HasSuggestion:   true,
			Estimated1RMKg:  roundToIncrement(oneRM),
			WorkingWeightKg: roundToIncrement(oneRM * intensity),
		})
	}

	return &Output{Loads: loads}, nil
}

// estimate1RM converts a recorded best set into a one-rep-max estimate.
// Epley overshoots badly past ten reps, so higher-rep sets use Brzycki.
func estimate1RM(weightKg float64, reps int) float64 {
	if reps == 1 {
		return weightKg
	}
	if reps > 10 {
		return weightKg * 36.0 / (37.0 - float64(reps))
	}
	return weightKg * (1.0 + float64(reps)/30.0)
}

// roundToIncrement snaps a weight down onto the loadable-plate grid.
// Rounding down keeps suggestions on the conservative side.
func roundToIncrement(weightKg float64) float64 {
	return math.Floor(weightKg/weightIncrementKg) * weightIncrementKg
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string, retries int32) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
		"retries":      retries,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
