// internal/workers/plan/build-day-plan/handler.go
package builddayplan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "fitplan-workers/internal/common/errors"
	"fitplan-workers/internal/common/logger"
	"fitplan-workers/internal/common/metrics"
	"fitplan-workers/internal/models"
	"fitplan-workers/internal/planner"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "build-day-plan"
)

var (
	ErrTemplateNotFound = errors.New("TEMPLATE_NOT_FOUND")
	ErrInvalidProfile   = errors.New("INVALID_PROFILE")
)

type Handler struct {
	config  *Config
	builder *planner.Builder
	logger  logger.Logger
}

func NewHandler(config *Config, builder *planner.Builder, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		builder: builder,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, &apperrors.BPMNError{
			Code:    "PARSE_ERROR",
			Message: fmt.Sprintf("parse input: %v", err),
		})
		return
	}

	timeout := h.config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, apperrors.ConvertToBPMNError(h.toStandardError(err, &input)))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.UserProfile == nil {
		return nil, fmt.Errorf("%w: user_profile is required", ErrInvalidProfile)
	}
	if input.TemplateID == "" {
		return nil, fmt.Errorf("%w: template_id is required", ErrInvalidProfile)
	}
	if input.DayKey == "" {
		return nil, fmt.Errorf("%w: day_key is required", ErrInvalidProfile)
	}

	profile, err := input.UserProfile.ToPlanner()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	plan, err := h.builder.BuildDayPlan(planner.BuildRequest{
		Profile:    profile,
		TemplateID: input.TemplateID,
		DayKey:     input.DayKey,
		Signals:    input.Signals.ToPlanner(),
		TimeCapMin: input.TimeCapMin,
	})
	if err != nil {
		switch {
		case errors.Is(err, planner.ErrUnknownTemplate):
			return nil, fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
		case errors.Is(err, planner.ErrInvalidProfile):
			return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
		default:
			return nil, err
		}
	}

	metrics.PlansBuilt.WithLabelValues(input.TemplateID).Inc()
	if len(plan.UnfilledSlots) > 0 {
		metrics.PlanSlotsUnfilled.Add(float64(len(plan.UnfilledSlots)))
	}
	if plan.OverBudget {
		metrics.PlansOverBudget.Inc()
	}

	output := &Output{
		Plan:        models.DayPlanFromPlanner(plan),
		SlotsFilled: len(plan.Exercises),
		SlotsTotal:  plan.SlotCount,
	}

	h.logger.Info("day plan assembled", map[string]interface{}{
		"userId":           input.UserProfile.UserID,
		"templateId":       input.TemplateID,
		"dayKey":           input.DayKey,
		"slotsFilled":      output.SlotsFilled,
		"slotsTotal":       output.SlotsTotal,
		"estimatedTimeMin": plan.EstimatedTimeMin,
		"overBudget":       plan.OverBudget,
	})

	return output, nil
}

// toStandardError maps execute's sentinel errors onto the shared error
// taxonomy so retry counts stay consistent across workers.
func (h *Handler) toStandardError(err error, input *Input) *apperrors.StandardError {
	switch {
	case errors.Is(err, ErrTemplateNotFound):
		return apperrors.NewTemplateNotFoundError(input.TemplateID, input.DayKey)
	case errors.Is(err, ErrInvalidProfile):
		return apperrors.NewInvalidProfileError(err.Error())
	default:
		return &apperrors.StandardError{
			Code:      "PLAN_BUILD_FAILED",
			Message:   "Day plan assembly failed",
			Details:   err.Error(),
			Timestamp: time.Now().UTC(),
		}
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, bpmnErr *apperrors.BPMNError) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":         job.Key,
		"errorCode":      bpmnErr.Code,
		"errorMessage":   bpmnErr.Message,
		"retries":        bpmnErr.Retries,
		"errorVariables": bpmnErr.ToErrorVariables(),
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
