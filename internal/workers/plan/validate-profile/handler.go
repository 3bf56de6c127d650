// internal/workers/plan/validate-profile/handler.go
package validateprofile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"fitplan-workers/internal/common/logger"
	"fitplan-workers/internal/models"
	"fitplan-workers/internal/planner"
)

const (
	TaskType = "validate-profile"

	minDaysPerWeek = 1
	maxDaysPerWeek = 7
	minSessionCap  = 10
	maxSessionCap  = 180
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
		h.failJob(client, job, "PARSE_ERROR", err.Error(), 0)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.UserProfile == nil {
		return nil, fmt.Errorf("user_profile is required")
	}
	p := input.UserProfile

	var errs []ValidationError
	add := func(field, code, message string) {
		errs = append(errs, ValidationError{Field: field, Code: code, Message: message})
	}

	if p.UserID == "" {
		add("user_id", "REQUIRED", "user_id must not be empty")
	}

	if !planner.Experience(p.Experience).Valid() {
		add("experience", "UNKNOWN_VALUE", fmt.Sprintf("unknown experience level %q", p.Experience))
	}

	if len(p.Equipment) == 0 {
		add("equipment", "REQUIRED", "at least one equipment modality is required")
	}
	for _, raw := range p.Equipment {
		if !planner.Modality(raw).Valid() {
			add("equipment", "UNKNOWN_VALUE", fmt.Sprintf("unknown equipment modality %q", raw))
		}
	}

	if len(p.Goals) == 0 {
		add("goals", "REQUIRED", "at least one training goal is required")
	}
	for _, raw := range p.Goals {
		if !planner.Goal(raw).Valid() {
			add("goals", "UNKNOWN_VALUE", fmt.Sprintf("unknown goal %q", raw))
		}
	}

	for region, label := range p.Limitations {
		if _, err := models.ParseLimitationLabel(label); err != nil {
			add("limitations", "UNKNOWN_VALUE",
				fmt.Sprintf("region %q: unknown limitation %q", region, label))
		}
	}

	if p.DaysPerWeek < minDaysPerWeek || p.DaysPerWeek > maxDaysPerWeek {
		add("days_per_week", "OUT_OF_RANGE",
			fmt.Sprintf("days_per_week must be between %d and %d", minDaysPerWeek, maxDaysPerWeek))
	}

	if p.SessionMinutesCap != 0 &&
		(p.SessionMinutesCap < minSessionCap || p.SessionMinutesCap > maxSessionCap) {
		add("session_minutes_cap", "OUT_OF_RANGE",
			fmt.Sprintf("session_minutes_cap must be between %d and %d minutes", minSessionCap, maxSessionCap))
	}

	return &Output{Valid: len(errs) == 0, Errors: errs}, nil
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
