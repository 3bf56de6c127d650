// internal/workers/plan/fetch-readiness-signals/handler.go
package fetchreadinesssignals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "fitplan-workers/internal/common/errors"
	httpclient "fitplan-workers/internal/common/http"
	"fitplan-workers/internal/common/logger"
	"fitplan-workers/internal/models"
)

const (
	TaskType = "fetch-readiness-signals"
)

var (
	ErrSignalsUnavailable = errors.New("SIGNALS_UNAVAILABLE")
	ErrSignalsParseFailed = errors.New("SIGNALS_PARSE_FAILED")
)

type Handler struct {
	config     *Config
	redis      *redis.Client
	httpClient *httpclient.Client
	logger     logger.Logger
}

func NewHandler(config *Config, redisClient *redis.Client, http *httpclient.Client, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		redis:      redisClient,
		httpClient: http,
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
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

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, apperrors.ConvertToBPMNError(h.toStandardError(err)))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrSignalsUnavailable)
	}

	cacheKey := "signals:" + input.UserID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var snapshot models.SignalSnapshot
		if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
			return nil, fmt.Errorf("%w: decode cached snapshot: %v", ErrSignalsParseFailed, err)
		}
		if h.fresh(snapshot.CapturedAt) {
			return &Output{
				Signals:    snapshot.Signals(),
				SnapshotID: snapshot.SnapshotID,
				CapturedAt: snapshot.CapturedAt,
				FromCache:  true,
			}, nil
		}
		h.logger.Debug("cached snapshot stale, refetching", map[string]interface{}{
			"userId":     input.UserID,
			"capturedAt": snapshot.CapturedAt,
		})
	}

	snapshot, err := h.fetchRemote(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(snapshot); err == nil {
		h.redis.Set(ctx, cacheKey, data, h.config.CacheTTL)
	}

	return &Output{
		Signals:    snapshot.Signals(),
		SnapshotID: snapshot.SnapshotID,
		CapturedAt: snapshot.CapturedAt,
		FromCache:  false,
	}, nil
}

func (h *Handler) fetchRemote(ctx context.Context, userID string) (*models.SignalSnapshot, error) {
	if h.config.BaseURL == "" {
		return nil, fmt.Errorf("%w: no snapshot cached and no signal service configured", ErrSignalsUnavailable)
	}

	var snapshot models.SignalSnapshot
	url := fmt.Sprintf("%s/v1/users/%s/readiness", h.config.BaseURL, userID)
	if err := h.httpClient.GetJSON(ctx, url, h.config.APIKey, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignalsUnavailable, err)
	}

	if snapshot.SnapshotID == "" {
		snapshot.SnapshotID = uuid.New().String()
	}
	if snapshot.CapturedAt == "" {
		snapshot.CapturedAt = time.Now().UTC().Format(time.RFC3339)
	}
	snapshot.UserID = userID

	return &snapshot, nil
}

// fresh reports whether a snapshot timestamp falls inside the staleness
// window. Unparseable timestamps count as stale.
func (h *Handler) fresh(capturedAt string) bool {
	ts, err := time.Parse(time.RFC3339, capturedAt)
	if err != nil {
		return false
	}
	return time.Since(ts) <= h.config.MaxAge
}

// toStandardError maps execute's sentinel errors onto the shared error
// taxonomy so retry counts stay consistent across workers.
func (h *Handler) toStandardError(err error) *apperrors.StandardError {
	if errors.Is(err, ErrSignalsParseFailed) {
		return apperrors.NewSignalsParseFailedError(err)
	}
	return apperrors.NewSignalsUnavailableError(err)
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
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
