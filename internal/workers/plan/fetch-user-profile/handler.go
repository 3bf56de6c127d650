// internal/workers/plan/fetch-user-profile/handler.go
package fetchuserprofile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	apperrors "fitplan-workers/internal/common/errors"
	"fitplan-workers/internal/common/logger"
	"fitplan-workers/internal/models"
)

const (
	TaskType = "fetch-user-profile"
)

var (
	ErrProfileNotFound     = errors.New("PROFILE_NOT_FOUND")
	ErrDatabaseQueryFailed = errors.New("DATABASE_QUERY_FAILED")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
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
		h.failJob(client, job, apperrors.ConvertToBPMNError(h.toStandardError(err, &input)))
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrProfileNotFound)
	}

	cacheKey := "profile:" + input.UserID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var profile models.UserProfile
		if err := json.Unmarshal([]byte(val), &profile); err == nil {
			return &Output{Profile: &profile, FromCache: true}, nil
		}
		// Corrupt cache entry, fall through to the database.
		h.redis.Del(ctx, cacheKey)
	}

	var raw []byte
	query := `SELECT profile FROM user_profiles WHERE user_id = $1`
	err := h.db.QueryRowContext(ctx, query, input.UserID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, input.UserID)
		}
		return nil, fmt.Errorf("%w: %v", ErrDatabaseQueryFailed, err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", ErrDatabaseQueryFailed, err)
	}
	if profile.UserID == "" {
		profile.UserID = input.UserID
	}

	h.redis.Set(ctx, cacheKey, raw, h.config.CacheTTL)

	return &Output{Profile: &profile, FromCache: false}, nil
}

// toStandardError maps execute's sentinel errors onto the shared error
// taxonomy so retry counts stay consistent across workers.
func (h *Handler) toStandardError(err error, input *Input) *apperrors.StandardError {
	if errors.Is(err, ErrProfileNotFound) {
		return apperrors.NewProfileNotFoundError(input.UserID)
	}
	return apperrors.NewDatabaseQueryFailedError(err)
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
