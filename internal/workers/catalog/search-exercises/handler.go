// internal/workers/catalog/search-exercises/handler.go
package searchexercises

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	apperrors "fitplan-workers/internal/common/errors"
	"fitplan-workers/internal/common/logger"
	"fitplan-workers/internal/workers/catalog/search-exercises/queries"
)

const (
	TaskType = "search-exercises"
)

var (
	ErrSearchQueryFailed = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout     = errors.New("SEARCH_TIMEOUT")
	ErrIndexNotFound     = errors.New("INDEX_NOT_FOUND")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
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
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	eq := queries.ExerciseQuery{
		Index:     input.IndexName,
		QueryType: input.QueryType,
		Text:      input.Text,
		Filters:   input.Filters,
	}
	if eq.Index == "" {
		eq.Index = h.config.DefaultIndex
	}
	if eq.Filters == nil {
		eq.Filters = map[string]interface{}{}
	}
	eq.Pagination.From = input.Pagination.From
	eq.Pagination.Size = input.Pagination.Size

	result, err := queries.Execute(ctx, h.client, eq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		if strings.Contains(err.Error(), "index_not_found_exception") {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	return &Output{
		Data:      result.Data,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
	}, nil
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

// toStandardError maps execute's sentinel errors onto the shared error
// taxonomy so retry counts stay consistent across workers.
func (h *Handler) toStandardError(err error, input *Input) *apperrors.StandardError {
	index := input.IndexName
	if index == "" {
		index = h.config.DefaultIndex
	}
	switch {
	case errors.Is(err, ErrIndexNotFound):
		return apperrors.NewIndexNotFoundError(index)
	case errors.Is(err, ErrSearchTimeout):
		return apperrors.NewSearchTimeoutError(input.QueryType)
	default:
		return apperrors.NewSearchQueryFailedError(input.QueryType, err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
