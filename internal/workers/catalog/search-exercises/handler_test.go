// internal/workers/catalog/search-exercises/handler_test.go
package searchexercises

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "fitplan-workers/internal/common/errors"
	"fitplan-workers/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		Timeout:      5 * time.Second,
		DefaultIndex: "exercises",
	}
}

// stubElasticsearch serves a canned search response. The product header is
// required or the v8 client rejects the server.
func stubElasticsearch(t *testing.T, status int, body string) (*elasticsearch.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{server.URL},
	})
	require.NoError(t, err)

	return client, server
}

const searchResponse = `{
	"took": 4,
	"hits": {
		"total": {"value": 2},
		"max_score": 1.7,
		"hits": [
			{"_source": {"id": "back-squat", "name": "Barbell Back Squat", "pattern": "squat"}},
			{"_source": {"id": "goblet-squat", "name": "Goblet Squat", "pattern": "squat"}}
		]
	}
}`

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_PatternBrowse(t *testing.T) {
	client, _ := stubElasticsearch(t, http.StatusOK, searchResponse)
	handler := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		QueryType: "pattern_browse",
		Filters:   map[string]interface{}{"pattern": "squat"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), output.TotalHits)
	assert.InDelta(t, 1.7, output.MaxScore, 0.001)
	require.Len(t, output.Data, 2)
	assert.Equal(t, "back-squat", output.Data[0]["id"])
	assert.Equal(t, "goblet-squat", output.Data[1]["id"])
}

func TestHandler_Execute_UsesDefaultIndex(t *testing.T) {
	var requestedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, searchResponse)
	}))
	defer server.Close()

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	handler := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))
	_, err = handler.Execute(context.Background(), &Input{QueryType: "text_search", Text: "squat"})
	require.NoError(t, err)

	assert.Equal(t, "/exercises/_search", requestedPath)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("nil input", func(t *testing.T) {
		client, _ := stubElasticsearch(t, http.StatusOK, searchResponse)
		handler := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))

		_, err := handler.Execute(context.Background(), nil)
		require.Error(t, err)
	})

	t.Run("unknown query type", func(t *testing.T) {
		client, _ := stubElasticsearch(t, http.StatusOK, searchResponse)
		handler := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))

		input := &Input{QueryType: "fuzzy_vibes"}
		_, err := handler.Execute(context.Background(), input)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSearchQueryFailed)

		bpmnErr := apperrors.ConvertToBPMNError(handler.toStandardError(err, input))
		assert.Equal(t, "SEARCH_QUERY_FAILED", bpmnErr.Code)
		assert.Equal(t, 3, bpmnErr.Retries)
	})

	t.Run("missing index", func(t *testing.T) {
		errBody := `{"error": {"type": "index_not_found_exception", "reason": "no such index [exercises]"}}`
		client, _ := stubElasticsearch(t, http.StatusNotFound, errBody)
		handler := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))

		input := &Input{QueryType: "pattern_browse"}
		_, err := handler.Execute(context.Background(), input)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIndexNotFound)

		bpmnErr := apperrors.ConvertToBPMNError(handler.toStandardError(err, input))
		assert.Equal(t, "INDEX_NOT_FOUND", bpmnErr.Code)
		assert.Equal(t, 0, bpmnErr.Retries)
	})

	t.Run("server error", func(t *testing.T) {
		client, _ := stubElasticsearch(t, http.StatusInternalServerError, `{"error": "boom"}`)
		handler := NewHandler(createTestConfig(), client, logger.NewTestLogger(t))

		_, err := handler.Execute(context.Background(), &Input{QueryType: "pattern_browse"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSearchQueryFailed)
	})
}
