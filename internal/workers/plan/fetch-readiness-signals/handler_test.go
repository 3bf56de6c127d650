// internal/workers/plan/fetch-readiness-signals/handler_test.go
package fetchreadinesssignals

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpclient "fitplan-workers/internal/common/http"
	"fitplan-workers/internal/common/logger"
	"fitplan-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func createTestConfig(baseURL string) *Config {
	return &Config{
		Timeout:  2 * time.Second,
		BaseURL:  baseURL,
		APIKey:   "test-key",
		MaxAge:   24 * time.Hour,
		CacheTTL: 15 * time.Minute,
	}
}

func createTestHandler(t *testing.T, redisClient *redis.Client, baseURL string) *Handler {
	cfg := createTestConfig(baseURL)
	return NewHandler(cfg, redisClient, httpclient.NewClient(cfg.Timeout), logger.NewTestLogger(t))
}

func storedSnapshot(userID string, capturedAt time.Time) string {
	data, _ := json.Marshal(models.SignalSnapshot{
		SnapshotID:     "snap-1",
		UserID:         userID,
		CapturedAt:     capturedAt.UTC().Format(time.RFC3339),
		BiomarkerFlags: []string{"elevated_rhr"},
		RecoveryFlags:  []string{"sleep_poor"},
	})
	return string(data)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_FreshSnapshotFromCache(t *testing.T) {
	mr, redisClient := setupRedis(t)
	handler := createTestHandler(t, redisClient, "")

	mr.Set("signals:user-1", storedSnapshot("user-1", time.Now().Add(-time.Hour)))

	output, err := handler.Execute(context.Background(), &Input{UserID: "user-1"})
	require.NoError(t, err)

	assert.True(t, output.FromCache)
	assert.Equal(t, "snap-1", output.SnapshotID)
	assert.Equal(t, []string{"elevated_rhr"}, output.Signals.BiomarkerFlags)
	assert.Equal(t, []string{"sleep_poor"}, output.Signals.RecoveryFlags)
}

func TestHandler_Execute_StaleSnapshotRefetched(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/v1/users/user-2/readiness", r.URL.Path)
		json.NewEncoder(w).Encode(models.SignalSnapshot{
			SnapshotID:     "snap-fresh",
			CapturedAt:     time.Now().UTC().Format(time.RFC3339),
			BiomarkerFlags: []string{"elevated_bp"},
		})
	}))
	defer server.Close()

	mr, redisClient := setupRedis(t)
	handler := createTestHandler(t, redisClient, server.URL)

	mr.Set("signals:user-2", storedSnapshot("user-2", time.Now().Add(-48*time.Hour)))

	output, err := handler.Execute(context.Background(), &Input{UserID: "user-2"})
	require.NoError(t, err)

	assert.False(t, output.FromCache)
	assert.Equal(t, "snap-fresh", output.SnapshotID)
	assert.Equal(t, []string{"elevated_bp"}, output.Signals.BiomarkerFlags)
	assert.Equal(t, "Bearer test-key", gotAuth)

	// The fresh snapshot is written back for the next request.
	cached, err := mr.Get("signals:user-2")
	require.NoError(t, err)
	var snapshot models.SignalSnapshot
	require.NoError(t, json.Unmarshal([]byte(cached), &snapshot))
	assert.Equal(t, "snap-fresh", snapshot.SnapshotID)
	assert.Equal(t, "user-2", snapshot.UserID)
}

func TestHandler_Execute_CacheMissFetchesRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Snapshot id and timestamp are assigned when the service omits them.
		json.NewEncoder(w).Encode(models.SignalSnapshot{
			RecoveryFlags: []string{"high_soreness", "low_hrv"},
		})
	}))
	defer server.Close()

	_, redisClient := setupRedis(t)
	handler := createTestHandler(t, redisClient, server.URL)

	output, err := handler.Execute(context.Background(), &Input{UserID: "user-3"})
	require.NoError(t, err)

	assert.False(t, output.FromCache)
	assert.NotEmpty(t, output.SnapshotID)
	assert.NotEmpty(t, output.CapturedAt)
	assert.Equal(t, []string{"high_soreness", "low_hrv"}, output.Signals.RecoveryFlags)
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("missing user id", func(t *testing.T) {
		_, redisClient := setupRedis(t)
		handler := createTestHandler(t, redisClient, "")

		_, err := handler.Execute(context.Background(), &Input{})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignalsUnavailable)
	})

	t.Run("no cache and no service configured", func(t *testing.T) {
		_, redisClient := setupRedis(t)
		handler := createTestHandler(t, redisClient, "")

		_, err := handler.Execute(context.Background(), &Input{UserID: "user-4"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignalsUnavailable)
	})

	t.Run("service returns server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, redisClient := setupRedis(t)
		handler := createTestHandler(t, redisClient, server.URL)

		_, err := handler.Execute(context.Background(), &Input{UserID: "user-5"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignalsUnavailable)
	})

	t.Run("corrupt cached snapshot", func(t *testing.T) {
		mr, redisClient := setupRedis(t)
		handler := createTestHandler(t, redisClient, "")

		mr.Set("signals:user-6", "{not json")

		_, err := handler.Execute(context.Background(), &Input{UserID: "user-6"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrSignalsParseFailed)
	})
}
