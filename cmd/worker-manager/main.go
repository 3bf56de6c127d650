// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fitplan-workers/internal/common/camunda"
	"fitplan-workers/internal/common/config"
	"fitplan-workers/internal/common/database"
	apperrors "fitplan-workers/internal/common/errors"
	httpclient "fitplan-workers/internal/common/http"
	"fitplan-workers/internal/common/logger"
	"fitplan-workers/internal/common/observability"
	"fitplan-workers/internal/planner"
	"fitplan-workers/internal/planner/load"

	// Plan Workers (5)
	bdp "fitplan-workers/internal/workers/plan/build-day-plan"
	cwl "fitplan-workers/internal/workers/plan/calculate-working-loads"
	frs "fitplan-workers/internal/workers/plan/fetch-readiness-signals"
	fup "fitplan-workers/internal/workers/plan/fetch-user-profile"
	vp "fitplan-workers/internal/workers/plan/validate-profile"

	// Catalog Workers (1)
	se "fitplan-workers/internal/workers/catalog/search-exercises"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         30 * time.Second,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Load Planner Reference Data ---
	catalog, registry, err := loadPlannerData(ctx, cfg, pg)
	if err != nil {
		zapLog.Fatal("planner data load failed", zap.Error(err))
	}
	zapLog.Info("Planner reference data loaded",
		zap.String("source", cfg.Planner.Source),
		zap.Int("exercises", catalog.Len()),
		zap.Int("templateDays", registry.Len()),
	)

	builder := planner.NewBuilder(catalog, registry)

	// --- START: Register ALL 6 Workers ---

	// --- 1. Plan Workers (5) ---
	if cfg.Workers[bdp.TaskType].Enabled {
		handler := bdp.NewHandler(
			&bdp.Config{
				Timeout: time.Duration(cfg.Workers[bdp.TaskType].Timeout) * time.Millisecond,
			},
			builder, log,
		)
		startWorker(zeebeClient, bdp.TaskType, cfg.Workers[bdp.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[fup.TaskType].Enabled {
		handler := fup.NewHandler(
			&fup.Config{
				Timeout:  time.Duration(cfg.Workers[fup.TaskType].Timeout) * time.Millisecond,
				CacheTTL: 10 * time.Minute,
			},
			pg.DB, redis.Client, log,
		)
		startWorker(zeebeClient, fup.TaskType, cfg.Workers[fup.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[frs.TaskType].Enabled {
		frsConfig := frs.ConfigFrom(cfg.Signals)
		if timeout := cfg.Workers[frs.TaskType].Timeout; timeout > 0 {
			frsConfig.Timeout = time.Duration(timeout) * time.Millisecond
		}
		handler := frs.NewHandler(
			frsConfig,
			redis.Client,
			httpclient.NewClient(frsConfig.Timeout),
			log,
		)
		startWorker(zeebeClient, frs.TaskType, cfg.Workers[frs.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[vp.TaskType].Enabled {
		handler := vp.NewHandler(
			&vp.Config{
				Timeout: time.Duration(cfg.Workers[vp.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, vp.TaskType, cfg.Workers[vp.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[cwl.TaskType].Enabled {
		handler := cwl.NewHandler(
			&cwl.Config{
				Timeout: time.Duration(cfg.Workers[cwl.TaskType].Timeout) * time.Millisecond,
			},
			log,
		)
		startWorker(zeebeClient, cwl.TaskType, cfg.Workers[cwl.TaskType], handler.Handle, zapLog)
	}

	// --- 2. Catalog Workers (1) ---
	if cfg.Workers[se.TaskType].Enabled {
		handler := se.NewHandler(
			&se.Config{
				Timeout:      time.Duration(cfg.Workers[se.TaskType].Timeout) * time.Millisecond,
				DefaultIndex: "exercises",
			},
			esClient.Client, log,
		)
		startWorker(zeebeClient, se.TaskType, cfg.Workers[se.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All 6 workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_ = shutdownCtx

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// loadPlannerData loads the exercise catalog and day templates from the
// configured source. Both come from the same source so they stay consistent.
func loadPlannerData(ctx context.Context, cfg *config.Config, pg *database.PostgresClient) (*planner.Catalog, *planner.TemplateRegistry, error) {
	switch cfg.Planner.Source {
	case "database":
		catalog, err := load.CatalogFromDB(ctx, pg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog: %w", apperrors.NewCatalogInvalidError(err.Error()))
		}
		registry, err := load.TemplatesFromDB(ctx, pg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("load templates: %w", apperrors.NewCatalogInvalidError(err.Error()))
		}
		return catalog, registry, nil
	default:
		catalog, err := load.CatalogFromFile(cfg.Planner.CatalogPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog: %w", apperrors.NewCatalogInvalidError(err.Error()))
		}
		registry, err := load.TemplatesFromFile(cfg.Planner.TemplatesPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load templates: %w", apperrors.NewCatalogInvalidError(err.Error()))
		}
		return catalog, registry, nil
	}
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
