// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	PlansBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plans_built_total",
			Help: "Total number of day plans assembled",
		},
		[]string{"template_id"},
	)

	PlanSlotsUnfilled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plan_slots_unfilled_total",
			Help: "Total number of template slots left without an eligible exercise",
		},
	)

	PlansOverBudget = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plans_over_budget_total",
			Help: "Total number of plans returned above the requested time cap",
		},
	)
)
