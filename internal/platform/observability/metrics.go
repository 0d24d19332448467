package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ExtractionRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeto_extraction_runs_total",
		Help: "Task extraction runs by outcome (strict, recovered, empty, heuristic)",
	}, []string{"outcome"})

	TasksExtracted = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "meeto_tasks_extracted",
		Help:    "Number of task records surviving the pipeline per transcript",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})

	TasksDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeto_tasks_dropped_total",
		Help: "Task records dropped by the pipeline by reason",
	}, []string{"reason"})

	SummaryRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeto_summary_runs_total",
		Help: "Summary generation runs by outcome (model, fallback)",
	}, []string{"outcome"})

	IssuesSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeto_issues_synced_total",
		Help: "Issue synchronization attempts by status (created, failed, skipped)",
	}, []string{"status"})

	AssigneeResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeto_assignee_resolutions_total",
		Help: "Assignee lookups by resolution source (assignable, global, unassigned)",
	}, []string{"source"})

	TrackerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "meeto_tracker_request_duration_seconds",
		Help:    "Duration of issue tracker API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	LLMRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "meeto_llm_request_latency_seconds",
		Help:    "Latency of LLM requests by provider and task",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"provider", "task"})

	LLMFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeto_llm_fallbacks_total",
		Help: "Number of times LLM fell back to another provider",
	}, []string{"from_provider", "to_provider", "task"})

	LLMCircuitBreakerOpens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeto_llm_circuit_breaker_opens_total",
		Help: "Number of times the LLM circuit breaker opened",
	}, []string{"provider"})

	LLMProviderAvailable = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "meeto_llm_provider_available",
		Help: "Whether an LLM provider is currently available (1) or not (0)",
	}, []string{"provider"})

	TranscriptsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "meeto_transcripts_processed_total",
		Help: "Transcripts picked up from the watch directory by status",
	}, []string{"status"})
)
