package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_dispatches_total",
		Help: "Total number of task dispatches submitted to the orchestration engine",
	})

	rejectedSubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_rejected_submissions_total",
		Help: "Total number of submissions synchronously rejected by the orchestration engine",
	})

	dispatchConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_dispatch_conflicts_total",
		Help: "Total number of dispatches skipped because a pending execution already existed",
	})

	repairedAdvancesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_repaired_advances_total",
		Help: "Total number of due-time advances recovered for boundaries whose dispatch was already recorded",
	})

	resolvedExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_resolved_executions_total",
		Help: "Total number of executions resolved to a terminal status",
	}, []string{"status"})

	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_tick_duration_seconds",
		Help:    "Duration of scheduler ticks in seconds",
		Buckets: prometheus.DefBuckets,
	})
)
