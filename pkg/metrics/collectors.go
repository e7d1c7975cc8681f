// pkg/metrics/collectors.go
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	taskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "task_duration_seconds",
			Help:    "task handler execution time.",
			Buckets: []float64{0.05, 0.25, 1, 5, 30, 120},
		},
		[]string{"queue", "task"},
	)

	totalTasksStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_tasks_started", Help: "tasks dispatched to a handler"},
		[]string{"queue", "task"},
	)

	totalTasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_tasks_completed", Help: "tasks completed without error"},
		[]string{"queue", "task"},
	)

	totalTasksFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_tasks_failed", Help: "tasks whose handler returned an error"},
		[]string{"queue", "task"},
	)

	totalTasksUnknown = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_tasks_unknown", Help: "messages naming no registered handler"},
		[]string{"queue"},
	)
)

func init() {
	prometheus.MustRegister(
		taskDuration,
		totalTasksStarted,
		totalTasksCompleted,
		totalTasksFailed,
		totalTasksUnknown,
	)
}
