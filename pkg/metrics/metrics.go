// pkg/metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

// ObserveTaskStart records a dispatch to a named handler.
func ObserveTaskStart(queue, task string) {
	totalTasksStarted.WithLabelValues(queue, task).Inc()
}

// ObserveTaskDone records the outcome and duration of one dispatch.
func ObserveTaskDone(queue, task string, d time.Duration, err error) {
	if err != nil {
		totalTasksFailed.WithLabelValues(queue, task).Inc()
	} else {
		totalTasksCompleted.WithLabelValues(queue, task).Inc()
	}
	taskDuration.WithLabelValues(queue, task).Observe(d.Seconds())
}

// ObserveTaskUnknown records a message that named no registered handler.
func ObserveTaskUnknown(queue string) {
	totalTasksUnknown.WithLabelValues(queue).Inc()
}

var (
	opsResponseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ops_response_time",
			Help:    "ops endpoint response time.",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60},
		},
	)

	totalOpsRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_ops_requests", Help: "ops requests by code, and method"},
		[]string{"code", "method"},
	)
)

// Collect instruments the ops HTTP surface.
func Collect() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			startTime := time.Now()

			defer func() {
				endTime := time.Since(startTime)
				if r.URL.Path != "/metrics" {
					code := strconv.Itoa(ww.Status())
					totalOpsRequests.WithLabelValues(code, r.Method).Inc()
					opsResponseTime.Observe(endTime.Seconds())
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

func NewPromHttpHandler() http.Handler { return promhttp.Handler() }
func ProvideMetrics() http.Handler     { return NewPromHttpHandler() }

func init() {
	prometheus.MustRegister(
		opsResponseTime,
		totalOpsRequests,
	)
}

var Module = fx.Options(
	fx.Provide(fx.Annotate(ProvideMetrics, fx.ResultTags(`name:"metrics"`))),
)
