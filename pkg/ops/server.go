// pkg/ops/server.go
package ops

import (
	"net/http"

	"github.com/joeydtaylor/steeze-worker/pkg/codec"
	"github.com/joeydtaylor/steeze-worker/pkg/metrics"
	"github.com/joeydtaylor/steeze-worker/pkg/worker"
)

type healthResponse struct {
	Status      string `json:"status"`
	WorkerState string `json:"worker_state"`
}

type handlersResponse struct {
	WorkerState string   `json:"worker_state"`
	TaskQueue   string   `json:"task_queue,omitempty"`
	Handlers    []string `json:"handlers"`
}

// BuildHandler assembles the ops surface: health, handler listing, and the
// prometheus scrape endpoint. Everything is read-only over the controller.
func BuildHandler(c *worker.Controller, metricsHandler http.Handler) http.Handler {
	r := NewChi()
	r.Use(metrics.Collect())

	r.Get("/healthz", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:      "ok",
			WorkerState: c.State().String(),
		})
	}))

	r.Get("/handlers", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp := handlersResponse{
			WorkerState: c.State().String(),
			Handlers:    []string{},
		}
		if h := c.Handle(); h != nil {
			resp.TaskQueue = h.TaskQueue()
			resp.Handlers = h.Handlers()
		}
		writeJSON(w, http.StatusOK, resp)
	}))

	r.Handle(http.MethodGet, "/metrics", metricsHandler)

	return r.Mux()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := codec.JSONStrict.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", codec.JSONStrict.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
