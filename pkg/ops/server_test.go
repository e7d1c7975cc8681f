package ops_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-worker/pkg/codec"
	"github.com/joeydtaylor/steeze-worker/pkg/config"
	"github.com/joeydtaylor/steeze-worker/pkg/metrics"
	"github.com/joeydtaylor/steeze-worker/pkg/ops"
	"github.com/joeydtaylor/steeze-worker/pkg/worker"
)

func opsHandler(t *testing.T) http.Handler {
	t.Helper()
	c := worker.NewController(config.Config{}, zap.NewNop(), nil)
	return ops.BuildHandler(c, metrics.NewPromHttpHandler())
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	opsHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Status      string `json:"status"`
		WorkerState string `json:"worker_state"`
	}
	require.NoError(t, codec.JSONStrict.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "unconfigured", body.WorkerState)
}

func TestHandlersListing(t *testing.T) {
	rec := httptest.NewRecorder()
	opsHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/handlers", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		WorkerState string   `json:"worker_state"`
		TaskQueue   string   `json:"task_queue,omitempty"`
		Handlers    []string `json:"handlers"`
	}
	require.NoError(t, codec.JSONStrict.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unconfigured", body.WorkerState)
	assert.Empty(t, body.Handlers)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	opsHandler(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
