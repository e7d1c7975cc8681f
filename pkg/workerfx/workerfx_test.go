package workerfx_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/joeydtaylor/steeze-worker/pkg/registry"
	"github.com/joeydtaylor/steeze-worker/pkg/worker"
	"github.com/joeydtaylor/steeze-worker/pkg/workerfx"
)

type probe struct {
	mu  sync.Mutex
	hit int
}

func (p *probe) TaskHandlers() []registry.Declaration {
	return []registry.Declaration{
		{
			Name: "probe",
			Handler: func(ctx context.Context, payload []byte) error {
				p.mu.Lock()
				defer p.mu.Unlock()
				p.hit++
				return nil
			},
		},
	}
}

func (p *probe) hits() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hit
}

func writeManifest(t *testing.T, body string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("WORKER_MANIFEST", path)
}

func TestModuleLifecycle(t *testing.T) {
	writeManifest(t, "[worker]\ntask_queue = \"fx-jobs\"\n")

	p := &probe{}
	var (
		c *worker.Controller
		e *worker.Enqueuer
	)
	app := fxtest.New(t,
		workerfx.Module(workerfx.WithService("test")),
		workerfx.ProvideTaskProvider(func() *probe { return p }),
		fx.Populate(&c, &e),
	)

	app.RequireStart()

	require.NotNil(t, c.Handle())
	assert.Equal(t, []string{"probe"}, c.Handle().Handlers())
	require.Eventually(t, func() bool { return c.State() == worker.StateRunning }, 5*time.Second, 10*time.Millisecond)

	select {
	case <-c.Handle().Running():
	case <-time.After(5 * time.Second):
		t.Fatal("worker never started processing")
	}

	_, err := e.Enqueue(context.Background(), "probe", map[string]int{"n": 1})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return p.hits() == 1 }, 5*time.Second, 10*time.Millisecond)

	app.RequireStop()
	assert.Equal(t, worker.StateStopped, c.State())
}

func TestModuleDisabledWithoutManifest(t *testing.T) {
	t.Setenv("WORKER_MANIFEST", filepath.Join(t.TempDir(), "missing.toml"))

	var c *worker.Controller
	app := fxtest.New(t,
		workerfx.Module(),
		fx.Populate(&c),
	)

	app.RequireStart()
	assert.Nil(t, c.Handle(), "no manifest means no worker")
	assert.Equal(t, worker.StateUnconfigured, c.State())
	app.RequireStop()
}
