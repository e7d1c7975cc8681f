// pkg/worker/controller.go
package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-worker/pkg/config"
	"github.com/joeydtaylor/steeze-worker/pkg/logging"
	"github.com/joeydtaylor/steeze-worker/pkg/registry"
	"github.com/joeydtaylor/steeze-worker/pkg/transport"
)

// State tracks the controller through its lifecycle.
type State int32

const (
	StateUnconfigured State = iota
	StateConfiguring
	StateConstructed
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfiguring:
		return "configuring"
	case StateConstructed:
		return "constructed"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Controller owns the phased construction of the worker and its deferred
// start. Configure runs at module init; Start is armed once the hosting
// application is fully up; Stop tears everything down.
//
// The two phases are decoupled through a one-shot readiness channel: the
// start waiter blocks on it instead of polling for the handle, so bootstrap
// ordering between dependency wiring and queue consumption never matters.
type Controller struct {
	cfg       config.Config
	log       *zap.Logger
	providers []registry.Provider

	mu          sync.Mutex
	state       State
	worker      *Worker
	ready       chan struct{}
	startCancel context.CancelFunc

	runMu   sync.Mutex
	runDone bool
	runErr  error
}

func NewController(cfg config.Config, log *zap.Logger, providers []registry.Provider) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		cfg:       cfg,
		log:       log,
		providers: providers,
		ready:     make(chan struct{}),
	}
}

// Configure builds the worker: registry scan, one-time runtime install,
// transport connect, construction — in that order. Each failure surfaces
// synchronously and leaves no partial handle behind.
//
// Without a task queue in the manifest this is a guarded no-op: the
// controller stays Unconfigured and the handle stays nil, which is a valid
// degraded state, not an error.
func (c *Controller) Configure(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateUnconfigured {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("worker: configure called in state %s", state)
	}
	queue := c.cfg.QueueName()
	if queue == "" {
		c.mu.Unlock()
		c.log.Info("no task queue configured; worker construction skipped")
		return nil
	}
	c.state = StateConfiguring
	c.mu.Unlock()

	reg, err := registry.Build(ctx, c.providers, c.cfg.Worker.Providers)
	if err != nil {
		return fmt.Errorf("build handler registry: %w", err)
	}

	if c.cfg.Runtime != nil {
		if err := InstallRuntime(*c.cfg.Runtime, c.log); err != nil {
			return fmt.Errorf("install runtime: %w", err)
		}
	}

	wmLog := logging.NewWatermillAdapter(c.log)
	var tr transport.Transport
	if c.cfg.Transport != nil {
		tr, err = transport.Connect(ctx, *c.cfg.Transport, wmLog)
		if err != nil {
			return fmt.Errorf("connect transport: %w", err)
		}
	} else {
		tr = transport.NewChannel(wmLog)
	}

	w, err := New(Options{
		TaskQueue:       queue,
		Name:            c.cfg.WorkerName(),
		MaxRetries:      c.cfg.Worker.MaxRetries,
		Registry:        reg,
		Transport:       tr,
		Logger:          c.log,
		WatermillLogger: wmLog,
	})
	if err != nil {
		_ = tr.Close()
		return fmt.Errorf("construct worker: %w", err)
	}

	c.mu.Lock()
	c.worker = w
	c.state = StateConstructed
	close(c.ready)
	c.mu.Unlock()

	c.log.Info("worker constructed",
		zap.String("task_queue", queue),
		zap.Strings("handlers", w.Handlers()),
	)
	return nil
}

// Start arms the late-bootstrap trigger and returns immediately. A waiter
// goroutine blocks until the handle exists, then launches the run loop in a
// detached goroutine — exactly once — and clears its own token. When
// nothing is ever constructed the waiter parks until Stop cancels it.
// Calling Start with a waiter already armed or the worker already running
// is a no-op.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.startCancel != nil || c.state == StateRunning || c.state == StateStopped {
		c.mu.Unlock()
		return
	}
	waitCtx, cancel := context.WithCancel(context.Background())
	c.startCancel = cancel
	c.mu.Unlock()

	go func() {
		select {
		case <-waitCtx.Done():
			return
		case <-c.ready:
		}

		c.mu.Lock()
		if c.state != StateConstructed {
			// stopped while waiting
			c.mu.Unlock()
			return
		}
		w := c.worker
		c.state = StateRunning
		c.startCancel = nil
		c.mu.Unlock()
		cancel()

		go func() {
			err := w.Run(context.Background())
			c.runMu.Lock()
			c.runDone, c.runErr = true, err
			c.runMu.Unlock()
			if err != nil {
				c.log.Error("worker run loop terminated", zap.Error(err))
			}
		}()
	}()
}

// Stop cancels any armed start waiter and stops the worker when one was
// constructed. Stop failures are logged as warnings, never returned: from
// the caller's perspective shutdown always completes. Safe with no prior
// construction and safe to call repeatedly.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	cancel := c.startCancel
	c.startCancel = nil
	w := c.worker
	c.state = StateStopped
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if w == nil {
		return nil
	}
	if err := w.Stop(); err != nil {
		c.log.Warn("worker stop failed", zap.Error(err))
	}
	return nil
}

// Handle returns the constructed worker, or nil before construction. The
// controller stays the only writer.
func (c *Controller) Handle() *Worker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.worker
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Ready closes once the worker handle exists. It never closes when
// construction was skipped or failed.
func (c *Controller) Ready() <-chan struct{} {
	return c.ready
}

// RunStatus reports whether the detached run loop has terminated, and with
// what error.
func (c *Controller) RunStatus() (done bool, err error) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	return c.runDone, c.runErr
}

// startArmed reports whether a start waiter currently holds its token.
func (c *Controller) startArmed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startCancel != nil
}
