// pkg/worker/worker.go
package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.uber.org/zap"

	"github.com/joeydtaylor/steeze-worker/pkg/logging"
	"github.com/joeydtaylor/steeze-worker/pkg/metrics"
	"github.com/joeydtaylor/steeze-worker/pkg/registry"
	"github.com/joeydtaylor/steeze-worker/pkg/transport"
)

// MetadataTaskName is the message metadata key carrying the handler name.
const MetadataTaskName = "task_name"

// Options merges the handler registry, the established transport, and the
// worker section of the manifest into one construction input.
type Options struct {
	TaskQueue  string
	Name       string
	MaxRetries int
	Registry   registry.Registry
	Transport  transport.Transport
	Logger     *zap.Logger

	// WatermillLogger is derived from Logger when nil.
	WatermillLogger watermill.LoggerAdapter
}

// Worker is the constructed handle: a message router holding the registry,
// consuming the task queue, dispatching by name.
type Worker struct {
	opts   Options
	router *message.Router
	log    *zap.Logger
	closed atomic.Bool
}

func New(opts Options) (*Worker, error) {
	if opts.TaskQueue == "" {
		return nil, errors.New("worker: task queue required")
	}
	if opts.Transport.Subscriber == nil {
		return nil, errors.New("worker: transport subscriber required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	wmLog := opts.WatermillLogger
	if wmLog == nil {
		wmLog = logging.NewWatermillAdapter(opts.Logger)
	}

	router, err := message.NewRouter(message.RouterConfig{}, wmLog)
	if err != nil {
		return nil, err
	}
	router.AddMiddleware(middleware.Recoverer)
	if opts.MaxRetries > 0 {
		router.AddMiddleware(middleware.Retry{
			MaxRetries:      opts.MaxRetries,
			InitialInterval: 100 * time.Millisecond,
			Logger:          wmLog,
		}.Middleware)
	}

	name := opts.Name
	if name == "" {
		name = opts.TaskQueue
	}

	w := &Worker{
		opts:   opts,
		router: router,
		log:    opts.Logger.With(zap.String("worker", name), zap.String("task_queue", opts.TaskQueue)),
	}
	router.AddNoPublisherHandler(name, opts.TaskQueue, opts.Transport.Subscriber, w.dispatch)

	return w, nil
}

func (w *Worker) dispatch(msg *message.Message) error {
	task := msg.Metadata.Get(MetadataTaskName)
	h, ok := w.opts.Registry[task]
	if !ok {
		// A stray message must not wedge the queue: count it, ack it.
		metrics.ObserveTaskUnknown(w.opts.TaskQueue)
		w.log.Warn("no handler registered for task",
			zap.String("task", task),
			zap.String("message_uuid", msg.UUID),
		)
		return nil
	}

	metrics.ObserveTaskStart(w.opts.TaskQueue, task)
	start := time.Now()
	err := h(msg.Context(), msg.Payload)
	metrics.ObserveTaskDone(w.opts.TaskQueue, task, time.Since(start), err)
	if err != nil {
		w.log.Error("task handler failed",
			zap.String("task", task),
			zap.String("message_uuid", msg.UUID),
			zap.Error(err),
		)
	}
	return err
}

// Run enters the processing loop and blocks until the worker is stopped or
// the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	return w.router.Run(ctx)
}

// Running closes once the router has subscribed and is processing.
func (w *Worker) Running() <-chan struct{} {
	return w.router.Running()
}

// Handlers lists the registered task names, sorted.
func (w *Worker) Handlers() []string {
	return w.opts.Registry.Names()
}

// TaskQueue reports the queue this worker consumes.
func (w *Worker) TaskQueue() string {
	return w.opts.TaskQueue
}

// Stop closes the router, then the transport. Repeat calls are no-ops.
func (w *Worker) Stop() error {
	if !w.closed.CompareAndSwap(false, true) {
		return nil
	}
	routerErr := w.router.Close()
	if err := w.opts.Transport.Close(); err != nil && routerErr == nil {
		routerErr = err
	}
	return routerErr
}
