// pkg/worker/enqueue.go
package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/oklog/ulid/v2"

	"github.com/joeydtaylor/steeze-worker/pkg/codec"
)

// ErrWorkerNotReady is returned when a task is enqueued before the worker
// (and with it the transport) has been constructed.
var ErrWorkerNotReady = errors.New("worker: not constructed yet")

// Enqueuer is the producing counterpart of the worker: it publishes named
// tasks onto the same queue the worker consumes, through the worker's own
// transport.
type Enqueuer struct {
	c     *Controller
	codec codec.Codec
}

func NewEnqueuer(c *Controller) *Enqueuer {
	return &Enqueuer{c: c, codec: codec.JSONStrict}
}

// Enqueue publishes one task by name and returns the message UUID.
func (e *Enqueuer) Enqueue(ctx context.Context, task string, args any) (string, error) {
	w := e.c.Handle()
	if w == nil {
		return "", ErrWorkerNotReady
	}

	payload, err := e.codec.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("encode task payload: %w", err)
	}

	msg := message.NewMessage(ulid.Make().String(), payload)
	msg.Metadata.Set(MetadataTaskName, task)
	msg.SetContext(ctx)

	if err := w.opts.Transport.Publisher.Publish(w.opts.TaskQueue, msg); err != nil {
		return "", fmt.Errorf("publish task %q: %w", task, err)
	}
	return msg.UUID, nil
}
