// pkg/transport/transport.go
package transport

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/joeydtaylor/steeze-worker/pkg/config"
)

// Transport is an established broker connection: one publisher for the
// enqueue path, one subscriber for the worker, and a close hook that tears
// both down along with any shared connection.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber

	closer func() error
}

func (t Transport) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer()
}

// New wraps an externally-constructed publisher/subscriber pair. The closer
// may be nil when the caller owns teardown.
func New(pub message.Publisher, sub message.Subscriber, closer func() error) Transport {
	return Transport{Publisher: pub, Subscriber: sub, closer: closer}
}

// Connect establishes the transport selected by the manifest. The caller
// decides whether a transport section exists at all; absence of one is
// handled upstream with NewChannel.
func Connect(ctx context.Context, cfg config.TransportConfig, logger watermill.LoggerAdapter) (Transport, error) {
	switch cfg.Kind {
	case config.TransportAMQP:
		return connectAMQP(ctx, cfg, logger)
	case config.TransportNATS:
		return connectNATS(ctx, cfg, logger)
	case config.TransportChannel:
		return NewChannel(logger), nil
	default:
		return Transport{}, fmt.Errorf("transport: unknown kind %q", cfg.Kind)
	}
}
