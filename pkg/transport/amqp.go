// pkg/transport/amqp.go
package transport

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/v3/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/joeydtaylor/steeze-worker/pkg/config"
)

// Factory seams for tests; production code never touches these.
var (
	amqpConnectionFactory = func(cfg amqp.ConnectionConfig, logger watermill.LoggerAdapter) (*amqp.ConnectionWrapper, error) {
		return amqp.NewConnection(cfg, logger)
	}
	amqpPublisherFactory = func(cfg amqp.Config, logger watermill.LoggerAdapter, conn *amqp.ConnectionWrapper) (message.Publisher, error) {
		return amqp.NewPublisherWithConnection(cfg, logger, conn)
	}
	amqpSubscriberFactory = func(cfg amqp.Config, logger watermill.LoggerAdapter, conn *amqp.ConnectionWrapper) (message.Subscriber, error) {
		return amqp.NewSubscriberWithConnection(cfg, logger, conn)
	}
)

// connectAMQP builds publisher and subscriber on one shared connection.
// Durable queue config gives competing-consumer semantics: every message is
// delivered to exactly one worker on the queue.
func connectAMQP(ctx context.Context, cfg config.TransportConfig, logger watermill.LoggerAdapter) (Transport, error) {
	amqpConfig := amqp.NewDurableQueueConfig(cfg.URL)

	conn, err := amqpConnectionFactory(amqp.ConnectionConfig{
		AmqpURI:   cfg.URL,
		Reconnect: amqp.DefaultReconnectConfig(),
	}, logger)
	if err != nil {
		return Transport{}, err
	}

	publisher, err := amqpPublisherFactory(amqpConfig, logger, conn)
	if err != nil {
		_ = conn.Close()
		return Transport{}, err
	}

	subscriber, err := amqpSubscriberFactory(amqpConfig, logger, conn)
	if err != nil {
		_ = conn.Close()
		return Transport{}, err
	}

	return Transport{
		Publisher:  publisher,
		Subscriber: subscriber,
		closer:     conn.Close,
	}, nil
}
