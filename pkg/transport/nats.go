// pkg/transport/nats.go
package transport

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/joeydtaylor/steeze-worker/pkg/config"
)

var (
	natsPublisherFactory = func(cfg nats.PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
		return nats.NewPublisher(cfg, logger)
	}
	natsSubscriberFactory = func(cfg nats.SubscriberConfig, logger watermill.LoggerAdapter) (message.Subscriber, error) {
		return nats.NewSubscriber(cfg, logger)
	}
)

func connectNATS(ctx context.Context, cfg config.TransportConfig, logger watermill.LoggerAdapter) (Transport, error) {
	marshaler := &nats.NATSMarshaler{}

	publisher, err := natsPublisherFactory(nats.PublisherConfig{
		URL:       cfg.URL,
		Marshaler: marshaler,
	}, logger)
	if err != nil {
		return Transport{}, err
	}

	subscriber, err := natsSubscriberFactory(nats.SubscriberConfig{
		URL:         cfg.URL,
		Unmarshaler: marshaler,
	}, logger)
	if err != nil {
		_ = publisher.Close()
		return Transport{}, err
	}

	return Transport{
		Publisher:  publisher,
		Subscriber: subscriber,
		closer: func() error {
			subErr := subscriber.Close()
			if err := publisher.Close(); err != nil {
				return err
			}
			return subErr
		},
	}, nil
}
