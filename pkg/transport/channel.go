// pkg/transport/channel.go
package transport

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewChannel returns the in-memory transport used when no transport section
// is configured, and by tests. Publisher and subscriber are the same
// gochannel instance, so enqueued tasks reach the worker in-process.
func NewChannel(logger watermill.LoggerAdapter) Transport {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, logger)
	return Transport{
		Publisher:  pubSub,
		Subscriber: pubSub,
		closer:     pubSub.Close,
	}
}
