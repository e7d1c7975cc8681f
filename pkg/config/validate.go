// pkg/config/validate.go
package config

import (
	"errors"
	"fmt"
)

// Transport kinds understood by pkg/transport.
const (
	TransportAMQP    = "amqp"
	TransportNATS    = "nats"
	TransportChannel = "channel"
)

var errTransportKind = errors.New("transport: unknown kind")

// Validate checks structural invariants only. Presence/absence branching is
// the lifecycle controller's job, not the manifest's.
func (c *Config) Validate() error {
	if c.Transport != nil {
		if err := c.Transport.validate(); err != nil {
			return err
		}
	}
	if c.Worker != nil && c.Worker.MaxRetries < 0 {
		return fmt.Errorf("worker: max_retries must be >= 0, got %d", c.Worker.MaxRetries)
	}
	return nil
}

func (t *TransportConfig) validate() error {
	switch t.Kind {
	case TransportAMQP, TransportNATS:
		if t.URL == "" {
			return fmt.Errorf("transport: kind %q requires a url", t.Kind)
		}
	case TransportChannel:
		// in-memory; url ignored
	default:
		return fmt.Errorf("%w: %q (want amqp, nats, or channel)", errTransportKind, t.Kind)
	}
	return nil
}
