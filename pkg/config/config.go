// pkg/config/config.go
package config

// Config is the top-level worker manifest. The three sections are
// independently optional: a nil section means "skip that concern".
//
//   - Worker drives construction; without a task queue the coordinator
//     never builds a worker.
//   - Transport, when present, triggers a broker connection during
//     construction. Absent, the in-memory channel transport is used.
//   - Runtime, when present, triggers the one-time process-wide runtime
//     install and (optionally) the ops HTTP listener.
type Config struct {
	Worker    *WorkerConfig    `toml:"worker"`
	Transport *TransportConfig `toml:"transport"`
	Runtime   *RuntimeConfig   `toml:"runtime"`
}

// WorkerConfig shapes the worker itself.
type WorkerConfig struct {
	// TaskQueue is the queue/topic the worker consumes. Empty means the
	// worker is deliberately not configured; construction is skipped.
	TaskQueue string `toml:"task_queue"`

	// Name tags logs and metrics. Defaults to the task queue name.
	Name string `toml:"name"`

	// MaxRetries enables the retry middleware when > 0.
	MaxRetries int `toml:"max_retries"`

	// Providers is an optional allow-list of provider type names
	// (e.g. "*mailer.Mailer"). Empty admits every registered provider.
	Providers []string `toml:"providers"`
}

// TransportConfig selects the broker connection.
type TransportConfig struct {
	Kind string `toml:"kind"` // amqp | nats | channel
	URL  string `toml:"url"`
}

// RuntimeConfig drives the one-time process-wide install.
type RuntimeConfig struct {
	LogFile          string `toml:"log_file"`
	OpsListenAddress string `toml:"ops_listen_address"`
}

// QueueName returns the configured task queue, or "" when the worker
// section is absent. The zero value is the "skip construction" signal.
func (c Config) QueueName() string {
	if c.Worker == nil {
		return ""
	}
	return c.Worker.TaskQueue
}

// WorkerName returns the log/metrics tag for the worker.
func (c Config) WorkerName() string {
	if c.Worker == nil {
		return ""
	}
	if c.Worker.Name != "" {
		return c.Worker.Name
	}
	return c.Worker.TaskQueue
}
