package workpool

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultQueueSize bounds the submission queue when the config leaves it
// unset.
const DefaultQueueSize = 256

// Config describes a worker pool.
type Config struct {
	// Name identifies the pool in logs and worker annotations.
	Name string `yaml:"name"`
	// Workers is the fixed number of worker goroutines.
	Workers int `yaml:"workers"`
	// QueueSize bounds the number of queued, not-yet-running jobs. Zero
	// means DefaultQueueSize.
	QueueSize int `yaml:"queue_size"`
}

// Validate reports whether the config describes a runnable pool.
func (c Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("%w: queue_size must not be negative, got %d", ErrInvalidConfig, c.QueueSize)
	}
	return nil
}

// ParseConfig unmarshals a YAML pool config and validates it.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
