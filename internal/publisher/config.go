package publisher

import "github.com/PetLucy/LunaHR-Linux/internal/errors"

const defaultQueueSize = 64

type Config struct {
	Host  string
	Ports []int
	// QueueSize bounds the dispatch queue; 0 selects the default
	QueueSize int
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Host == "" {
		return errFactory.WithMessage(ErrInvalidSink, "sink host must not be empty")
	}
	if len(c.Ports) == 0 {
		return errFactory.WithMessage(ErrInvalidSink, "at least one sink port is required")
	}
	for _, port := range c.Ports {
		if port < 1 || port > 65535 {
			return errFactory.WithData(ErrInvalidSink, port)
		}
	}

	return nil
}

func (c Config) queueSize() int {
	if c.QueueSize > 0 {
		return c.QueueSize
	}
	return defaultQueueSize
}
