package session

import "log/slog"

const defaultSubscriberBuffer = 16

type managerConfig struct {
	store            Store
	api              APIClient
	log              *slog.Logger
	subscriberBuffer int
}

func defaultConfig() *managerConfig {
	return &managerConfig{
		log:              discard,
		subscriberBuffer: defaultSubscriberBuffer,
	}
}

// Option is a functional option for configuring the session manager.
type Option func(*managerConfig)

// WithStore sets the persisted session store. Required.
func WithStore(store Store) Option {
	return func(c *managerConfig) {
		c.store = store
	}
}

// WithAPIClient sets the LMS API client. Required.
func WithAPIClient(api APIClient) Option {
	return func(c *managerConfig) {
		c.api = api
	}
}

// WithLogger configures structured logging. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *managerConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithSubscriberBuffer sets the buffer size of subscriber channels
// returned by Subscribe. Slow subscribers miss snapshots beyond the
// buffer instead of blocking transitions.
func WithSubscriberBuffer(size int) Option {
	return func(c *managerConfig) {
		if size > 0 {
			c.subscriberBuffer = size
		}
	}
}
