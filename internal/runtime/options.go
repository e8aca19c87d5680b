package runtime

import (
	"log/slog"
	"time"

	"github.com/aretw0/metasim/internal/logging"
	"github.com/aretw0/metasim/pkg/domain"
	"github.com/aretw0/metasim/pkg/registry"
)

// ClassResolver validates the agent class named by a graph document and
// returns the identity the graph is tagged with.
type ClassResolver func(name string) (string, error)

type options struct {
	logger   *slog.Logger
	registry *registry.Registry
	resolver ClassResolver
	hooks    domain.Hooks
	now      func() time.Time
}

// Option configures graph building and decision making.
type Option func(*options)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRegistry sets the registry used to resolve default choice models.
func WithRegistry(r *registry.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithClassResolver sets how the 'class' attribute is resolved.
func WithClassResolver(r ClassResolver) Option {
	return func(o *options) {
		if r != nil {
			o.resolver = r
		}
	}
}

// WithHooks registers decision observability hooks.
func WithHooks(hooks domain.Hooks) Option {
	return func(o *options) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:   logging.NewNop(),
		resolver: func(name string) (string, error) { return name, nil },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = registry.NewRegistry()
	}
	return o
}
