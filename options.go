package catalog

import (
	"log/slog"

	"github.com/goliatone/go-catalog/pkg/activity"
)

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	logger  *slog.Logger
	emitter *activity.Emitter
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// WithLogger sets the logger used to trace mutations.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *storeConfig) {
		cfg.logger = logger
	}
}

// WithActivity forwards every mutation to emitter as an activity event.
func WithActivity(emitter *activity.Emitter) Option {
	return func(cfg *storeConfig) {
		cfg.emitter = emitter
	}
}
