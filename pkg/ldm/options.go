package ldm

import "github.com/bgrewell/diskimage-kit/pkg/logging"

// loadOptions configures Load via the functional-options pattern used
// throughout this module.
type loadOptions struct {
	logger *logging.Logger
}

func defaultLoadOptions() *loadOptions {
	return &loadOptions{logger: logging.DefaultLogger()}
}

// LoadOption configures a Load call.
type LoadOption func(*loadOptions)

// WithLogger overrides the default discard logger used while loading.
func WithLogger(logger *logging.Logger) LoadOption {
	return func(o *loadOptions) {
		o.logger = logger
	}
}
