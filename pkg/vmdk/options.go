package vmdk

import "github.com/bgrewell/diskimage-kit/pkg/logging"

// parseOptions holds the configuration ParseDescriptorFile and
// NewDescriptorFile accept, via the functional-options pattern used
// throughout this module.
type parseOptions struct {
	logger *logging.Logger
}

func defaultParseOptions() *parseOptions {
	return &parseOptions{logger: logging.DefaultLogger()}
}

// ParseOption configures descriptor parsing/construction.
type ParseOption func(*parseOptions)

// WithLogger overrides the default discard logger.
func WithLogger(logger *logging.Logger) ParseOption {
	return func(o *parseOptions) {
		o.logger = logger
	}
}
