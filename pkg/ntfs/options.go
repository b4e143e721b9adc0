package ntfs

import "github.com/bgrewell/diskimage-kit/pkg/logging"

// attributeOptions configures FromRecord via the functional-options pattern
// used throughout this module.
type attributeOptions struct {
	logger *logging.Logger
	strict bool
}

func defaultAttributeOptions() *attributeOptions {
	return &attributeOptions{logger: logging.DefaultLogger()}
}

// AttributeOption configures a FromRecord call.
type AttributeOption func(*attributeOptions)

// WithLogger overrides the default discard logger.
func WithLogger(logger *logging.Logger) AttributeOption {
	return func(o *attributeOptions) {
		o.logger = logger
	}
}

// WithStrictRemoval makes RemoveExtent fail on a missing reference instead
// of silently no-oping. Default is non-strict.
func WithStrictRemoval() AttributeOption {
	return func(o *attributeOptions) {
		o.strict = true
	}
}
