package catalog

import "errors"

var (
	// ErrInvalidArgument indicates an operation received a nil entity, an
	// entity that is not live in the catalog, or a reference to one.
	ErrInvalidArgument = errors.New("catalog: invalid argument")
	// ErrInvalidSize indicates text that does not name a Size.
	ErrInvalidSize = errors.New("catalog: invalid size")
	// ErrUnsupportedConversion indicates boundary input whose shape does not
	// match what the converter expects.
	ErrUnsupportedConversion = errors.New("catalog: unsupported conversion")
)
