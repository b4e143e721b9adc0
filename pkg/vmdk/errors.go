package vmdk

import "errors"

// ErrUnknownEnum is returned when a createType or adapterType token falls
// outside the closed set this package recognizes.
var ErrUnknownEnum = errors.New("vmdk: unknown enum value")

// ErrMalformedLine is returned when a descriptor line is neither a
// recognized extent line nor a KEY=VALUE pair.
var ErrMalformedLine = errors.New("vmdk: malformed line")

// ErrInvalidUUID is returned when a ddb.uuid value does not decode to a
// 16-byte identifier.
var ErrInvalidUUID = errors.New("vmdk: invalid uuid")
