package ldm

import "errors"

// ErrCorruptDatabase is returned for LDM structural integrity violations:
// a bad header signature, a duplicate record ID, or a recognized-type block
// that fails to decode.
var ErrCorruptDatabase = errors.New("ldm: corrupt database")

// ErrNotFound is returned by exact-ID/GUID lookups that find nothing, or
// find a record of the wrong type.
var ErrNotFound = errors.New("ldm: not found")
