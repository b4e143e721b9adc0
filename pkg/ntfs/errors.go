package ntfs

import "errors"

// ErrDuplicateExtent is returned by AddExtent when the given reference is
// already present in the attribute's extent map.
var ErrDuplicateExtent = errors.New("ntfs: duplicate extent")

// ErrResidentHasNoVcn is returned by GetNonResidentExtent when any extent in
// the attribute's map is resident.
var ErrResidentHasNoVcn = errors.New("ntfs: resident attribute has no vcn")

// ErrOutOfRange is returned when a requested VCN or byte offset falls
// outside every extent the attribute knows about.
var ErrOutOfRange = errors.New("ntfs: out of range")

// ErrInconsistentExtents is returned by FirstExtent/LastExtent when the
// extent map contains no candidate satisfying the selector's rule.
var ErrInconsistentExtents = errors.New("ntfs: inconsistent extents")
