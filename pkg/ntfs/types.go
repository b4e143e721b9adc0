// Package ntfs models the NTFS attribute abstraction: resident and
// non-resident attribute records unified behind one logical view keyed by
// (containing file, attribute id), with VCN-based extent lookup and a
// sparse data-buffer stream.
package ntfs

import (
	"io"

	"github.com/bgrewell/diskimage-kit/pkg/bytestream"
)

// AttributeType is the closed set of NTFS attribute kinds this model
// dispatches structured parsing over.
type AttributeType uint8

const (
	StandardInformation AttributeType = iota
	FileName
	SecurityDescriptor
	VolumeName
	VolumeInformation
	ObjectID
	ReparsePoint
	AttributeList
	Data
	Bitmap
	IndexRoot
	IndexAllocation
	Unknown
)

func (t AttributeType) String() string {
	switch t {
	case StandardInformation:
		return "STANDARD_INFORMATION"
	case FileName:
		return "FILE_NAME"
	case SecurityDescriptor:
		return "SECURITY_DESCRIPTOR"
	case VolumeName:
		return "VOLUME_NAME"
	case VolumeInformation:
		return "VOLUME_INFORMATION"
	case ObjectID:
		return "OBJECT_ID"
	case ReparsePoint:
		return "REPARSE_POINT"
	case AttributeList:
		return "ATTRIBUTE_LIST"
	case Data:
		return "DATA"
	case Bitmap:
		return "BITMAP"
	case IndexRoot:
		return "INDEX_ROOT"
	case IndexAllocation:
		return "INDEX_ALLOCATION"
	default:
		return "UNKNOWN"
	}
}

// FileRecordReference identifies one MFT record: its segment number plus the
// sequence number that detects stale references after record reuse.
type FileRecordReference struct {
	SegmentNumber  uint64
	SequenceNumber uint16
}

// AttributeReference identifies one attribute extent across MFT-record
// boundaries. It is comparable and used directly as a map key.
type AttributeReference struct {
	ContainingFile FileRecordReference
	AttributeID    uint16
}

// ClusterRun is one run-length-encoded span of an attribute's non-resident
// data: LogicalCluster is the run's starting LCN, or negative for a sparse
// (unallocated) run.
type ClusterRun struct {
	LogicalCluster int64
	RunLength      uint64
}

// AttributeRecord is the opaque record an MFT-record parser hands to this
// model: either a ResidentAttributeRecord or a NonResidentAttributeRecord.
type AttributeRecord interface {
	Type() AttributeType
	ID() uint16
	Name() string
	Flags() uint16
	DataLength() uint64
	IsNonResident() bool
	GetClusters() []ClusterRun
	Dump(w io.Writer, indent int) error
}

// ContainingFile is the minimal surface an NtfsAttribute needs from the MFT
// record that houses it.
type ContainingFile interface {
	// BytesPerCluster reports the volume's cluster size, used to translate
	// non-resident VCNs into absolute byte positions.
	BytesPerCluster() uint64
	// AttributeOffset resolves ref to the absolute volume byte position of
	// the attribute. NtfsAttribute.OffsetToAbsolutePos adds a resident
	// offset to this value as-is; it does not translate a record-relative
	// offset through the volume's $MFT Data attribute.
	AttributeOffset(ref AttributeReference) (uint64, error)
	// VolumeStream returns the underlying volume's byte stream, used to
	// satisfy non-resident reads/writes once an offset has been translated
	// to an absolute position. The attribute never owns or closes it.
	VolumeStream() (bytestream.Stream, error)
}
