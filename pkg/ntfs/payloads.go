package ntfs

import (
	"fmt"

	"github.com/bgrewell/diskimage-kit/pkg/bytestream"
)

// Payload is the structured view produced for the closed set of attribute
// types this package knows how to decode (StandardInformation, FileName,
// SecurityDescriptor, VolumeName, VolumeInformation, ObjectID, ReparsePoint,
// AttributeList). Attribute types
// without a structured parser (Data, Bitmap, IndexRoot, IndexAllocation,
// and anything else) get RawPayload instead.
type Payload interface {
	isPayload()
}

// RawPayload wraps an attribute's bytes with no structured interpretation,
// the fallback arm of the dispatch table.
type RawPayload struct {
	Data []byte
}

func (RawPayload) isPayload() {}

// StandardInformationPayload is the $STANDARD_INFORMATION timestamp and DOS
// attribute-flag block.
type StandardInformationPayload struct {
	CreationTime   uint64
	ModifiedTime   uint64
	MFTChangedTime uint64
	AccessedTime   uint64
	DOSFlags       uint32
}

func (StandardInformationPayload) isPayload() {}

// FileNamePayload is one $FILE_NAME entry: the parent directory reference
// plus the name string it attaches in that directory.
type FileNamePayload struct {
	ParentRef FileRecordReference
	Name      string
}

func (FileNamePayload) isPayload() {}

// SecurityDescriptorPayload wraps an inline $SECURITY_DESCRIPTOR's raw bytes,
// self-relative security descriptor parsing being out of scope here.
type SecurityDescriptorPayload struct {
	Raw []byte
}

func (SecurityDescriptorPayload) isPayload() {}

// VolumeNamePayload is the $VOLUME_NAME attribute's label string.
type VolumeNamePayload struct {
	Name string
}

func (VolumeNamePayload) isPayload() {}

// VolumeInformationPayload is the $VOLUME_INFORMATION version/flags block.
type VolumeInformationPayload struct {
	MajorVersion uint8
	MinorVersion uint8
	Flags        uint16
}

func (VolumeInformationPayload) isPayload() {}

// ObjectIDPayload is the $OBJECT_ID attribute's four distributed-link-
// tracking GUIDs (the latter three are zero when absent).
type ObjectIDPayload struct {
	ObjectGUID          [16]byte
	BirthVolumeGUID     [16]byte
	BirthObjectGUID     [16]byte
	DomainGUID          [16]byte
}

func (ObjectIDPayload) isPayload() {}

// ReparsePointPayload is the $REPARSE_POINT tag plus opaque reparse data.
type ReparsePointPayload struct {
	Tag  uint32
	Data []byte
}

func (ReparsePointPayload) isPayload() {}

// AttributeListEntryPayload is one pointer within an $ATTRIBUTE_LIST to an
// extent living in another MFT record.
type AttributeListEntryPayload struct {
	AttrType AttributeType
	Ref      AttributeReference
}

// AttributeListPayload is the full set of extent pointers an
// $ATTRIBUTE_LIST attribute enumerates.
type AttributeListPayload struct {
	Entries []AttributeListEntryPayload
}

func (AttributeListPayload) isPayload() {}

// dispatchPayload implements the closed-set structured-parse table:
// resident records with a recognized type get a typed payload; everything
// else (non-resident records, and resident records of an unstructured
// type) gets RawPayload.
func dispatchPayload(record AttributeRecord) (Payload, error) {
	resident, ok := record.(*ResidentAttributeRecord)
	if !ok {
		return RawPayload{}, nil
	}

	switch record.Type() {
	case StandardInformation:
		return parseStandardInformation(resident.RawData)
	case FileName:
		return parseFileName(resident.RawData)
	case SecurityDescriptor:
		return SecurityDescriptorPayload{Raw: resident.RawData}, nil
	case VolumeName:
		return VolumeNamePayload{Name: string(resident.RawData)}, nil
	case VolumeInformation:
		return parseVolumeInformation(resident.RawData)
	case ObjectID:
		return parseObjectID(resident.RawData)
	case ReparsePoint:
		return parseReparsePoint(resident.RawData)
	case AttributeList:
		return parseAttributeList(resident.RawData)
	default:
		return RawPayload{Data: resident.RawData}, nil
	}
}

func parseStandardInformation(data []byte) (Payload, error) {
	r := bytestream.NewReader(data)
	created, err := r.ReadU64LE()
	if err != nil {
		return nil, fmt.Errorf("ntfs: standard information creation time: %w", err)
	}
	modified, err := r.ReadU64LE()
	if err != nil {
		return nil, fmt.Errorf("ntfs: standard information modified time: %w", err)
	}
	mftChanged, err := r.ReadU64LE()
	if err != nil {
		return nil, fmt.Errorf("ntfs: standard information mft changed time: %w", err)
	}
	accessed, err := r.ReadU64LE()
	if err != nil {
		return nil, fmt.Errorf("ntfs: standard information accessed time: %w", err)
	}
	flags, err := r.ReadU32LE()
	if err != nil {
		return nil, fmt.Errorf("ntfs: standard information dos flags: %w", err)
	}
	return StandardInformationPayload{
		CreationTime:   created,
		ModifiedTime:   modified,
		MFTChangedTime: mftChanged,
		AccessedTime:   accessed,
		DOSFlags:       flags,
	}, nil
}

func parseFileName(data []byte) (Payload, error) {
	r := bytestream.NewReader(data)
	segment, err := r.ReadU64LE()
	if err != nil {
		return nil, fmt.Errorf("ntfs: file name parent segment: %w", err)
	}
	sequence, err := r.ReadU16LE()
	if err != nil {
		return nil, fmt.Errorf("ntfs: file name parent sequence: %w", err)
	}
	nameLen, err := r.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("ntfs: file name length: %w", err)
	}
	name, err := r.ReadString(int(nameLen) * 2)
	if err != nil {
		return nil, fmt.Errorf("ntfs: file name characters: %w", err)
	}
	return FileNamePayload{
		ParentRef: FileRecordReference{SegmentNumber: segment, SequenceNumber: sequence},
		Name:      name,
	}, nil
}

func parseVolumeInformation(data []byte) (Payload, error) {
	r := bytestream.NewReader(data)
	major, err := r.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("ntfs: volume information major version: %w", err)
	}
	minor, err := r.ReadU8()
	if err != nil {
		return nil, fmt.Errorf("ntfs: volume information minor version: %w", err)
	}
	flags, err := r.ReadU16LE()
	if err != nil {
		return nil, fmt.Errorf("ntfs: volume information flags: %w", err)
	}
	return VolumeInformationPayload{MajorVersion: major, MinorVersion: minor, Flags: flags}, nil
}

func parseObjectID(data []byte) (Payload, error) {
	r := bytestream.NewReader(data)
	var guids [4][16]byte
	for i := range guids {
		if i > 0 && r.Remaining() == 0 {
			break
		}
		b, err := r.ReadBytes(16)
		if err != nil {
			return nil, fmt.Errorf("ntfs: object id guid %d: %w", i, err)
		}
		copy(guids[i][:], b)
	}
	return ObjectIDPayload{
		ObjectGUID:      guids[0],
		BirthVolumeGUID: guids[1],
		BirthObjectGUID: guids[2],
		DomainGUID:      guids[3],
	}, nil
}

func parseReparsePoint(data []byte) (Payload, error) {
	r := bytestream.NewReader(data)
	tag, err := r.ReadU32LE()
	if err != nil {
		return nil, fmt.Errorf("ntfs: reparse point tag: %w", err)
	}
	rest, err := r.ReadBytes(r.Remaining())
	if err != nil {
		return nil, fmt.Errorf("ntfs: reparse point data: %w", err)
	}
	return ReparsePointPayload{Tag: tag, Data: rest}, nil
}

func parseAttributeList(data []byte) (Payload, error) {
	r := bytestream.NewReader(data)
	var entries []AttributeListEntryPayload
	for r.Remaining() >= 13 {
		typeTag, err := r.ReadU8()
		if err != nil {
			return nil, fmt.Errorf("ntfs: attribute list entry type: %w", err)
		}
		segment, err := r.ReadU64LE()
		if err != nil {
			return nil, fmt.Errorf("ntfs: attribute list entry segment: %w", err)
		}
		sequence, err := r.ReadU16LE()
		if err != nil {
			return nil, fmt.Errorf("ntfs: attribute list entry sequence: %w", err)
		}
		attrID, err := r.ReadU16LE()
		if err != nil {
			return nil, fmt.Errorf("ntfs: attribute list entry attribute id: %w", err)
		}
		entries = append(entries, AttributeListEntryPayload{
			AttrType: AttributeType(typeTag),
			Ref: AttributeReference{
				ContainingFile: FileRecordReference{SegmentNumber: segment, SequenceNumber: sequence},
				AttributeID:    attrID,
			},
		})
	}
	return AttributeListPayload{Entries: entries}, nil
}
