package ldm

import (
	"fmt"

	"github.com/bgrewell/diskimage-kit/pkg/bytestream"
	"github.com/bgrewell/diskimage-kit/pkg/consts"
	"github.com/bgrewell/diskimage-kit/pkg/validation"
)

// RecordType identifies the concrete shape of a VBLK record.
type RecordType uint8

const (
	RecordDiskGroup RecordType = iota
	RecordDisk
	RecordVolume
	RecordComponent
	RecordExtent
)

func (t RecordType) String() string {
	switch t {
	case RecordDiskGroup:
		return "DiskGroup"
	case RecordDisk:
		return "Disk"
	case RecordVolume:
		return "Volume"
	case RecordComponent:
		return "Component"
	case RecordExtent:
		return "Extent"
	default:
		return fmt.Sprintf("RecordType(%d)", uint8(t))
	}
}

// DatabaseRecord is implemented by every VBLK record type the database
// indexes. RecordID is the record's unique key within the database.
type DatabaseRecord interface {
	RecordID() uint64
	RecordType() RecordType
}

// DiskGroupRecord describes the disk group that owns every other record in
// the database.
type DiskGroupRecord struct {
	Id       uint64
	GroupGUID string
}

func (r DiskGroupRecord) RecordID() uint64     { return r.Id }
func (r DiskGroupRecord) RecordType() RecordType { return RecordDiskGroup }

// DiskRecord describes a physical disk contributing extents to the group.
type DiskRecord struct {
	Id uint64
}

func (r DiskRecord) RecordID() uint64     { return r.Id }
func (r DiskRecord) RecordType() RecordType { return RecordDisk }

// VolumeRecord describes a logical volume assembled from components.
type VolumeRecord struct {
	Id         uint64
	VolumeGUID string
}

func (r VolumeRecord) RecordID() uint64     { return r.Id }
func (r VolumeRecord) RecordType() RecordType { return RecordVolume }

// ComponentRecord describes one plex of a volume (the unit a mirror or
// stripe set is built from).
type ComponentRecord struct {
	Id       uint64
	VolumeId uint64
}

func (r ComponentRecord) RecordID() uint64     { return r.Id }
func (r ComponentRecord) RecordType() RecordType { return RecordComponent }

// ExtentRecord describes one contiguous run of sectors on a disk belonging
// to a component.
type ExtentRecord struct {
	Id          uint64
	ComponentId uint64
	DiskId      uint64
	Offset      uint64
	Length      uint64
}

func (r ExtentRecord) RecordID() uint64     { return r.Id }
func (r ExtentRecord) RecordType() RecordType { return RecordExtent }

const (
	recordSignature = consts.LDMRecordSignature
	guidFieldWidth  = 36
)

// parseBlock decodes one fixed-size VBLK block. An unrecognized signature or
// type tag is not an error: the caller skips it and moves on. A recognized
// type tag that fails to decode is a structural integrity violation and
// returns ErrCorruptDatabase.
func parseBlock(data []byte) (DatabaseRecord, error) {
	r := bytestream.NewReader(data)

	sig, err := r.ReadBytes(len(recordSignature))
	if err != nil {
		return nil, nil
	}
	if string(sig) != recordSignature {
		return nil, nil
	}

	typeTag, err := r.ReadU8()
	if err != nil {
		return nil, nil
	}

	id, err := r.ReadU64BE()
	if err != nil {
		return nil, fmt.Errorf("ldm: record id: %w", ErrCorruptDatabase)
	}

	switch RecordType(typeTag) {
	case RecordDiskGroup:
		guidStr, err := r.ReadString(guidFieldWidth)
		if err != nil {
			return nil, fmt.Errorf("ldm: disk group %d guid: %w", id, ErrCorruptDatabase)
		}
		if _, err := validation.ParseCanonicalGUID(guidStr); err != nil {
			return nil, fmt.Errorf("ldm: disk group %d guid %q: %w", id, guidStr, ErrCorruptDatabase)
		}
		return DiskGroupRecord{Id: id, GroupGUID: guidStr}, nil

	case RecordDisk:
		return DiskRecord{Id: id}, nil

	case RecordVolume:
		guidStr, err := r.ReadString(guidFieldWidth)
		if err != nil {
			return nil, fmt.Errorf("ldm: volume %d guid: %w", id, ErrCorruptDatabase)
		}
		if _, err := validation.ParseCanonicalGUID(guidStr); err != nil {
			return nil, fmt.Errorf("ldm: volume %d guid %q: %w", id, guidStr, ErrCorruptDatabase)
		}
		return VolumeRecord{Id: id, VolumeGUID: guidStr}, nil

	case RecordComponent:
		volumeId, err := r.ReadU64BE()
		if err != nil {
			return nil, fmt.Errorf("ldm: component %d volume id: %w", id, ErrCorruptDatabase)
		}
		return ComponentRecord{Id: id, VolumeId: volumeId}, nil

	case RecordExtent:
		componentId, err := r.ReadU64BE()
		if err != nil {
			return nil, fmt.Errorf("ldm: extent %d component id: %w", id, ErrCorruptDatabase)
		}
		diskId, err := r.ReadU64BE()
		if err != nil {
			return nil, fmt.Errorf("ldm: extent %d disk id: %w", id, ErrCorruptDatabase)
		}
		offset, err := r.ReadU64BE()
		if err != nil {
			return nil, fmt.Errorf("ldm: extent %d offset: %w", id, ErrCorruptDatabase)
		}
		length, err := r.ReadU64BE()
		if err != nil {
			return nil, fmt.Errorf("ldm: extent %d length: %w", id, ErrCorruptDatabase)
		}
		return ExtentRecord{Id: id, ComponentId: componentId, DiskId: diskId, Offset: offset, Length: length}, nil

	default:
		return nil, nil
	}
}
