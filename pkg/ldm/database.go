// Package ldm decodes the Logical Disk Manager dynamic-disk database: a
// fixed header followed by a run of fixed-size VBLK records describing disk
// groups, disks, volumes, components and extents.
package ldm

import (
	"fmt"
	"io"

	"github.com/bgrewell/diskimage-kit/pkg/bytestream"
	"github.com/bgrewell/diskimage-kit/pkg/consts"
	"github.com/bgrewell/diskimage-kit/pkg/logging"
	"github.com/bgrewell/diskimage-kit/pkg/validation"
)

// Database is the decoded VMDB region: every record keyed by its unique ID,
// plus a type index built once at Load time so queries never rescan the
// full record set.
type Database struct {
	header  DatabaseHeader
	records map[uint64]DatabaseRecord
	byType  map[RecordType][]uint64
	logger  *logging.Logger
}

// Load reads the header at the stream's current position, then walks
// NumVBlks fixed-size blocks immediately following it, indexing every
// record it recognizes. Unknown block types are skipped; a recognized type
// that fails to decode, or a duplicate record ID, fails the whole load with
// ErrCorruptDatabase.
func Load(stream bytestream.Stream, opts ...LoadOption) (*Database, error) {
	o := defaultLoadOptions()
	for _, opt := range opts {
		opt(o)
	}

	dbStart, err := stream.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("ldm: locating database start: %w", err)
	}

	headerBuf := make([]byte, headerSizeOnDisk())
	if _, err := stream.ReadAt(headerBuf, dbStart); err != nil {
		return nil, fmt.Errorf("ldm: reading header: %w", err)
	}
	header, err := unmarshalHeader(headerBuf)
	if err != nil {
		return nil, err
	}

	db := &Database{
		header:  header,
		records: make(map[uint64]DatabaseRecord, header.NumVBlks),
		byType:  make(map[RecordType][]uint64),
		logger:  o.logger,
	}

	blockBuf := make([]byte, header.BlockSize)
	base := dbStart + int64(header.HeaderSize)
	for i := uint32(0); i < header.NumVBlks; i++ {
		off := base + int64(i)*int64(header.BlockSize)
		if _, err := stream.ReadAt(blockBuf, off); err != nil {
			return nil, fmt.Errorf("ldm: reading block %d at offset %d: %w", i, off, err)
		}

		rec, err := parseBlock(blockBuf)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			db.logger.Debug("skipping unrecognized VBLK block", "index", i, "offset", off)
			continue
		}

		id := rec.RecordID()
		if _, exists := db.records[id]; exists {
			return nil, fmt.Errorf("ldm: duplicate record id %d: %w", id, ErrCorruptDatabase)
		}
		db.records[id] = rec
		db.byType[rec.RecordType()] = append(db.byType[rec.RecordType()], id)
	}

	return db, nil
}

func headerSizeOnDisk() int {
	return consts.LDMHeaderSize
}

// HeaderSize returns the VMDB header's declared size in bytes.
func (db *Database) HeaderSize() uint32 { return db.header.HeaderSize }

// BlockSize returns the fixed size of every VBLK record in bytes.
func (db *Database) BlockSize() uint32 { return db.header.BlockSize }

// NumVBlks returns the number of blocks the header declared, including any
// that were skipped as unrecognized.
func (db *Database) NumVBlks() uint32 { return db.header.NumVBlks }

func (db *Database) recordsOfType(t RecordType) []DatabaseRecord {
	ids := db.byType[t]
	out := make([]DatabaseRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, db.records[id])
	}
	return out
}

// DiskGroups returns every disk group record in the database.
func (db *Database) DiskGroups() []DiskGroupRecord {
	return typedRecords[DiskGroupRecord](db, RecordDiskGroup)
}

// GetDiskGroup looks up a disk group by its canonicalized GUID, unlike
// GetDisk/GetVolume which key on the record's numeric ID.
func (db *Database) GetDiskGroup(guid string) (DiskGroupRecord, error) {
	for _, id := range db.byType[RecordDiskGroup] {
		g := db.records[id].(DiskGroupRecord)
		if validation.GUIDsEqual(g.GroupGUID, guid) {
			return g, nil
		}
	}
	return DiskGroupRecord{}, fmt.Errorf("ldm: disk group %q: %w", guid, ErrNotFound)
}

// Disks returns every disk record in the database.
func (db *Database) Disks() []DiskRecord {
	return typedRecords[DiskRecord](db, RecordDisk)
}

// GetDisk looks up a disk by ID.
func (db *Database) GetDisk(id uint64) (DiskRecord, error) {
	return getTyped[DiskRecord](db, id, RecordDisk)
}

// Volumes returns every volume record in the database.
func (db *Database) Volumes() []VolumeRecord {
	return typedRecords[VolumeRecord](db, RecordVolume)
}

// GetVolume looks up a volume by ID.
func (db *Database) GetVolume(id uint64) (VolumeRecord, error) {
	return getTyped[VolumeRecord](db, id, RecordVolume)
}

// GetVolumeComponents returns every component belonging to the volume
// identified by volumeId, in index order.
func (db *Database) GetVolumeComponents(volumeId uint64) []ComponentRecord {
	var out []ComponentRecord
	for _, rec := range db.recordsOfType(RecordComponent) {
		c := rec.(ComponentRecord)
		if c.VolumeId == volumeId {
			out = append(out, c)
		}
	}
	return out
}

// GetComponentExtents returns every extent belonging to the component
// identified by componentId, in index order.
func (db *Database) GetComponentExtents(componentId uint64) []ExtentRecord {
	var out []ExtentRecord
	for _, rec := range db.recordsOfType(RecordExtent) {
		e := rec.(ExtentRecord)
		if e.ComponentId == componentId {
			out = append(out, e)
		}
	}
	return out
}

// FindRecord scans every record of T's underlying RecordType for the first
// one matching pred. It materializes no intermediate slice beyond what
// typedRecords already builds.
func FindRecord[T DatabaseRecord](db *Database, recordType RecordType, pred func(T) bool) (T, bool) {
	for _, id := range db.byType[recordType] {
		if t, ok := db.records[id].(T); ok && pred(t) {
			return t, true
		}
	}
	var zero T
	return zero, false
}

func typedRecords[T DatabaseRecord](db *Database, recordType RecordType) []T {
	ids := db.byType[recordType]
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, db.records[id].(T))
	}
	return out
}

func getTyped[T DatabaseRecord](db *Database, id uint64, recordType RecordType) (T, error) {
	var zero T
	rec, ok := db.records[id]
	if !ok {
		return zero, fmt.Errorf("ldm: record %d: %w", id, ErrNotFound)
	}
	t, ok := rec.(T)
	if !ok {
		return zero, fmt.Errorf("ldm: record %d is a %s, not a %s: %w", id, rec.RecordType(), recordType, ErrNotFound)
	}
	return t, nil
}
