package ntfs

import (
	"fmt"
	"io"

	"github.com/bgrewell/diskimage-kit/pkg/consts"
	"github.com/bgrewell/diskimage-kit/pkg/logging"
)

// NtfsAttribute is the unified logical view over one or more AttributeRecord
// extents describing the same attribute, possibly spread across several MFT
// records via an AttributeList.
type NtfsAttribute struct {
	primary        AttributeRecord
	containingFile FileRecordReference
	extents        map[AttributeReference]AttributeRecord
	payload        Payload
	file           ContainingFile
	strict         bool
	logger         *logging.Logger
}

// FromRecord constructs the initial single-extent view of an attribute from
// its first known record, dispatching a structured Payload parse per the
// closed AttributeType table.
func FromRecord(file ContainingFile, containingFileRef FileRecordReference, record AttributeRecord, opts ...AttributeOption) (*NtfsAttribute, error) {
	o := defaultAttributeOptions()
	for _, opt := range opts {
		opt(o)
	}

	payload, err := dispatchPayload(record)
	if err != nil {
		return nil, err
	}

	ref := AttributeReference{ContainingFile: containingFileRef, AttributeID: record.ID()}
	a := &NtfsAttribute{
		primary:        record,
		containingFile: containingFileRef,
		extents:        map[AttributeReference]AttributeRecord{ref: record},
		payload:        payload,
		file:           file,
		strict:         o.strict,
		logger:         o.logger,
	}
	a.logger.Debug("constructed ntfs attribute", "type", record.Type(), "id", record.ID(), "nonResident", record.IsNonResident())
	return a, nil
}

// Reference returns (containingFile, primary.ID()), the attribute's own
// identity within its volume.
func (a *NtfsAttribute) Reference() AttributeReference {
	return AttributeReference{ContainingFile: a.containingFile, AttributeID: a.primary.ID()}
}

// Type returns the primary record's attribute type.
func (a *NtfsAttribute) Type() AttributeType { return a.primary.Type() }

// Payload returns the structured payload parsed from the primary record, or
// RawPayload if the type has no structured parser.
func (a *NtfsAttribute) Payload() Payload { return a.payload }

// Extents returns every (reference, record) pair currently in the
// attribute's extent map. The returned map is a snapshot copy; mutating it
// does not affect the attribute.
func (a *NtfsAttribute) Extents() map[AttributeReference]AttributeRecord {
	out := make(map[AttributeReference]AttributeRecord, len(a.extents))
	for k, v := range a.extents {
		out[k] = v
	}
	return out
}

// AddExtent inserts a new extent. It fails with ErrDuplicateExtent if ref is
// already present.
func (a *NtfsAttribute) AddExtent(ref AttributeReference, record AttributeRecord) error {
	if _, exists := a.extents[ref]; exists {
		return fmt.Errorf("ntfs: extent %+v already present: %w", ref, ErrDuplicateExtent)
	}
	a.extents[ref] = record
	return nil
}

// RemoveExtent removes ref from the extent map. Absence is a silent no-op
// unless the attribute was built WithStrictRemoval, in which case it is
// treated as a programmer error and returns ErrOutOfRange.
func (a *NtfsAttribute) RemoveExtent(ref AttributeReference) error {
	if _, exists := a.extents[ref]; !exists {
		if a.strict {
			return fmt.Errorf("ntfs: removing absent extent %+v: %w", ref, ErrOutOfRange)
		}
		return nil
	}
	delete(a.extents, ref)
	return nil
}

// SetExtent clears every extent and replaces the map with the single given
// pair, making it the new primary record and containing-file reference.
func (a *NtfsAttribute) SetExtent(ref AttributeReference, record AttributeRecord) error {
	payload, err := dispatchPayload(record)
	if err != nil {
		return err
	}
	a.extents = map[AttributeReference]AttributeRecord{ref: record}
	a.primary = record
	a.containingFile = ref.ContainingFile
	a.payload = payload
	return nil
}

// ReplaceExtent removes oldRef and inserts (newRef, record). It returns
// false if oldRef was not present, leaving the attribute unchanged. If
// oldRef was the attribute's own reference, or the extent map is empty just
// prior to reinsertion, the primary record and containing-file reference
// are updated to match the new extent.
func (a *NtfsAttribute) ReplaceExtent(oldRef, newRef AttributeReference, record AttributeRecord) (bool, error) {
	if _, exists := a.extents[oldRef]; !exists {
		return false, nil
	}
	wasPrimary := oldRef == a.Reference()
	delete(a.extents, oldRef)
	becameEmpty := len(a.extents) == 0
	a.extents[newRef] = record

	if wasPrimary || becameEmpty {
		payload, err := dispatchPayload(record)
		if err != nil {
			return false, err
		}
		a.primary = record
		a.containingFile = newRef.ContainingFile
		a.payload = payload
	}
	return true, nil
}

// GetNonResidentExtent returns the non-resident extent whose
// [StartVCN, LastVCN] range covers targetVcn. It fails with
// ErrResidentHasNoVcn if any extent in the map is resident, or
// ErrOutOfRange if no extent covers targetVcn.
func (a *NtfsAttribute) GetNonResidentExtent(targetVcn uint64) (*NonResidentAttributeRecord, error) {
	for _, rec := range a.extents {
		if !rec.IsNonResident() {
			return nil, fmt.Errorf("ntfs: extent map contains a resident record: %w", ErrResidentHasNoVcn)
		}
	}
	for _, rec := range a.extents {
		nr := rec.(*NonResidentAttributeRecord)
		if targetVcn >= nr.StartVCN && targetVcn <= nr.LastVCN {
			return nr, nil
		}
	}
	return nil, fmt.Errorf("ntfs: vcn %d not covered by any extent: %w", targetVcn, ErrOutOfRange)
}

// FirstExtent returns the resident extent if any extent is resident
// (resident attributes have exactly one extent), otherwise the non-resident
// extent with StartVCN == 0. Fails with ErrInconsistentExtents if neither
// rule finds a match.
func (a *NtfsAttribute) FirstExtent() (AttributeRecord, error) {
	for _, rec := range a.extents {
		if !rec.IsNonResident() {
			return rec, nil
		}
	}
	for _, rec := range a.extents {
		if rec.(*NonResidentAttributeRecord).StartVCN == 0 {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("ntfs: no extent with StartVCN 0: %w", ErrInconsistentExtents)
}

// LastExtent returns the resident extent if any extent is resident,
// otherwise the non-resident extent with the maximum LastVCN.
func (a *NtfsAttribute) LastExtent() (AttributeRecord, error) {
	for _, rec := range a.extents {
		if !rec.IsNonResident() {
			return rec, nil
		}
	}
	var best *NonResidentAttributeRecord
	for _, rec := range a.extents {
		nr := rec.(*NonResidentAttributeRecord)
		if best == nil || nr.LastVCN > best.LastVCN {
			best = nr
		}
	}
	if best == nil {
		return nil, fmt.Errorf("ntfs: no extents present: %w", ErrInconsistentExtents)
	}
	return best, nil
}

// TotalVCN returns one past the highest LastVCN across every non-resident
// extent (the attribute's total cluster span), or 0 for a resident
// attribute, so callers don't need to walk LastExtent themselves.
func (a *NtfsAttribute) TotalVCN() uint64 {
	last, err := a.LastExtent()
	if err != nil {
		return 0
	}
	nr, ok := last.(*NonResidentAttributeRecord)
	if !ok {
		return 0
	}
	return nr.LastVCN + 1
}

// OffsetToAbsolutePos translates a logical byte offset within the
// attribute's data into an absolute volume byte position. Non-resident
// attributes delegate to the run list of the extent whose VCN range covers
// the offset, at VCN base 0; resident attributes add offset to the position
// the containing file's AttributeOffset reports.
func (a *NtfsAttribute) OffsetToAbsolutePos(offset uint64) (uint64, error) {
	first, err := a.FirstExtent()
	if err != nil {
		return 0, err
	}
	if _, ok := first.(*NonResidentAttributeRecord); ok {
		bpc := a.bytesPerCluster()
		if bpc == 0 {
			return 0, fmt.Errorf("ntfs: bytesPerCluster is zero: %w", ErrOutOfRange)
		}
		targetVcn := offset / bpc
		nr, err := a.GetNonResidentExtent(targetVcn)
		if err != nil {
			return 0, err
		}
		return nr.OffsetToAbsolutePos(offset, 0, bpc)
	}
	if a.file == nil {
		return 0, fmt.Errorf("ntfs: resident position translation requires a ContainingFile: %w", ErrOutOfRange)
	}
	attrStart, err := a.file.AttributeOffset(a.Reference())
	if err != nil {
		return 0, fmt.Errorf("ntfs: resolving resident attribute offset: %w", err)
	}
	return attrStart + offset, nil
}

func (a *NtfsAttribute) bytesPerCluster() uint64 {
	if a.file == nil {
		return 0
	}
	return a.file.BytesPerCluster()
}

// Dump renders the primary record's header the same way every AttributeRecord
// does. Resident attributes delegate straight to the record, whose RawData is
// already the real data. Non-resident attributes read an actual data preview
// through the attribute's own stream before rendering, rather than the bare
// record's Dump, which has no stream to read through; a failed read renders
// as "<can't read>" instead of failing the dump.
func (a *NtfsAttribute) Dump(w io.Writer, indent int) error {
	nr, ok := a.primary.(*NonResidentAttributeRecord)
	if !ok {
		return a.primary.Dump(w, indent)
	}

	preview, readErr := a.readPreview()
	if err := dumpHeader(w, indent, nr.AttrType, nr.AttrName, nr.dataLength, preview, readErr); err != nil {
		return err
	}
	return nr.dumpRuns(w, indent)
}

func (a *NtfsAttribute) readPreview() ([]byte, error) {
	stream, err := a.Open(AccessRead)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	n := consts.DumpPreviewBytes
	if dl := int(a.primary.DataLength()); dl < n {
		n = dl
	}
	buf := make([]byte, n)
	if _, err := stream.ReadAt(buf, 0); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}
