package ntfs

import (
	"errors"
	"fmt"
	"io"
)

// errNoPreviewStream is the read failure reported when Dump is called on a
// bare NonResidentAttributeRecord with no owning NtfsAttribute to read
// cluster data through. NtfsAttribute.Dump reads a real preview first and
// never hits this path.
var errNoPreviewStream = errors.New("ntfs: no stream available to read preview")

// NonResidentAttributeRecord describes one fragment of an attribute's data
// living outside its MFT record, as a run-length-encoded cluster list
// covering [StartVCN, LastVCN].
type NonResidentAttributeRecord struct {
	AttrType            AttributeType
	AttrID              uint16
	AttrName            string
	AttrFlags           uint16
	StartVCN            uint64
	LastVCN             uint64
	CompressionUnitSize uint16
	Runs                []ClusterRun
	dataLength          uint64
}

func (r *NonResidentAttributeRecord) Type() AttributeType { return r.AttrType }
func (r *NonResidentAttributeRecord) ID() uint16          { return r.AttrID }
func (r *NonResidentAttributeRecord) Name() string        { return r.AttrName }
func (r *NonResidentAttributeRecord) Flags() uint16       { return r.AttrFlags }
func (r *NonResidentAttributeRecord) DataLength() uint64  { return r.dataLength }
func (r *NonResidentAttributeRecord) IsNonResident() bool { return true }

// GetClusters returns the record's run-length cluster list.
func (r *NonResidentAttributeRecord) GetClusters() []ClusterRun { return r.Runs }

// SetDataLength records the attribute's total data length, an editable
// property separate from VCN coverage (compressed attributes can have a
// data length smaller than their cluster span).
func (r *NonResidentAttributeRecord) SetDataLength(n uint64) { r.dataLength = n }

// Dump renders the same header format as ResidentAttributeRecord plus a
// summary of the run list in place of inline bytes. Called on its own,
// without an owning NtfsAttribute's stream, there is no way to read actual
// cluster data, so the preview line reports "<can't read>"; NtfsAttribute.Dump
// reads real data first and renders through dumpRuns directly instead.
func (r *NonResidentAttributeRecord) Dump(w io.Writer, indent int) error {
	if err := dumpHeader(w, indent, r.AttrType, r.AttrName, r.dataLength, nil, errNoPreviewStream); err != nil {
		return err
	}
	return r.dumpRuns(w, indent)
}

func (r *NonResidentAttributeRecord) dumpRuns(w io.Writer, indent int) error {
	for _, run := range r.Runs {
		marker := ""
		if run.LogicalCluster < 0 {
			marker = " (sparse)"
		}
		if _, err := fmt.Fprintf(w, "%*srun lcn=%d len=%d%s\n", indent+2, "", run.LogicalCluster, run.RunLength, marker); err != nil {
			return err
		}
	}
	return nil
}

// OffsetToAbsolutePos translates a byte offset within this extent into an
// absolute volume byte position, given the VCN this extent's offset 0
// starts at (vcnBase) and the volume's cluster size. It fails with
// ErrOutOfRange if the offset's VCN is not covered by any run, or falls in
// a sparse run.
func (r *NonResidentAttributeRecord) OffsetToAbsolutePos(offset, vcnBase, bytesPerCluster uint64) (uint64, error) {
	if bytesPerCluster == 0 {
		return 0, fmt.Errorf("ntfs: bytesPerCluster is zero: %w", ErrOutOfRange)
	}
	vcn := vcnBase + offset/bytesPerCluster
	clusterOffset := offset % bytesPerCluster

	cur := r.StartVCN
	for _, run := range r.Runs {
		runEnd := cur + run.RunLength
		if vcn >= cur && vcn < runEnd {
			if run.LogicalCluster < 0 {
				return 0, fmt.Errorf("ntfs: offset %d falls in a sparse run: %w", offset, ErrOutOfRange)
			}
			lcn := uint64(run.LogicalCluster) + (vcn - cur)
			return lcn*bytesPerCluster + clusterOffset, nil
		}
		cur = runEnd
	}
	return 0, fmt.Errorf("ntfs: vcn %d not covered by any run: %w", vcn, ErrOutOfRange)
}
