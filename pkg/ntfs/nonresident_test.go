package ntfs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonResidentOffsetToAbsolutePos(t *testing.T) {
	r := nonResident(1, 0, 1, []ClusterRun{{LogicalCluster: 5, RunLength: 2}}, 8192)

	pos, err := r.OffsetToAbsolutePos(0, 0, 4096)
	require.NoError(t, err)
	assert.Equal(t, uint64(5*4096), pos)

	pos, err = r.OffsetToAbsolutePos(4096+100, 0, 4096)
	require.NoError(t, err)
	assert.Equal(t, uint64(6*4096+100), pos)
}

func TestNonResidentOffsetToAbsolutePosSparseRunFails(t *testing.T) {
	r := nonResident(1, 0, 0, []ClusterRun{{LogicalCluster: -1, RunLength: 1}}, 4096)
	_, err := r.OffsetToAbsolutePos(0, 0, 4096)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestNonResidentOffsetToAbsolutePosUncoveredVcnFails(t *testing.T) {
	r := nonResident(1, 0, 0, []ClusterRun{{LogicalCluster: 0, RunLength: 1}}, 4096)
	_, err := r.OffsetToAbsolutePos(4096*5, 0, 4096)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestNonResidentDumpRendersRunList(t *testing.T) {
	r := nonResident(1, 0, 1, []ClusterRun{{LogicalCluster: -1, RunLength: 2}}, 8192)
	r.AttrName = "sparsefile"

	var buf bytes.Buffer
	require.NoError(t, r.Dump(&buf, 0))
	out := buf.String()
	assert.Contains(t, out, "DATA ATTRIBUTE (sparsefile)")
	assert.Contains(t, out, "sparse")
}

func TestResidentDumpRendersHexPreview(t *testing.T) {
	record := &ResidentAttributeRecord{AttrType: Data, AttrName: "", RawData: []byte{0xDE, 0xAD, 0xBE, 0xEF}}
	var buf bytes.Buffer
	require.NoError(t, record.Dump(&buf, 2))
	out := buf.String()
	assert.Contains(t, out, "<unnamed>")
	assert.Contains(t, out, "DE AD BE EF")
}
