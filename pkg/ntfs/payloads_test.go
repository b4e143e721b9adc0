package ntfs

import (
	"testing"

	"github.com/bgrewell/diskimage-kit/pkg/bytestream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildStandardInformation() []byte {
	w := bytestream.NewWriter()
	w.WriteU64LE(1000)
	w.WriteU64LE(2000)
	w.WriteU64LE(3000)
	w.WriteU64LE(4000)
	w.WriteU32LE(0x20)
	return w.Bytes()
}

func TestDispatchPayloadStandardInformation(t *testing.T) {
	record := &ResidentAttributeRecord{AttrType: StandardInformation, RawData: buildStandardInformation()}
	payload, err := dispatchPayload(record)
	require.NoError(t, err)

	si, ok := payload.(StandardInformationPayload)
	require.True(t, ok)
	assert.Equal(t, uint64(1000), si.CreationTime)
	assert.Equal(t, uint32(0x20), si.DOSFlags)
}

func TestDispatchPayloadFileName(t *testing.T) {
	w := bytestream.NewWriter()
	w.WriteU64LE(42)
	w.WriteU16LE(3)
	w.WriteU8(4)
	w.WriteString("test", 8)
	record := &ResidentAttributeRecord{AttrType: FileName, RawData: w.Bytes()}

	payload, err := dispatchPayload(record)
	require.NoError(t, err)
	fn, ok := payload.(FileNamePayload)
	require.True(t, ok)
	assert.Equal(t, uint64(42), fn.ParentRef.SegmentNumber)
	assert.Equal(t, uint16(3), fn.ParentRef.SequenceNumber)
}

func TestDispatchPayloadRawFallback(t *testing.T) {
	record := &ResidentAttributeRecord{AttrType: Data, RawData: []byte{1, 2, 3}}
	payload, err := dispatchPayload(record)
	require.NoError(t, err)
	raw, ok := payload.(RawPayload)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, raw.Data)
}

func TestDispatchPayloadNonResidentIsAlwaysRaw(t *testing.T) {
	record := nonResident(1, 0, 0, []ClusterRun{{LogicalCluster: 0, RunLength: 1}}, 10)
	record.AttrType = StandardInformation
	payload, err := dispatchPayload(record)
	require.NoError(t, err)
	_, ok := payload.(RawPayload)
	assert.True(t, ok)
}

func TestDispatchPayloadAttributeList(t *testing.T) {
	w := bytestream.NewWriter()
	w.WriteU8(byte(Data))
	w.WriteU64LE(7)
	w.WriteU16LE(1)
	w.WriteU16LE(3)
	record := &ResidentAttributeRecord{AttrType: AttributeList, RawData: w.Bytes()}

	payload, err := dispatchPayload(record)
	require.NoError(t, err)
	list, ok := payload.(AttributeListPayload)
	require.True(t, ok)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, Data, list.Entries[0].AttrType)
	assert.Equal(t, uint64(7), list.Entries[0].Ref.ContainingFile.SegmentNumber)
}
