package ldm

import (
	"testing"

	"github.com/bgrewell/diskimage-kit/internal/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBlockSize = 64

func buildDatabase(t *testing.T, blocks [][]byte) []byte {
	t.Helper()
	header := testdata.LDMHeaderBytes(512, testBlockSize, uint32(len(blocks)))
	out := append([]byte{}, header...)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

func diskGroupBlock(id uint64, guid string) []byte {
	return testdata.LDMBlockBytes(testBlockSize, byte(RecordDiskGroup), id, testdata.LDMGUIDField(guid))
}

func volumeBlock(id uint64, guid string) []byte {
	return testdata.LDMBlockBytes(testBlockSize, byte(RecordVolume), id, testdata.LDMGUIDField(guid))
}

func diskBlock(id uint64) []byte {
	return testdata.LDMBlockBytes(testBlockSize, byte(RecordDisk), id, nil)
}

func componentBlock(id, volumeId uint64) []byte {
	return testdata.LDMBlockBytes(testBlockSize, byte(RecordComponent), id, testdata.LDMComponentPayload(volumeId))
}

func extentBlock(id, componentId, diskId, offset, length uint64) []byte {
	return testdata.LDMBlockBytes(testBlockSize, byte(RecordExtent), id, testdata.LDMExtentPayload(componentId, diskId, offset, length))
}

const testGUID = "12345678-1234-1234-1234-123456789abc"

func TestLoadBasicTopology(t *testing.T) {
	blocks := [][]byte{
		diskGroupBlock(1, testGUID),
		diskBlock(2),
		volumeBlock(3, testGUID),
		componentBlock(4, 3),
		extentBlock(5, 4, 2, 0, 2048),
	}
	data := buildDatabase(t, blocks)
	stream := testdata.NewMemStream(data)

	db, err := Load(stream)
	require.NoError(t, err)

	assert.Len(t, db.DiskGroups(), 1)
	assert.Len(t, db.Disks(), 1)
	assert.Len(t, db.Volumes(), 1)

	vol, err := db.GetVolume(3)
	require.NoError(t, err)
	assert.Equal(t, testGUID, vol.VolumeGUID)

	components := db.GetVolumeComponents(3)
	require.Len(t, components, 1)
	assert.Equal(t, uint64(4), components[0].Id)

	extents := db.GetComponentExtents(4)
	require.Len(t, extents, 1)
	assert.Equal(t, uint64(2048), extents[0].Length)
	assert.Equal(t, uint64(2), extents[0].DiskId)
}

func TestLoadSkipsUnknownBlockType(t *testing.T) {
	blocks := [][]byte{
		diskBlock(1),
		testdata.LDMGarbageBlockBytes(testBlockSize),
		diskBlock(2),
	}
	data := buildDatabase(t, blocks)
	stream := testdata.NewMemStream(data)

	db, err := Load(stream)
	require.NoError(t, err)
	assert.Len(t, db.Disks(), 2)
}

func TestLoadDuplicateIdIsCorrupt(t *testing.T) {
	blocks := [][]byte{
		diskBlock(1),
		diskBlock(1),
	}
	data := buildDatabase(t, blocks)
	stream := testdata.NewMemStream(data)

	_, err := Load(stream)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptDatabase)
}

func TestLoadBadSignatureIsCorrupt(t *testing.T) {
	data := make([]byte, 512+testBlockSize)
	copy(data, "NOTAHDR!")
	stream := testdata.NewMemStream(data)

	_, err := Load(stream)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptDatabase)
}

func TestGetVolumeWrongTypeIsNotFound(t *testing.T) {
	blocks := [][]byte{diskBlock(1)}
	data := buildDatabase(t, blocks)
	stream := testdata.NewMemStream(data)

	db, err := Load(stream)
	require.NoError(t, err)

	_, err = db.GetVolume(1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDiskGroupLooksUpByGuid(t *testing.T) {
	blocks := [][]byte{
		diskGroupBlock(1, testGUID),
	}
	data := buildDatabase(t, blocks)
	stream := testdata.NewMemStream(data)

	db, err := Load(stream)
	require.NoError(t, err)

	g, err := db.GetDiskGroup(testGUID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), g.Id)

	_, err = db.GetDiskGroup("00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindRecordByPredicate(t *testing.T) {
	blocks := [][]byte{
		volumeBlock(1, testGUID),
		volumeBlock(2, "00000000-0000-0000-0000-000000000000"),
	}
	data := buildDatabase(t, blocks)
	stream := testdata.NewMemStream(data)

	db, err := Load(stream)
	require.NoError(t, err)

	found, ok := FindRecord[VolumeRecord](db, RecordVolume, func(v VolumeRecord) bool {
		return v.VolumeGUID == testGUID
	})
	require.True(t, ok)
	assert.Equal(t, uint64(1), found.Id)

	_, ok = FindRecord[VolumeRecord](db, RecordVolume, func(v VolumeRecord) bool {
		return v.VolumeGUID == "never-matches"
	})
	assert.False(t, ok)
}

func TestDatabaseAccessorsReflectHeader(t *testing.T) {
	blocks := [][]byte{diskBlock(1)}
	data := buildDatabase(t, blocks)
	stream := testdata.NewMemStream(data)

	db, err := Load(stream)
	require.NoError(t, err)
	assert.Equal(t, uint32(512), db.HeaderSize())
	assert.Equal(t, uint32(testBlockSize), db.BlockSize())
	assert.Equal(t, uint32(1), db.NumVBlks())
}
