// Package testdata builds synthetic byte fixtures for package tests that
// need raw on-disk layouts (LDM headers/blocks) or an in-memory Stream,
// without shipping real disk images in the repository.
package testdata

import (
	"encoding/binary"
)

// LDMHeaderBytes renders a 512-byte VMDB header sector with the given
// field values, signature included.
func LDMHeaderBytes(headerSize, blockSize, numVBlks uint32) []byte {
	buf := make([]byte, 512)
	copy(buf, "PRIVHEAD")
	binary.BigEndian.PutUint32(buf[8:12], headerSize)
	binary.BigEndian.PutUint32(buf[12:16], blockSize)
	binary.BigEndian.PutUint32(buf[16:20], numVBlks)
	return buf
}

// LDMBlockBytes renders one fixed-size VBLK block. payload is the
// type-specific tail appended after the common signature/type/id fields;
// the result is zero-padded (or left as-is if payload already fills it) to
// exactly blockSize bytes.
func LDMBlockBytes(blockSize int, recordType byte, id uint64, payload []byte) []byte {
	buf := make([]byte, blockSize)
	copy(buf, "VBLK")
	buf[4] = recordType
	binary.BigEndian.PutUint64(buf[5:13], id)
	copy(buf[13:], payload)
	return buf
}

// LDMGarbageBlockBytes renders a block whose signature does not match VBLK,
// used to exercise the skip-unknown-block path.
func LDMGarbageBlockBytes(blockSize int) []byte {
	buf := make([]byte, blockSize)
	copy(buf, "JUNK")
	return buf
}

// LDMGUIDField renders s as the fixed-width 36-byte canonical GUID field
// used by DiskGroup and Volume records.
func LDMGUIDField(s string) []byte {
	b := make([]byte, 36)
	copy(b, s)
	for i := len(s); i < 36; i++ {
		b[i] = ' '
	}
	return b
}

func beU64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// LDMComponentPayload renders a ComponentRecord's type-specific tail.
func LDMComponentPayload(volumeId uint64) []byte {
	return beU64(volumeId)
}

// LDMExtentPayload renders an ExtentRecord's type-specific tail.
func LDMExtentPayload(componentId, diskId, offset, length uint64) []byte {
	out := make([]byte, 0, 32)
	out = append(out, beU64(componentId)...)
	out = append(out, beU64(diskId)...)
	out = append(out, beU64(offset)...)
	out = append(out, beU64(length)...)
	return out
}
