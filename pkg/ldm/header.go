package ldm

import (
	"fmt"

	"github.com/bgrewell/diskimage-kit/pkg/bytestream"
	"github.com/bgrewell/diskimage-kit/pkg/consts"
)

// headerSignature is the fixed 8-byte magic LDM's VMDB header begins with,
// the same PRIVHEAD tag the real Logical Disk Manager uses.
const headerSignature = "PRIVHEAD"

// DatabaseHeader is the fixed layout at the start of the VMDB region: a
// signature, then three big-endian uint32 fields describing the block
// region that follows.
type DatabaseHeader struct {
	HeaderSize uint32
	BlockSize  uint32
	NumVBlks   uint32
}

// unmarshalHeader parses the first consts.LDMHeaderSize bytes of the VMDB
// region. A signature mismatch is a structural integrity violation and is
// surfaced as ErrCorruptDatabase.
func unmarshalHeader(data []byte) (DatabaseHeader, error) {
	if len(data) < consts.LDMHeaderSize {
		return DatabaseHeader{}, fmt.Errorf("ldm: header short read (%d bytes): %w", len(data), ErrCorruptDatabase)
	}

	r := bytestream.NewReader(data)
	sig, err := r.ReadBytes(len(headerSignature))
	if err != nil {
		return DatabaseHeader{}, fmt.Errorf("ldm: reading header signature: %w", err)
	}
	if string(sig) != headerSignature {
		return DatabaseHeader{}, fmt.Errorf("ldm: bad header signature %q: %w", sig, ErrCorruptDatabase)
	}

	headerSize, err := r.ReadU32BE()
	if err != nil {
		return DatabaseHeader{}, fmt.Errorf("ldm: reading HeaderSize: %w", err)
	}
	blockSize, err := r.ReadU32BE()
	if err != nil {
		return DatabaseHeader{}, fmt.Errorf("ldm: reading BlockSize: %w", err)
	}
	numVBlks, err := r.ReadU32BE()
	if err != nil {
		return DatabaseHeader{}, fmt.Errorf("ldm: reading NumVBlks: %w", err)
	}

	if blockSize == 0 {
		return DatabaseHeader{}, fmt.Errorf("ldm: BlockSize is zero: %w", ErrCorruptDatabase)
	}

	return DatabaseHeader{HeaderSize: headerSize, BlockSize: blockSize, NumVBlks: numVBlks}, nil
}

// marshalHeader renders h back into a consts.LDMHeaderSize-byte sector,
// zero-padded after the three fields. It exists mainly for building
// synthetic test fixtures, since Load only ever decodes real VMDBs.
func marshalHeader(h DatabaseHeader) []byte {
	w := bytestream.NewWriter()
	w.WriteBytes([]byte(headerSignature))
	w.WriteU32BE(h.HeaderSize)
	w.WriteU32BE(h.BlockSize)
	w.WriteU32BE(h.NumVBlks)
	out := make([]byte, consts.LDMHeaderSize)
	copy(out, w.Bytes())
	return out
}
