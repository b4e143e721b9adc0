package ntfs

import (
	"fmt"
	"io"

	"github.com/bgrewell/diskimage-kit/pkg/bytestream"
)

// Access gates what Open permits against the resulting Stream.
type Access uint8

const (
	AccessRead Access = iota
	AccessReadWrite
)

// attributeStream is the sparse, compression-unaware byte view Open
// returns: resident attributes read/write the record's inline bytes
// directly; non-resident attributes translate each request through
// OffsetToAbsolutePos and the containing file's volume stream, returning
// zero bytes for sparse runs and for any read past DataLength.
type attributeStream struct {
	attr   *NtfsAttribute
	access Access
	pos    int64
}

// Open returns a sparse byte stream backed by the attribute's data buffer.
// Reads past DataLength return zero bytes; writes require AccessReadWrite.
// Compressed non-resident attributes are read as raw (still-compressed)
// cluster bytes; decompression is out of scope for this model.
func (a *NtfsAttribute) Open(access Access) (bytestream.Stream, error) {
	return &attributeStream{attr: a, access: access}, nil
}

func (s *attributeStream) dataLength() uint64 {
	return s.attr.primary.DataLength()
}

func (s *attributeStream) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("ntfs: negative read offset %d", off)
	}
	length := s.dataLength()
	if uint64(off) >= length {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	if resident, ok := s.attr.primary.(*ResidentAttributeRecord); ok {
		n := copy(p, residentSlice(resident.RawData, off))
		for i := n; i < len(p); i++ {
			p[i] = 0
		}
		return len(p), nil
	}

	if s.attr.file == nil {
		return 0, fmt.Errorf("ntfs: non-resident read requires a ContainingFile")
	}
	volume, err := s.attr.file.VolumeStream()
	if err != nil {
		return 0, fmt.Errorf("ntfs: resolving volume stream: %w", err)
	}

	n := 0
	for n < len(p) {
		readOffset := uint64(off) + uint64(n)
		if readOffset >= length {
			break
		}
		absPos, terr := s.attr.OffsetToAbsolutePos(readOffset)
		if terr != nil {
			// A hole in the run list (sparse, or simply uncovered) reads as
			// zero rather than failing the whole read.
			p[n] = 0
			n++
			continue
		}
		chunk := make([]byte, 1)
		if _, rerr := volume.ReadAt(chunk, int64(absPos)); rerr != nil && rerr != io.EOF {
			return n, fmt.Errorf("ntfs: reading volume at %d: %w", absPos, rerr)
		}
		p[n] = chunk[0]
		n++
	}
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func residentSlice(data []byte, off int64) []byte {
	if off >= int64(len(data)) {
		return nil
	}
	return data[off:]
}

func (s *attributeStream) WriteAt(p []byte, off int64) (int, error) {
	if s.access != AccessReadWrite {
		return 0, fmt.Errorf("ntfs: write requires AccessReadWrite")
	}
	if off < 0 {
		return 0, fmt.Errorf("ntfs: negative write offset %d", off)
	}

	if resident, ok := s.attr.primary.(*ResidentAttributeRecord); ok {
		end := off + int64(len(p))
		if end > int64(len(resident.RawData)) {
			grown := make([]byte, end)
			copy(grown, resident.RawData)
			resident.RawData = grown
		}
		return copy(resident.RawData[off:], p), nil
	}

	if s.attr.file == nil {
		return 0, fmt.Errorf("ntfs: non-resident write requires a ContainingFile")
	}
	volume, err := s.attr.file.VolumeStream()
	if err != nil {
		return 0, fmt.Errorf("ntfs: resolving volume stream: %w", err)
	}
	for i, b := range p {
		absPos, terr := s.attr.OffsetToAbsolutePos(uint64(off) + uint64(i))
		if terr != nil {
			return i, fmt.Errorf("ntfs: write falls on an unallocated extent: %w", terr)
		}
		if _, werr := volume.WriteAt([]byte{b}, int64(absPos)); werr != nil {
			return i, fmt.Errorf("ntfs: writing volume at %d: %w", absPos, werr)
		}
	}
	return len(p), nil
}

func (s *attributeStream) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = s.pos
	case io.SeekEnd:
		base = int64(s.dataLength())
	default:
		return 0, fmt.Errorf("ntfs: invalid whence %d", whence)
	}
	s.pos = base + offset
	return s.pos, nil
}

func (s *attributeStream) Close() error { return nil }

func (s *attributeStream) Length() (int64, error) {
	return int64(s.dataLength()), nil
}
