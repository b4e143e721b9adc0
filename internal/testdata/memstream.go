package testdata

import (
	"fmt"
	"io"
)

// MemStream is an in-memory bytestream.Stream backed by a growable buffer,
// used by package tests that need a seekable, positionally-addressable
// Stream without touching the filesystem.
type MemStream struct {
	buf    []byte
	pos    int64
	closed bool
}

// NewMemStream wraps data as a MemStream. The slice is used directly, not
// copied.
func NewMemStream(data []byte) *MemStream {
	return &MemStream{buf: data}
}

func (m *MemStream) ReadAt(p []byte, off int64) (int, error) {
	if m.closed {
		return 0, fmt.Errorf("testdata: stream closed")
	}
	if off < 0 || off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *MemStream) WriteAt(p []byte, off int64) (int, error) {
	if m.closed {
		return 0, fmt.Errorf("testdata: stream closed")
	}
	end := off + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	return copy(m.buf[off:], p), nil
}

func (m *MemStream) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = int64(len(m.buf))
	default:
		return 0, fmt.Errorf("testdata: invalid whence %d", whence)
	}
	m.pos = base + offset
	return m.pos, nil
}

func (m *MemStream) Close() error {
	m.closed = true
	return nil
}

func (m *MemStream) Length() (int64, error) {
	return int64(len(m.buf)), nil
}
