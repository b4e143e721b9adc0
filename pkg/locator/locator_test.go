package locator

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/bgrewell/diskimage-kit/pkg/bytestream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
}

func TestHostLocatorOpenAndExists(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "disk-s001.vmdk", "payload")

	l := NewHostLocator(dir)
	assert.True(t, l.Exists("disk-s001.vmdk"))
	assert.False(t, l.Exists("missing.vmdk"))

	s, err := l.Open("disk-s001.vmdk", OpenExisting, AccessRead, ShareRead)
	require.NoError(t, err)
	defer s.Close()

	data, err := io.ReadAll(io.NewSectionReader(s, 0, 1<<20))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestHostLocatorOpenMissingFails(t *testing.T) {
	l := NewHostLocator(t.TempDir())
	_, err := l.Open("missing.vmdk", OpenExisting, AccessRead, ShareRead)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelativeJoinMatchesDirectOpen(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/b/target.dat", "hello")

	root := NewHostLocator(dir)
	viaRelative := root.Relative("a").Relative("b")
	viaDirect := root.Relative("a/b")

	s1, err := viaRelative.Open("target.dat", OpenExisting, AccessRead, ShareRead)
	require.NoError(t, err)
	defer s1.Close()
	s2, err := viaDirect.Open("target.dat", OpenExisting, AccessRead, ShareRead)
	require.NoError(t, err)
	defer s2.Close()

	d1, _ := io.ReadAll(io.NewSectionReader(s1, 0, 1<<20))
	d2, _ := io.ReadAll(io.NewSectionReader(s2, 0, 1<<20))
	assert.Equal(t, d1, d2)
	assert.Equal(t, "hello", string(d1))
}

// memFS is a trivial in-memory DiskFilesystem used to test DiscLocator
// without needing a real NTFS volume.
type memFS struct {
	files map[string][]byte
}

func (m *memFS) Exists(name string) bool {
	_, ok := m.files[name]
	return ok
}

func (m *memFS) Open(name string, mode OpenMode, access FileAccess, share FileShare) (bytestream.Stream, error) {
	return nil, nil
}

func TestDiscLocatorRelativeJoin(t *testing.T) {
	fs := &memFS{files: map[string][]byte{"sub/dir/file.txt": []byte("x")}}
	l := NewDiscLocator(fs, "")
	nested := l.Relative("sub").Relative("dir")
	assert.True(t, nested.Exists("file.txt"))
	assert.False(t, l.Exists("file.txt"))
}
