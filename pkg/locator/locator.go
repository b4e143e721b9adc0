// Package locator provides the FileLocator capability: resolving and opening
// named streams, switchable between the host filesystem and an in-virtual-disk
// filesystem, so that codecs built on top (VMDK descriptors, NTFS, LDM) are
// agnostic to where their backing bytes actually live.
package locator

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/bgrewell/diskimage-kit/pkg/bytestream"
)

// ErrNotFound is returned by Open when the requested name does not exist
// under a mode that requires existence.
var ErrNotFound = errors.New("locator: not found")

// ErrAccessDenied is returned by Open when the host denies the requested
// access/share combination.
var ErrAccessDenied = errors.New("locator: access denied")

// OpenMode controls whether Open requires, tolerates, or rejects an
// existing file.
type OpenMode int

const (
	// OpenExisting fails with ErrNotFound if name does not already exist.
	OpenExisting OpenMode = iota
	// CreateNew creates name, failing if it already exists.
	CreateNew
	// OpenOrCreate opens name if present, otherwise creates it.
	OpenOrCreate
)

// FileAccess describes the read/write access requested for a stream.
type FileAccess int

const (
	AccessRead FileAccess = iota
	AccessWrite
	AccessReadWrite
)

// FileShare describes whether other openers may concurrently access the
// same underlying name. It is advisory on platforms (like POSIX) that do
// not enforce share-mode locking natively.
type FileShare int

const (
	ShareNone FileShare = iota
	ShareRead
	ShareReadWrite
)

// FileLocator is the capability for resolving and opening named streams,
// without the consumer needing to know whether the bytes live on the host
// filesystem or inside a mounted virtual disk. Implementations are
// immutable; Relative returns a new locator rather than mutating the
// receiver.
type FileLocator interface {
	// Exists reports whether name is present under this locator's root.
	Exists(name string) bool
	// Open resolves name relative to this locator's root and returns a
	// byte stream positioned at offset 0. The caller owns the returned
	// Stream and must Close it.
	Open(name string, mode OpenMode, access FileAccess, share FileShare) (bytestream.Stream, error)
	// Relative returns a locator rooted at this locator's root joined
	// with path, using platform-neutral '/'-separated semantics.
	Relative(path string) FileLocator
}

// joinPath joins a base and a relative path using '/'-separated semantics,
// collapsing consecutive separators, regardless of host OS path conventions.
func joinPath(base, rel string) string {
	if rel == "" {
		return base
	}
	return path.Join(strings.ReplaceAll(base, "\\", "/"), strings.ReplaceAll(rel, "\\", "/"))
}

// fileStream adapts *os.File to the bytestream.Stream contract.
type fileStream struct {
	*os.File
}

func (f fileStream) Length() (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// HostLocator resolves names against a directory on the host filesystem.
type HostLocator struct {
	root string
}

// NewHostLocator returns a FileLocator rooted at the given host directory.
func NewHostLocator(root string) *HostLocator {
	return &HostLocator{root: filepathSlash(root)}
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Exists reports whether name exists under the locator's root.
func (h *HostLocator) Exists(name string) bool {
	_, err := os.Stat(joinPath(h.root, name))
	return err == nil
}

// Open opens name relative to the locator's root on the host filesystem.
func (h *HostLocator) Open(name string, mode OpenMode, access FileAccess, share FileShare) (bytestream.Stream, error) {
	fullPath := joinPath(h.root, name)

	flag, err := osFlags(mode, access)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(fullPath, flag, 0o644)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, fmt.Errorf("locator: open %q: %w", name, ErrNotFound)
		case os.IsPermission(err):
			return nil, fmt.Errorf("locator: open %q: %w", name, ErrAccessDenied)
		default:
			return nil, fmt.Errorf("locator: open %q: %w", name, err)
		}
	}
	return fileStream{f}, nil
}

// Relative returns a HostLocator rooted at this locator's root joined with p.
func (h *HostLocator) Relative(p string) FileLocator {
	return &HostLocator{root: joinPath(h.root, p)}
}

func osFlags(mode OpenMode, access FileAccess) (int, error) {
	var flag int
	switch access {
	case AccessRead:
		flag = os.O_RDONLY
	case AccessWrite:
		flag = os.O_WRONLY
	case AccessReadWrite:
		flag = os.O_RDWR
	default:
		return 0, fmt.Errorf("locator: unknown access mode %d", access)
	}

	switch mode {
	case OpenExisting:
		// no extra flags; os.IsNotExist(err) maps to ErrNotFound above.
	case CreateNew:
		flag |= os.O_CREATE | os.O_EXCL
	case OpenOrCreate:
		flag |= os.O_CREATE
	default:
		return 0, fmt.Errorf("locator: unknown open mode %d", mode)
	}
	return flag, nil
}

// DiskFilesystem is the minimal surface a locator needs from an in-virtual-disk
// filesystem (e.g. an NTFS volume) to resolve and open named streams. The
// locator borrows this reference; it never owns or closes it.
type DiskFilesystem interface {
	Exists(name string) bool
	Open(name string, mode OpenMode, access FileAccess, share FileShare) (bytestream.Stream, error)
}

// DiscLocator resolves names against an in-virtual-disk filesystem object
// plus a base path. The underlying filesystem object is shared and outlives
// any locator referencing it; the locator never closes it.
type DiscLocator struct {
	fs   DiskFilesystem
	base string
}

// NewDiscLocator returns a FileLocator rooted at base within fs.
func NewDiscLocator(fs DiskFilesystem, base string) *DiscLocator {
	return &DiscLocator{fs: fs, base: filepathSlash(base)}
}

// Exists reports whether name exists under the locator's base path.
func (d *DiscLocator) Exists(name string) bool {
	return d.fs.Exists(joinPath(d.base, name))
}

// Open opens name relative to the locator's base path within the shared
// in-disk filesystem.
func (d *DiscLocator) Open(name string, mode OpenMode, access FileAccess, share FileShare) (bytestream.Stream, error) {
	return d.fs.Open(joinPath(d.base, name), mode, access, share)
}

// Relative returns a DiscLocator sharing the same underlying filesystem,
// rooted at this locator's base joined with p.
func (d *DiscLocator) Relative(p string) FileLocator {
	return &DiscLocator{fs: d.fs, base: joinPath(d.base, p)}
}
