// Package vmdk implements the VMDK descriptor file: a three-section text
// manifest (header key/value, extent descriptors, disk database key/value)
// that must round-trip exactly and validate its enumerated createType and
// adapterType tokens. The line-oriented scan walks the file linearly,
// dispatching each line to its section by prefix and skipping blanks and
// comments, rather than re-scanning the buffer per section.
package vmdk

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/bgrewell/diskimage-kit/pkg/logging"
)

// EntryKind distinguishes a quoted descriptor value from a plain one.
type EntryKind int

const (
	Plain EntryKind = iota
	Quoted
)

// DescriptorEntry is a single KEY=VALUE pair from the header or disk
// database section.
type DescriptorEntry struct {
	Key   string
	Value string
	Kind  EntryKind
}

// ExtentAccess is the access mode token leading an extent descriptor line.
type ExtentAccess int

const (
	RW ExtentAccess = iota
	RDONLY
	NOACCESS
)

func (a ExtentAccess) String() string {
	switch a {
	case RW:
		return "RW"
	case RDONLY:
		return "RDONLY"
	case NOACCESS:
		return "NOACCESS"
	default:
		return fmt.Sprintf("ExtentAccess(%d)", int(a))
	}
}

// ExtentDescriptor is one line from the "# Extent description" section.
type ExtentDescriptor struct {
	Access      ExtentAccess
	SizeSectors uint64
	Type        string
	Filename    string
	// Offset is the sector offset into Filename at which this extent's
	// data begins; zero when the line carries no trailing offset field.
	Offset uint64
}

// DescriptorFile is the parsed representation of a VMDK descriptor: three
// ordered lists preserving insertion order within each section.
type DescriptorFile struct {
	Header       []DescriptorEntry
	Extents      []ExtentDescriptor
	DiskDatabase []DescriptorEntry

	logger *logging.Logger
}

// NewDescriptorFile builds an empty descriptor pre-populated with the
// standard header defaults a fresh construction should start from: version
// 1, an unset CID/parentCID pair, an empty createType, and an lsilogic
// adapter with unset geometry in the disk database section.
func NewDescriptorFile(opts ...ParseOption) *DescriptorFile {
	options := defaultParseOptions()
	for _, opt := range opts {
		opt(options)
	}

	df := &DescriptorFile{logger: options.logger}
	df.Set(Header, "version", "1", Plain)
	df.Set(Header, "CID", "ffffffff", Plain)
	df.Set(Header, "parentCID", "ffffffff", Plain)
	df.Set(Header, "createType", "", Quoted)
	df.Set(DiskDB, "ddb.adapterType", "lsilogic", Quoted)
	df.Set(DiskDB, "ddb.geometry.sectors", "", Quoted)
	df.Set(DiskDB, "ddb.geometry.heads", "", Quoted)
	df.Set(DiskDB, "ddb.geometry.cylinders", "", Quoted)
	return df
}

// Section identifies which ordered list a key/value entry belongs to.
type Section int

const (
	Header Section = iota
	DiskDB
)

var extentLineRe = regexp.MustCompile(`^(RW|RDONLY|NOACCESS)\s+(\d+)\s+(\S+)\s+"([^"]*)"(?:\s+(\d+))?\s*$`)

// ParseDescriptorFile reads a VMDK descriptor from r and parses its
// three-section grammar line by line.
func ParseDescriptorFile(r io.Reader, opts ...ParseOption) (*DescriptorFile, error) {
	options := defaultParseOptions()
	for _, opt := range opts {
		opt(options)
	}

	df := &DescriptorFile{logger: options.logger}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		// 1. Trim trailing NULs.
		line = strings.TrimRight(line, "\x00")

		// Strip everything after '#'. Section banners and the "#DDB"
		// marker are themselves comment-only lines, so they collapse to
		// empty and fall out at rule 2 below; they carry no information
		// the model needs to keep, since section membership is inferred
		// from key prefix (ddb.*) and line shape (extent vs KEY=VALUE).
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}

		// 2. Empty after stripping -> skip.
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// 3. Extent descriptor line?
		if strings.HasPrefix(trimmed, "RW") || strings.HasPrefix(trimmed, "RDONLY") || strings.HasPrefix(trimmed, "NOACCESS") {
			ext, err := parseExtentLine(trimmed)
			if err != nil {
				return nil, fmt.Errorf("vmdk: line %d: %w", lineNo, err)
			}
			df.Extents = append(df.Extents, ext)
			continue
		}

		// 4. KEY=VALUE.
		entry, err := parseKeyValueLine(trimmed)
		if err != nil {
			return nil, fmt.Errorf("vmdk: line %d: %w", lineNo, err)
		}
		if strings.HasPrefix(entry.Key, "ddb.") {
			df.DiskDatabase = append(df.DiskDatabase, entry)
		} else {
			df.Header = append(df.Header, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vmdk: scanning descriptor: %w", err)
	}

	options.logger.Trace("parsed VMDK descriptor", "headerEntries", len(df.Header), "extents", len(df.Extents), "ddbEntries", len(df.DiskDatabase))
	return df, nil
}

func parseExtentLine(line string) (ExtentDescriptor, error) {
	m := extentLineRe.FindStringSubmatch(line)
	if m == nil {
		return ExtentDescriptor{}, fmt.Errorf("extent line %q: %w", line, ErrMalformedLine)
	}

	var access ExtentAccess
	switch m[1] {
	case "RW":
		access = RW
	case "RDONLY":
		access = RDONLY
	case "NOACCESS":
		access = NOACCESS
	}

	size, err := strconv.ParseUint(m[2], 10, 64)
	if err != nil {
		return ExtentDescriptor{}, fmt.Errorf("extent size %q: %w", m[2], ErrMalformedLine)
	}

	var offset uint64
	if m[5] != "" {
		offset, err = strconv.ParseUint(m[5], 10, 64)
		if err != nil {
			return ExtentDescriptor{}, fmt.Errorf("extent offset %q: %w", m[5], ErrMalformedLine)
		}
	}

	return ExtentDescriptor{
		Access:      access,
		SizeSectors: size,
		Type:        m[3],
		Filename:    m[4],
		Offset:      offset,
	}, nil
}

func parseKeyValueLine(line string) (DescriptorEntry, error) {
	eq := strings.IndexByte(line, '=')
	if eq < 0 {
		return DescriptorEntry{}, fmt.Errorf("line %q: %w", line, ErrMalformedLine)
	}
	key := strings.TrimSpace(line[:eq])
	value := strings.TrimSpace(line[eq+1:])
	if key == "" {
		return DescriptorEntry{}, fmt.Errorf("line %q: %w", line, ErrMalformedLine)
	}

	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return DescriptorEntry{Key: key, Value: value[1 : len(value)-1], Kind: Quoted}, nil
	}
	return DescriptorEntry{Key: key, Value: value, Kind: Plain}, nil
}

// Emit writes the three-section descriptor manifest to w, LF-terminated,
// ASCII only, preserving the header/extents/disk-database ordering.
func (df *DescriptorFile) Emit(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Disk DescriptorFile\n")
	for _, e := range df.Header {
		writeEntry(bw, e)
	}
	fmt.Fprintf(bw, "\n# Extent description\n")
	for _, e := range df.Extents {
		writeExtent(bw, e)
	}
	fmt.Fprintf(bw, "\n# The Disk Data Base\n#DDB\n")
	for _, e := range df.DiskDatabase {
		writeEntry(bw, e)
	}

	return bw.Flush()
}

func writeEntry(w *bufio.Writer, e DescriptorEntry) {
	if e.Kind == Quoted {
		fmt.Fprintf(w, "%s=\"%s\"\n", e.Key, e.Value)
	} else {
		fmt.Fprintf(w, "%s=%s\n", e.Key, e.Value)
	}
}

func writeExtent(w *bufio.Writer, e ExtentDescriptor) {
	if e.Offset != 0 {
		fmt.Fprintf(w, "%s %d %s \"%s\" %d\n", e.Access, e.SizeSectors, e.Type, e.Filename, e.Offset)
		return
	}
	fmt.Fprintf(w, "%s %d %s \"%s\"\n", e.Access, e.SizeSectors, e.Type, e.Filename)
}

// Get returns the first entry in section matching key.
func (df *DescriptorFile) Get(section Section, key string) (DescriptorEntry, bool) {
	list := df.list(section)
	for _, e := range *list {
		if e.Key == key {
			return e, true
		}
	}
	return DescriptorEntry{}, false
}

// Set inserts or updates the entry for key within section, preserving its
// original position on update or appending on insert.
func (df *DescriptorFile) Set(section Section, key, value string, kind EntryKind) {
	list := df.list(section)
	for i, e := range *list {
		if e.Key == key {
			(*list)[i] = DescriptorEntry{Key: key, Value: value, Kind: kind}
			return
		}
	}
	*list = append(*list, DescriptorEntry{Key: key, Value: value, Kind: kind})
}

func (df *DescriptorFile) list(section Section) *[]DescriptorEntry {
	if section == DiskDB {
		return &df.DiskDatabase
	}
	return &df.Header
}
