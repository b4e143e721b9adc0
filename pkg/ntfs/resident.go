package ntfs

import (
	"fmt"
	"io"
	"strings"

	"github.com/bgrewell/diskimage-kit/pkg/consts"
)

// ResidentAttributeRecord holds an attribute's bytes inline, within its
// owning MFT record.
type ResidentAttributeRecord struct {
	AttrType  AttributeType
	AttrID    uint16
	AttrName  string
	AttrFlags uint16
	RawData   []byte
}

func (r *ResidentAttributeRecord) Type() AttributeType   { return r.AttrType }
func (r *ResidentAttributeRecord) ID() uint16            { return r.AttrID }
func (r *ResidentAttributeRecord) Name() string          { return r.AttrName }
func (r *ResidentAttributeRecord) Flags() uint16         { return r.AttrFlags }
func (r *ResidentAttributeRecord) DataLength() uint64    { return uint64(len(r.RawData)) }
func (r *ResidentAttributeRecord) IsNonResident() bool   { return false }

// GetClusters always returns nil: resident data has no cluster runs.
func (r *ResidentAttributeRecord) GetClusters() []ClusterRun { return nil }

// Dump renders an "<TYPE> ATTRIBUTE (Name)" header, length, and a 32-byte
// uppercase hex preview of the resident data.
func (r *ResidentAttributeRecord) Dump(w io.Writer, indent int) error {
	return dumpHeader(w, indent, r.AttrType, r.AttrName, r.DataLength(), r.RawData, nil)
}

// dumpHeader renders the common "<TYPE> ATTRIBUTE (Name) length=N" line
// shared by every attribute kind, followed by either a hex preview of data
// or, when readErr is non-nil, "<can't read>" in its place.
func dumpHeader(w io.Writer, indent int, t AttributeType, name string, length uint64, preview []byte, readErr error) error {
	pad := strings.Repeat(" ", indent)
	displayName := name
	if displayName == "" {
		displayName = "<unnamed>"
	}
	if _, err := fmt.Fprintf(w, "%s%s ATTRIBUTE (%s) length=%d\n", pad, t, displayName, length); err != nil {
		return err
	}
	if readErr != nil {
		_, err := fmt.Fprintf(w, "%s  <can't read>\n", pad)
		return err
	}
	n := len(preview)
	if n > consts.DumpPreviewBytes {
		n = consts.DumpPreviewBytes
	}
	hex := make([]string, n)
	for i := 0; i < n; i++ {
		hex[i] = fmt.Sprintf("%02X", preview[i])
	}
	_, err := fmt.Fprintf(w, "%s  %s\n", pad, strings.Join(hex, " "))
	return err
}
