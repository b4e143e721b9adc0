package vmdk

import (
	"fmt"
	"strconv"

	"github.com/bgrewell/diskimage-kit/pkg/validation"
)

// ContentID returns the header's CID, an 8-hex-digit 32-bit identifier.
func (df *DescriptorFile) ContentID() (uint32, error) {
	return df.hexField(Header, "CID")
}

// SetContentID stores v as an 8-lowercase-hex-digit CID.
func (df *DescriptorFile) SetContentID(v uint32) {
	df.Set(Header, "CID", fmt.Sprintf("%08x", v), Plain)
}

// ParentContentID returns the header's parentCID.
func (df *DescriptorFile) ParentContentID() (uint32, error) {
	return df.hexField(Header, "parentCID")
}

// SetParentContentID stores v as an 8-lowercase-hex-digit parentCID.
func (df *DescriptorFile) SetParentContentID(v uint32) {
	df.Set(Header, "parentCID", fmt.Sprintf("%08x", v), Plain)
}

func (df *DescriptorFile) hexField(section Section, key string) (uint32, error) {
	entry, ok := df.Get(section, key)
	if !ok {
		return 0, fmt.Errorf("vmdk: missing %s", key)
	}
	v, err := strconv.ParseUint(entry.Value, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("vmdk: %s %q: %w", key, entry.Value, ErrMalformedLine)
	}
	return uint32(v), nil
}

// CreateType returns the parsed createType header token.
func (df *DescriptorFile) CreateType() (CreateType, error) {
	entry, ok := df.Get(Header, "createType")
	if !ok {
		return 0, fmt.Errorf("vmdk: missing createType")
	}
	return ParseCreateType(entry.Value)
}

// SetCreateType stores ct as the quoted createType header value.
func (df *DescriptorFile) SetCreateType(ct CreateType) {
	df.Set(Header, "createType", ct.String(), Quoted)
}

// AdapterType returns the parsed ddb.adapterType disk-database token.
func (df *DescriptorFile) AdapterType() (AdapterType, error) {
	entry, ok := df.Get(DiskDB, "ddb.adapterType")
	if !ok {
		return 0, fmt.Errorf("vmdk: missing ddb.adapterType")
	}
	return ParseAdapterType(entry.Value)
}

// SetAdapterType stores at as the quoted ddb.adapterType value.
func (df *DescriptorFile) SetAdapterType(at AdapterType) {
	df.Set(DiskDB, "ddb.adapterType", at.String(), Quoted)
}

// UUID returns the ddb.uuid value decoded into 16 bytes.
func (df *DescriptorFile) UUID() ([16]byte, error) {
	entry, ok := df.Get(DiskDB, "ddb.uuid")
	if !ok {
		return [16]byte{}, fmt.Errorf("vmdk: missing ddb.uuid")
	}
	g, err := validation.ParseVMDKUUID(entry.Value)
	if err != nil {
		return [16]byte{}, fmt.Errorf("vmdk: ddb.uuid: %w", ErrInvalidUUID)
	}
	return g, nil
}

// SetUUID stores g as the quoted ddb.uuid value.
func (df *DescriptorFile) SetUUID(g [16]byte) {
	df.Set(DiskDB, "ddb.uuid", validation.FormatVMDKUUID(g), Quoted)
}
