package consts

// SectorSize is the canonical on-disk sector size used by the LDM header and
// VMDK extent bookkeeping unless a format explicitly says otherwise.
const SectorSize = 512

const (
	// LDMHeaderSize is the size, in bytes, of the first sector of the VMDB
	// region that the ldm package's unmarshalHeader reads.
	LDMHeaderSize = SectorSize

	// LDMSignature is the expected 8-byte tag at the start of the VMDB header.
	LDMSignature = "PRIVHEAD"

	// LDMRecordSignature is the 4-byte tag every VBLK record block begins with.
	LDMRecordSignature = "VBLK"
)

// NTFS attribute and cluster constants.
const (
	// NTFSAttributeHeaderSize is the size of the common portion of an
	// AttributeRecord shared by resident and non-resident layouts.
	NTFSAttributeHeaderSize = 16

	// DumpPreviewBytes is the number of leading bytes rendered by Dump.
	DumpPreviewBytes = 32
)
