package vmdk

import "fmt"

// CreateType enumerates the closed set of recognized VMDK createType tokens.
type CreateType int

const (
	MonolithicSparse CreateType = iota
	VmfsSparse
	MonolithicFlat
	Vmfs
	TwoGbMaxExtentSparse
	TwoGbMaxExtentFlat
	FullDevice
	VmfsRaw
	PartitionedDevice
	VmfsRawDeviceMap
	VmfsPassthroughRawDeviceMap
	StreamOptimized
)

var createTypeTokens = map[CreateType]string{
	MonolithicSparse:            "monolithicSparse",
	VmfsSparse:                  "vmfsSparse",
	MonolithicFlat:              "monolithicFlat",
	Vmfs:                        "vmfs",
	TwoGbMaxExtentSparse:        "twoGbMaxExtentSparse",
	TwoGbMaxExtentFlat:          "twoGbMaxExtentFlat",
	FullDevice:                  "fullDevice",
	VmfsRaw:                     "vmfsRaw",
	PartitionedDevice:           "partitionedDevice",
	VmfsRawDeviceMap:            "vmfsRawDeviceMap",
	VmfsPassthroughRawDeviceMap: "vmfsPassthroughRawDeviceMap",
	StreamOptimized:             "streamOptimized",
}

var tokenCreateTypes = reverseStringMap(createTypeTokens)

// String renders the wire token for ct.
func (ct CreateType) String() string {
	if s, ok := createTypeTokens[ct]; ok {
		return s
	}
	return fmt.Sprintf("CreateType(%d)", int(ct))
}

// ParseCreateType maps a createType token to its enum value, failing with
// ErrUnknownEnum for anything outside the closed set.
func ParseCreateType(token string) (CreateType, error) {
	if ct, ok := tokenCreateTypes[token]; ok {
		return ct, nil
	}
	return 0, fmt.Errorf("vmdk: createType %q: %w", token, ErrUnknownEnum)
}

// AdapterType enumerates the closed set of recognized ddb.adapterType tokens.
type AdapterType int

const (
	IDE AdapterType = iota
	BusLogicScsi
	LsiLogicScsi
	LegacyESX
)

var adapterTypeTokens = map[AdapterType]string{
	IDE:          "ide",
	BusLogicScsi: "buslogic",
	LsiLogicScsi: "lsilogic",
	LegacyESX:    "legacyESX",
}

var tokenAdapterTypes = reverseStringMap(adapterTypeTokens)

// String renders the wire token for at.
func (at AdapterType) String() string {
	if s, ok := adapterTypeTokens[at]; ok {
		return s
	}
	return fmt.Sprintf("AdapterType(%d)", int(at))
}

// ParseAdapterType maps a ddb.adapterType token to its enum value, failing
// with ErrUnknownEnum for anything outside the closed set.
func ParseAdapterType(token string) (AdapterType, error) {
	if at, ok := tokenAdapterTypes[token]; ok {
		return at, nil
	}
	return 0, fmt.Errorf("vmdk: adapterType %q: %w", token, ErrUnknownEnum)
}

func reverseStringMap[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
