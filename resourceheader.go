package rpkg

// ResourceHeader is the per-resource metadata table entry. The Type field
// is stored reversed on disk (so the four ASCII characters appear
// little-endian); Type here is already in its natural, readable order.
type ResourceHeader struct {
	Type                     [4]byte
	ReferencesChunkSize      uint32
	StatesChunkSize          uint32
	DataSize                 uint32 // uncompressed payload length
	SystemMemoryRequirement  uint32
	VideoMemoryRequirement   uint32

	// References is populated iff ReferencesChunkSize > 0 at parse time.
	References []Reference

	// ReferencesNewFormat records which on-disk reference-chunk layout
	// this header was parsed from (or should be written with, for a
	// byte-identical round trip of an unmodified archive). It has no
	// bearing on the Reference accessor API, which always reports
	// canonical fields regardless of layout.
	ReferencesNewFormat bool
}

// TypeString returns Type as a string, e.g. "TEMP".
func (h ResourceHeader) TypeString() string { return string(h.Type[:]) }

func reverse4(b [4]byte) [4]byte {
	return [4]byte{b[3], b[2], b[1], b[0]}
}
