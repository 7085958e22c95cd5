package rpkg

import "fmt"

// PackageVersion identifies the on-disk archive format revision.
type PackageVersion int

const (
	// RPKGv1 is the original format: magic "RPKG" stored reversed as
	// "GKPR", no PackageMetadata block, LZ4 (non-HC) block compression.
	RPKGv1 PackageVersion = iota + 1

	// RPKGv2 adds the PackageMetadata block immediately after the magic
	// and compresses resources with LZ4-HC block compression.
	RPKGv2
)

func (v PackageVersion) String() string {
	switch v {
	case RPKGv1:
		return "RPKGv1"
	case RPKGv2:
		return "RPKGv2"
	default:
		return fmt.Sprintf("PackageVersion(%d)", int(v))
	}
}

// Magic bytes as they appear on disk, already reversed the way the archive
// stores them (four ASCII characters stored little-endian-first, i.e. the
// reverse of how they read as text).
var (
	magicV1 = [4]byte{'G', 'K', 'P', 'R'} // "RPKG" reversed
	magicV2 = [4]byte{'2', 'K', 'P', 'R'} // "RPK2" reversed
)

// ChunkType is the PackageMetadata chunk_type field (v2 archives only).
type ChunkType uint8

const (
	ChunkTypeStandard ChunkType = 0
	ChunkTypeAddon    ChunkType = 1
)

// PackageMetadata is the v2-only block immediately following the magic.
type PackageMetadata struct {
	Unknown      uint32 // always 1
	ChunkID      uint8
	ChunkType    ChunkType
	PatchID      uint8
	LanguageTag  [2]byte // "xx" in observed archives
}

// PatchId names either the base archive of a partition or one of its
// ordered patches.
type PatchId struct {
	// IsBase is true for the base archive; otherwise Index is the patch
	// number (1-based, as it appears in the "{partition}patch{n}.rpkg"
	// filename).
	IsBase bool
	Index  int
}

// Base is the sentinel PatchId naming a partition's base archive.
var Base = PatchId{IsBase: true}

// Patch returns the PatchId for patch number n (n >= 1).
func Patch(n int) PatchId { return PatchId{IsBase: false, Index: n} }

func (p PatchId) String() string {
	if p.IsBase {
		return "Base"
	}
	return fmt.Sprintf("Patch(%d)", p.Index)
}

// Less orders Base before every Patch, and patches by ascending index,
// matching the spec's "Base < Patch(1) < Patch(2) < ..." ordering.
func (p PatchId) Less(o PatchId) bool {
	if p.IsBase != o.IsBase {
		return p.IsBase
	}
	return p.Index < o.Index
}
