package rpkg

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	mmap "github.com/edsrzf/mmap-go"
)

// ResourceEntry is one resource's directory entry plus its metadata,
// stored together because the offset table and metadata table are always
// consulted together for any resource the caller asks about.
type ResourceEntry struct {
	Offset PackageOffsetInfo
	Header ResourceHeader
}

// ResourcePackage is a single parsed archive file, immutable after
// parsing except for ReadResource, which is a pure function of the
// archive plus an rrid (§3.4).
//
// entries/index form an insertion-ordered map keyed by rrid: entries
// preserves on-disk offset-table order (required for the builder's
// round-trip guarantee, per DESIGN NOTES §9), and index gives O(1)
// lookup from rrid to its position in entries.
type ResourcePackage struct {
	Version            PackageVersion
	Metadata           *PackageMetadata // non-nil only for RPKGv2
	IsPatch            bool
	UnneededResources  []uint64

	entries []ResourceEntry
	index   map[uint64]int

	src source
}

// FromFile parses the archive at path. is_patch is inferred from the
// filename containing the substring "patch" (case-insensitively), per
// §4.B. The returned package must be closed with Close when it retains a
// file handle.
func FromFile(path string) (*ResourcePackage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioErrorf("open archive", err)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, ioErrorf("mmap archive", err)
	}

	isPatch := strings.Contains(strings.ToLower(filepath.Base(path)), "patch")

	pkg, err := parsePackage(m, isPatch)
	if err != nil {
		m.Unmap()
		f.Close()
		return nil, err
	}
	pkg.src = &fileSource{f: f, m: m}
	return pkg, nil
}

// FromMemory parses buf as an archive. Since the is_patch filename
// heuristic does not apply to an in-memory buffer, the caller must state
// it explicitly.
func FromMemory(buf []byte, isPatch bool) (*ResourcePackage, error) {
	pkg, err := parsePackage(buf, isPatch)
	if err != nil {
		return nil, err
	}
	pkg.src = &memorySource{b: buf}
	return pkg, nil
}

// Close releases the package's underlying source (a no-op for
// memory-backed packages).
func (p *ResourcePackage) Close() error {
	if p.src == nil {
		return nil
	}
	return p.src.Close()
}

// FileCount returns the number of resources in the archive's directory.
func (p *ResourcePackage) FileCount() int { return len(p.entries) }

// Resources returns every rrid in the archive, in on-disk offset-table
// order.
func (p *ResourcePackage) Resources() []uint64 {
	out := make([]uint64, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.Offset.RRID
	}
	return out
}

// Has reports whether rrid is present in this archive's offset table.
func (p *ResourcePackage) Has(rrid uint64) bool {
	_, ok := p.index[rrid]
	return ok
}

// Entry returns the directory+metadata entry for rrid.
func (p *ResourcePackage) Entry(rrid uint64) (ResourceEntry, bool) {
	i, ok := p.index[rrid]
	if !ok {
		return ResourceEntry{}, false
	}
	return p.entries[i], true
}

func parsePackage(data []byte, isPatch bool) (*ResourcePackage, error) {
	r := bytes.NewReader(data)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, formatErrorf("magic", err)
	}

	var version PackageVersion
	switch magic {
	case magicV1:
		version = RPKGv1
	case magicV2:
		version = RPKGv2
	default:
		return nil, formatErrorf("magic", ErrInvalidArchive)
	}

	pkg := &ResourcePackage{Version: version, IsPatch: isPatch}

	var err error
	read := func(where string, v interface{}) {
		if err != nil {
			return
		}
		if e := binary.Read(r, binary.LittleEndian, v); e != nil {
			err = formatErrorf(where, e)
		}
	}

	if version == RPKGv2 {
		md := PackageMetadata{}
		read("metadata.unknown", &md.Unknown)
		read("metadata.chunk_id", &md.ChunkID)
		var chunkType uint8
		read("metadata.chunk_type", &chunkType)
		md.ChunkType = ChunkType(chunkType)
		read("metadata.patch_id", &md.PatchID)
		read("metadata.language_tag", &md.LanguageTag)
		if err != nil {
			return nil, err
		}
		pkg.Metadata = &md
	}

	var fileCount, offsetTableSize, metadataTableSize uint32
	read("header.file_count", &fileCount)
	read("header.offset_table_size", &offsetTableSize)
	read("header.metadata_table_size", &metadataTableSize)
	if err != nil {
		return nil, err
	}
	_ = offsetTableSize
	_ = metadataTableSize

	if isPatch {
		var unneededCount uint32
		read("unneeded_resource_count", &unneededCount)
		if err != nil {
			return nil, err
		}
		pkg.UnneededResources = make([]uint64, unneededCount)
		for i := range pkg.UnneededResources {
			read("unneeded_resources[]", &pkg.UnneededResources[i])
		}
		if err != nil {
			return nil, err
		}
	}

	offsets := make([]PackageOffsetInfo, fileCount)
	for i := range offsets {
		var rrid, dataOffset uint64
		var flags uint32
		read("offset table entry.rrid", &rrid)
		read("offset table entry.data_offset", &dataOffset)
		read("offset table entry.flags", &flags)
		if err != nil {
			return nil, err
		}
		cs, scrambled := unpackOffsetFlags(flags)
		offsets[i] = PackageOffsetInfo{
			RRID:           rrid,
			DataOffset:     dataOffset,
			CompressedSize: cs,
			IsScrambled:    scrambled,
		}
	}

	pkg.entries = make([]ResourceEntry, fileCount)
	pkg.index = make(map[uint64]int, fileCount)
	for i := uint32(0); i < fileCount; i++ {
		hdr, herr := readResourceHeader(r)
		if herr != nil {
			return nil, herr
		}
		pkg.entries[i] = ResourceEntry{Offset: offsets[i], Header: hdr}
		pkg.index[offsets[i].RRID] = int(i)
	}

	return pkg, nil
}

func readResourceHeader(r *bytes.Reader) (ResourceHeader, error) {
	var h ResourceHeader

	var typeRev [4]byte
	if err := binary.Read(r, binary.LittleEndian, &typeRev); err != nil {
		return h, formatErrorf("resource header.type", err)
	}
	h.Type = reverse4(typeRev)

	fields := []struct {
		name string
		p    *uint32
	}{
		{"references_chunk_size", &h.ReferencesChunkSize},
		{"states_chunk_size", &h.StatesChunkSize},
		{"data_size", &h.DataSize},
		{"system_memory_requirement", &h.SystemMemoryRequirement},
		{"video_memory_requirement", &h.VideoMemoryRequirement},
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f.p); err != nil {
			return h, formatErrorf("resource header."+f.name, err)
		}
	}

	if h.ReferencesChunkSize > 0 {
		refs, newFormat, err := readReferenceChunk(r)
		if err != nil {
			return h, err
		}
		h.References = refs
		h.ReferencesNewFormat = newFormat
	}

	return h, nil
}

func readReferenceChunk(r *bytes.Reader) ([]Reference, bool, error) {
	var word uint32
	if err := binary.Read(r, binary.LittleEndian, &word); err != nil {
		return nil, false, formatErrorf("reference chunk.count_and_flags", err)
	}
	count, newFormat := unpackCountAndFlags(word)

	refs := make([]Reference, count)
	if newFormat {
		flagBytes := make([]byte, count)
		if _, err := io.ReadFull(r, flagBytes); err != nil {
			return nil, false, formatErrorf("reference chunk.flags", err)
		}
		for i := 0; i < count; i++ {
			var rrid uint64
			if err := binary.Read(r, binary.LittleEndian, &rrid); err != nil {
				return nil, false, formatErrorf("reference chunk.rrid", err)
			}
			refs[i] = referenceFromNewByte(rrid, flagBytes[i])
		}
	} else {
		rrids := make([]uint64, count)
		for i := range rrids {
			if err := binary.Read(r, binary.LittleEndian, &rrids[i]); err != nil {
				return nil, false, formatErrorf("reference chunk.rrid", err)
			}
		}
		flagBytes := make([]byte, count)
		if _, err := io.ReadFull(r, flagBytes); err != nil {
			return nil, false, formatErrorf("reference chunk.flags", err)
		}
		for i := 0; i < count; i++ {
			refs[i] = referenceFromLegacyByte(rrids[i], flagBytes[i])
		}
	}

	return refs, newFormat, nil
}
