package rpkg

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/glacierarchive/rpkg/config"
)

// WriteSeeker is the capability the builder needs of its output: ordinary
// sequential writes, plus the ability to seek back within what has
// already been written in order to back-patch header and offset-table
// fields once their final values are known (§4.G step 5). *os.File and
// *MemoryWriter both satisfy it.
type WriteSeeker interface {
	io.Writer
	io.Seeker
}

type buildResource struct {
	rrid                    uint64
	typ                     [4]byte
	statesChunkSize         uint32
	dataSize                uint32
	systemMemoryRequirement uint32
	videoMemoryRequirement  uint32
	references              []Reference
	data                    ResourceData
}

// PackageBuilder constructs a new archive from scratch, from an in-memory
// resource list, or (via FileAtOffsetData) by duplicating an existing
// archive's payloads while rewriting its tables — the latter path must
// reproduce the source archive byte-for-byte when nothing is modified
// (§4.G, §8).
type PackageBuilder struct {
	Version              PackageVersion
	Metadata             *PackageMetadata // required iff Version == RPKGv2
	PatchID              PatchId
	UseLegacyReferences  bool

	resources []buildResource
	unneeded  []uint64
}

// NewBuilder returns an empty builder for the given version/patch id.
func NewBuilder(version PackageVersion, patchID PatchId) *PackageBuilder {
	return &PackageBuilder{Version: version, PatchID: patchID}
}

// NewBuilderFromConfig returns an empty builder whose reference-chunk
// layout follows cfg.References.UseLegacyLayout, instead of defaulting
// to the new layout.
func NewBuilderFromConfig(cfg config.Config, version PackageVersion, patchID PatchId) *PackageBuilder {
	b := NewBuilder(version, patchID)
	b.UseLegacyReferences = cfg.References.UseLegacyLayout
	return b
}

// AddResource appends one resource entry, in the order it should appear
// in the output archive's offset table.
func (b *PackageBuilder) AddResource(rrid uint64, typ [4]byte, dataSize uint32, data ResourceData, references []Reference, statesChunkSize, systemMemoryRequirement, videoMemoryRequirement uint32) error {
	b.resources = append(b.resources, buildResource{
		rrid:                    rrid,
		typ:                     typ,
		statesChunkSize:         statesChunkSize,
		dataSize:                dataSize,
		systemMemoryRequirement: systemMemoryRequirement,
		videoMemoryRequirement:  videoMemoryRequirement,
		references:              references,
		data:                    data,
	})
	return nil
}

// AddUnneeded marks rrid as removed by this archive. Only valid for patch
// archives; see ErrUnneededResourcesNotSupported.
func (b *PackageBuilder) AddUnneeded(rrid uint64) {
	b.unneeded = append(b.unneeded, rrid)
}

// Build serializes the archive to w per the sequence in §4.G:
//
//  1. header with placeholder sizes
//  2. offset table with placeholder data_offset/flags, remembering each
//     entry's file position
//  3. metadata table (reference chunks are fully known up front, so no
//     back-patch is needed for them)
//  4. back-patch the header's table-size fields
//  5. resource payloads, back-patching each offset-table entry once its
//     final position and stored form are known
func (b *PackageBuilder) Build(w WriteSeeker) error {
	if len(b.unneeded) > 0 && b.PatchID.IsBase {
		return ErrUnneededResourcesNotSupported
	}
	if b.Version == RPKGv2 && b.Metadata == nil {
		return formatErrorf("builder.metadata", ErrInvalidArchive)
	}

	var magic [4]byte
	if b.Version == RPKGv2 {
		magic = magicV2
	} else {
		magic = magicV1
	}
	if _, err := w.Write(magic[:]); err != nil {
		return ioErrorf("write magic", err)
	}

	if b.Version == RPKGv2 {
		if err := writeAll(w,
			b.Metadata.Unknown,
			b.Metadata.ChunkID,
			uint8(b.Metadata.ChunkType),
			b.Metadata.PatchID,
			b.Metadata.LanguageTag,
		); err != nil {
			return err
		}
	}

	headerPos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return ioErrorf("seek", err)
	}
	if err := writeAll(w, uint32(len(b.resources)), uint32(0), uint32(0)); err != nil {
		return err
	}

	if !b.PatchID.IsBase {
		if err := writeAll(w, uint32(len(b.unneeded))); err != nil {
			return err
		}
		for _, rrid := range b.unneeded {
			if err := writeAll(w, rrid); err != nil {
				return err
			}
		}
	}

	offsetTableStart, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return ioErrorf("seek", err)
	}

	offsetPositions := make([]int64, len(b.resources))
	for i, r := range b.resources {
		pos, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return ioErrorf("seek", err)
		}
		offsetPositions[i] = pos
		if err := writeAll(w, r.rrid, uint64(0), uint32(0)); err != nil {
			return err
		}
	}

	offsetTableEnd, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return ioErrorf("seek", err)
	}
	offsetTableSize := offsetTableEnd - offsetTableStart
	if offsetTableSize > math.MaxUint32 {
		return ErrTooManyResources
	}

	metadataTableStart := offsetTableEnd
	for _, r := range b.resources {
		if len(r.typ) != 4 {
			return ErrInvalidResourceType
		}
		refChunk, err := serializeReferenceChunk(r.references, b.UseLegacyReferences)
		if err != nil {
			return err
		}
		if len(refChunk) > math.MaxUint32 {
			return ErrTooManyReferences
		}
		typRev := reverse4(r.typ)
		if err := writeAll(w,
			typRev,
			uint32(len(refChunk)),
			r.statesChunkSize,
			r.dataSize,
			r.systemMemoryRequirement,
			r.videoMemoryRequirement,
		); err != nil {
			return err
		}
		if len(refChunk) > 0 {
			if _, err := w.Write(refChunk); err != nil {
				return ioErrorf("write reference chunk", err)
			}
		}
	}

	metadataTableEnd, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return ioErrorf("seek", err)
	}
	metadataTableSize := metadataTableEnd - metadataTableStart
	if metadataTableSize > math.MaxUint32 {
		return ErrTooManyResources
	}

	// Back-patch header.offset_table_size / header.metadata_table_size.
	// The header layout is: file_count(4) offset_table_size(4)
	// metadata_table_size(4), so offset_table_size sits 4 bytes after
	// headerPos.
	if _, err := w.Seek(headerPos+4, io.SeekStart); err != nil {
		return ioErrorf("seek", err)
	}
	if err := writeAll(w, uint32(offsetTableSize), uint32(metadataTableSize)); err != nil {
		return err
	}
	if _, err := w.Seek(metadataTableEnd, io.SeekStart); err != nil {
		return ioErrorf("seek", err)
	}

	for i, r := range b.resources {
		dataOffset, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return ioErrorf("seek", err)
		}
		storedSize, compressedSize, scrambled, err := r.data.writeStored(w, b.Version)
		if err != nil {
			return err
		}
		_ = storedSize

		resumePos, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return ioErrorf("seek", err)
		}
		if _, err := w.Seek(offsetPositions[i]+8, io.SeekStart); err != nil { // skip rrid(8)
			return ioErrorf("seek", err)
		}
		flags := packOffsetFlags(compressedSize, scrambled)
		if err := writeAll(w, dataOffset, flags); err != nil {
			return err
		}
		if _, err := w.Seek(resumePos, io.SeekStart); err != nil {
			return ioErrorf("seek", err)
		}
	}

	return nil
}

// writeAll writes each value in order with binary.Write, wrapping the
// first failure as an IOError.
func writeAll(w io.Writer, values ...interface{}) error {
	for _, v := range values {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return ioErrorf("write", err)
		}
	}
	return nil
}

// serializeReferenceChunk encodes refs into its on-disk bytes, choosing
// the legacy or new layout per useLegacy.
func serializeReferenceChunk(refs []Reference, useLegacy bool) ([]byte, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	var buf []byte
	word := packCountAndFlags(len(refs), !useLegacy)
	buf = appendUint32(buf, word)

	if useLegacy {
		for _, r := range refs {
			buf = appendUint64(buf, r.RRID)
		}
		for _, r := range refs {
			buf = append(buf, r.legacyByte())
		}
	} else {
		for _, r := range refs {
			buf = append(buf, r.newByte())
		}
		for _, r := range refs {
			buf = appendUint64(buf, r.RRID)
		}
	}

	return buf, nil
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendUint64(buf []byte, v uint64) []byte {
	return append(buf,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56),
	)
}
