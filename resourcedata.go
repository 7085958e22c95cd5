package rpkg

import (
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
)

// ResourceData is one of the resource-source kinds enumerated in §4.G: the
// payload a PackageBuilder resource entry is backed by, and how (or
// whether) it should be compressed/scrambled at build time.
type ResourceData interface {
	// writeStored writes the on-disk (possibly compressed/scrambled)
	// bytes to w and reports the values needed to fill in the resource's
	// offset-table entry.
	writeStored(w io.Writer, version PackageVersion) (storedSize uint32, compressedSize uint32, scrambled bool, err error)
}

// FileData reads size bytes from a whole file and optionally compresses
// and/or scrambles them at build time.
type FileData struct {
	Path             string
	Size             uint32
	CompressionLevel *int // nil means "store uncompressed"
	Scramble         bool
}

func (d FileData) writeStored(w io.Writer, version PackageVersion) (uint32, uint32, bool, error) {
	raw := make([]byte, d.Size)
	f, err := os.Open(d.Path)
	if err != nil {
		return 0, 0, false, ioErrorf("open resource file", err)
	}
	defer f.Close()
	if _, err := io.ReadFull(f, raw); err != nil {
		return 0, 0, false, ioErrorf("read resource file", err)
	}
	return writeTransformed(w, raw, d.CompressionLevel, d.Scramble, version)
}

// FileAtOffsetData copies a byte range of a file verbatim — the bytes are
// already in their final stored form (used by the builder's duplicate
// path to preserve on-disk layout exactly).
type FileAtOffsetData struct {
	Path           string
	Offset         uint64
	Size           uint64
	CompressedSize uint32 // 0 means the range is stored uncompressed
	IsScrambled    bool
}

func (d FileAtOffsetData) writeStored(w io.Writer, version PackageVersion) (uint32, uint32, bool, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return 0, 0, false, ioErrorf("open resource file", err)
	}
	defer f.Close()
	if _, err := f.Seek(int64(d.Offset), io.SeekStart); err != nil {
		return 0, 0, false, ioErrorf("seek resource file", err)
	}
	buf := make([]byte, d.Size)
	if _, err := io.ReadFull(f, buf); err != nil {
		return 0, 0, false, ioErrorf("read resource file", err)
	}
	if _, err := w.Write(buf); err != nil {
		return 0, 0, false, ioErrorf("write resource payload", err)
	}
	return uint32(d.Size), d.CompressedSize, d.IsScrambled, nil
}

// MemoryData compresses and/or scrambles an in-memory buffer at build
// time.
type MemoryData struct {
	Data             []byte
	CompressionLevel *int
	Scramble         bool
}

func (d MemoryData) writeStored(w io.Writer, version PackageVersion) (uint32, uint32, bool, error) {
	return writeTransformed(w, d.Data, d.CompressionLevel, d.Scramble, version)
}

// CompressedMemoryData is an in-memory buffer already in its final stored
// form (already compressed if CompressedSize is non-zero, and already
// scrambled if IsScrambled).
type CompressedMemoryData struct {
	Data           []byte
	CompressedSize uint32 // 0 means Data is stored uncompressed
	IsScrambled    bool
}

func (d CompressedMemoryData) writeStored(w io.Writer, version PackageVersion) (uint32, uint32, bool, error) {
	if _, err := w.Write(d.Data); err != nil {
		return 0, 0, false, ioErrorf("write resource payload", err)
	}
	return uint32(len(d.Data)), d.CompressedSize, d.IsScrambled, nil
}

// writeTransformed compresses raw (if level != nil) per the version's
// compression algorithm (§4.G: LZ4 block for v1, LZ4-HC block for v2),
// then writes the result to w through a scrambling filter (if
// doScramble). The filter XORs bytes as they're written, so
// compression always runs first against the unscrambled bytes — the
// compress-then-scramble write-side ordering (§9) falls out of the
// order these two steps are composed in, rather than needing a
// separate pass over a copied buffer.
//
// lz4's CompressBlock/CompressBlockHC return n == 0, nil when raw does
// not compress (the block would grow) — callers are required to fall
// back to storing the input uncompressed in that case, per the
// package's own documented contract. Recording compressed_size = 0
// when that happens is what tells a reader "stored uncompressed", so
// skipping this check would silently truncate the resource on read.
func writeTransformed(w io.Writer, raw []byte, level *int, doScramble bool, version PackageVersion) (storedSize uint32, compressedSize uint32, scrambled bool, err error) {
	stored := raw
	var csize uint32

	if level != nil {
		dst := make([]byte, lz4.CompressBlockBound(len(raw)))
		var n int
		var cerr error
		switch version {
		case RPKGv2:
			c := lz4.CompressorHC{Level: lz4.CompressionLevel(*level)}
			n, cerr = c.CompressBlock(raw, dst)
		default:
			var c lz4.Compressor
			n, cerr = c.CompressBlock(raw, dst)
		}
		if cerr != nil {
			return 0, 0, false, fmt.Errorf("rpkg: lz4 compression failed: %w", cerr)
		}
		if n > 0 {
			stored = dst[:n]
			csize = uint32(n)
		}
	}

	var sink io.Writer = w
	if doScramble {
		sink = newScrambleWriter(w)
	}
	if _, err := sink.Write(stored); err != nil {
		return 0, 0, false, ioErrorf("write resource payload", err)
	}

	return uint32(len(stored)), csize, doScramble, nil
}
