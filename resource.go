package rpkg

import (
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// ReadResource extracts and returns the raw bytes of rrid (Component C).
//
// Order of operations, per §4.C (and the corresponding ordering note in
// §4.C/§9): the stored bytes are read, then descrambled, then
// decompressed — descrambling must happen before decompression because
// scrambling is applied to the already-compressed bytes on write.
func (p *ResourcePackage) ReadResource(rrid uint64) ([]byte, error) {
	entry, ok := p.Entry(rrid)
	if !ok {
		return nil, fmt.Errorf("rrid %#x: %w", rrid, ErrResourceNotFound)
	}

	if p.src == nil {
		return nil, ErrNoSource
	}

	storedSize := entry.Offset.CompressedSize
	if storedSize == 0 {
		storedSize = entry.Header.DataSize
	}

	all := p.src.bytes()
	start := entry.Offset.DataOffset
	end := start + uint64(storedSize)
	if end > uint64(len(all)) {
		return nil, formatErrorf(fmt.Sprintf("resource %#x payload", rrid), ErrInvalidArchive)
	}

	stored := make([]byte, storedSize)
	copy(stored, all[start:end])

	if entry.Offset.IsScrambled {
		scramble(stored)
	}

	if entry.Offset.CompressedSize > 0 {
		out := make([]byte, entry.Header.DataSize)
		n, err := lz4.UncompressBlock(stored, out)
		if err != nil {
			return nil, fmt.Errorf("rrid %#x: %w: %v", rrid, ErrLz4Decompression, err)
		}
		return out[:n], nil
	}

	return stored, nil
}
