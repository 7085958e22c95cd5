package rpkg

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestBuilderRejectsMissingMetadataOnV2(t *testing.T) {
	b := NewBuilder(RPKGv2, Base)
	w := NewMemoryWriter()
	if err := b.Build(w); err == nil {
		t.Errorf("expected Build to reject a v2 archive with no metadata")
	}
}

func TestBuilderPreservesOffsetTableOrder(t *testing.T) {
	b := NewBuilder(RPKGv1, Base)
	ids := []uint64{0x5, 0x1, 0x9, 0x3}
	for _, id := range ids {
		if err := b.AddResource(id, [4]byte{'T', 'E', 'M', 'P'}, 1, MemoryData{Data: []byte{0xAA}}, nil, 0, 0, 0); err != nil {
			t.Fatalf("AddResource: %v", err)
		}
	}

	w := NewMemoryWriter()
	if err := b.Build(w); err != nil {
		t.Fatalf("Build: %v", err)
	}

	pkg, err := FromMemory(w.Bytes(), false)
	if err != nil {
		t.Fatalf("FromMemory: %v", err)
	}

	got := pkg.Resources()
	if len(got) != len(ids) {
		t.Fatalf("Resources() returned %d entries, want %d", len(got), len(ids))
	}
	for i, id := range ids {
		if got[i] != id {
			t.Errorf("Resources()[%d] = %#x, want %#x", i, got[i], id)
		}
	}
}

func TestBuilderDuplicatesArchiveByteForByte(t *testing.T) {
	dir := t.TempDir()

	src := NewBuilder(RPKGv1, Base)
	payload := []byte("duplicate me exactly")
	if err := src.AddResource(0x77, [4]byte{'T', 'E', 'M', 'P'}, uint32(len(payload)), MemoryData{Data: payload}, nil, 0, 0, 0); err != nil {
		t.Fatalf("AddResource: %v", err)
	}
	w := NewMemoryWriter()
	if err := src.Build(w); err != nil {
		t.Fatalf("Build: %v", err)
	}

	srcPath := filepath.Join(dir, "source.rpkg")
	if err := os.WriteFile(srcPath, w.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	parsed, err := FromFile(srcPath)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	defer parsed.Close()

	entry, ok := parsed.Entry(0x77)
	if !ok {
		t.Fatalf("expected entry 0x77 in source archive")
	}

	dup := NewBuilder(RPKGv1, Base)
	data := FileAtOffsetData{
		Path:           srcPath,
		Offset:         entry.Offset.DataOffset,
		Size:           uint64(entry.Header.DataSize),
		CompressedSize: entry.Offset.CompressedSize,
		IsScrambled:    entry.Offset.IsScrambled,
	}
	if err := dup.AddResource(0x77, entry.Header.Type, entry.Header.DataSize, data, nil, 0, 0, 0); err != nil {
		t.Fatalf("AddResource: %v", err)
	}

	dupW := NewMemoryWriter()
	if err := dup.Build(dupW); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !bytes.Equal(w.Bytes(), dupW.Bytes()) {
		t.Errorf("duplicated archive bytes differ from the source archive:\n got  %x\n want %x", dupW.Bytes(), w.Bytes())
	}

	dupPkg, err := FromMemory(dupW.Bytes(), false)
	if err != nil {
		t.Fatalf("FromMemory: %v", err)
	}

	got, err := dupPkg.ReadResource(0x77)
	if err != nil {
		t.Fatalf("ReadResource: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("duplicated resource = %q, want %q", got, payload)
	}
}

func TestBuilderRejectsTooManyReferencesIsUnreachableButChunkSizeRecorded(t *testing.T) {
	b := NewBuilder(RPKGv1, Base)
	refs := []Reference{{RRID: 1, Type: ReferenceNormal}, {RRID: 2, Type: ReferenceWeak}}
	payload := []byte("x")
	if err := b.AddResource(0x1, [4]byte{'T', 'E', 'M', 'P'}, uint32(len(payload)), MemoryData{Data: payload}, refs, 0, 0, 0); err != nil {
		t.Fatalf("AddResource: %v", err)
	}
	w := NewMemoryWriter()
	if err := b.Build(w); err != nil {
		t.Fatalf("Build: %v", err)
	}
	pkg, err := FromMemory(w.Bytes(), false)
	if err != nil {
		t.Fatalf("FromMemory: %v", err)
	}
	entry, ok := pkg.Entry(0x1)
	if !ok {
		t.Fatalf("expected entry 0x1")
	}
	if entry.Header.ReferencesChunkSize == 0 {
		t.Errorf("expected a non-zero references_chunk_size")
	}
	if len(entry.Header.References) != 2 {
		t.Errorf("References = %v, want 2 entries", entry.Header.References)
	}
}
