package rpkg

import (
	"bytes"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestRoundTripSimpleV2(t *testing.T) {
	b := NewBuilder(RPKGv2, Base)
	b.Metadata = &PackageMetadata{Unknown: 1, ChunkID: 0, ChunkType: ChunkTypeStandard, LanguageTag: [2]byte{'x', 'x'}}

	payload := []byte("hello resource world")
	if err := b.AddResource(0x1234, [4]byte{'T', 'E', 'M', 'P'}, uint32(len(payload)), MemoryData{Data: payload}, nil, 0, 0, 0); err != nil {
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
	if pkg.Version != RPKGv2 {
		t.Errorf("Version = %v, want RPKGv2", pkg.Version)
	}
	if !pkg.Has(0x1234) {
		t.Fatalf("expected rrid 0x1234 to be present")
	}

	got, err := pkg.ReadResource(0x1234)
	if err != nil {
		t.Fatalf("ReadResource: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("ReadResource() = %q, want %q", got, payload)
	}
}

func TestRoundTripCompressedAndScrambledV1(t *testing.T) {
	b := NewBuilder(RPKGv1, Base)

	payload := bytes.Repeat([]byte("compress me please "), 50)
	data := MemoryData{Data: payload, CompressionLevel: intPtr(0), Scramble: true}
	if err := b.AddResource(0xABCD, [4]byte{'D', 'A', 'T', 'A'}, uint32(len(payload)), data, nil, 0, 0, 0); err != nil {
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

	entry, ok := pkg.Entry(0xABCD)
	if !ok {
		t.Fatalf("expected entry for rrid 0xABCD")
	}
	if !entry.Offset.IsScrambled {
		t.Errorf("expected entry to be scrambled")
	}
	if !entry.Offset.IsCompressed() {
		t.Errorf("expected entry to be compressed")
	}

	got, err := pkg.ReadResource(0xABCD)
	if err != nil {
		t.Fatalf("ReadResource: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("ReadResource() mismatch: got %d bytes, want %d", len(got), len(payload))
	}
}

func TestRoundTripLegacyReferences(t *testing.T) {
	b := NewBuilder(RPKGv2, Base)
	b.Metadata = &PackageMetadata{Unknown: 1, LanguageTag: [2]byte{'x', 'x'}}
	b.UseLegacyReferences = true

	refs := []Reference{
		{RRID: 0x1, Type: ReferenceInstall, RuntimeAcquired: true},
		{RRID: 0x2, Type: ReferenceWeak},
		{RRID: 0x3, Type: ReferenceNormal},
	}
	payload := []byte("x")
	if err := b.AddResource(0x9999, [4]byte{'T', 'E', 'M', 'P'}, uint32(len(payload)), MemoryData{Data: payload}, refs, 0, 0, 0); err != nil {
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
	entry, ok := pkg.Entry(0x9999)
	if !ok {
		t.Fatalf("expected entry for rrid 0x9999")
	}
	if entry.Header.ReferencesNewFormat {
		t.Errorf("expected legacy layout to round trip as legacy")
	}
	if len(entry.Header.References) != 3 {
		t.Fatalf("expected 3 references, got %d", len(entry.Header.References))
	}
	if entry.Header.References[0].Type != ReferenceInstall || !entry.Header.References[0].IsAcquired() {
		t.Errorf("reference 0 mismatch: %+v", entry.Header.References[0])
	}
	if entry.Header.References[1].Type != ReferenceWeak {
		t.Errorf("reference 1 mismatch: %+v", entry.Header.References[1])
	}
}

func TestReadResourceNotFound(t *testing.T) {
	b := NewBuilder(RPKGv1, Base)
	w := NewMemoryWriter()
	if err := b.Build(w); err != nil {
		t.Fatalf("Build: %v", err)
	}
	pkg, err := FromMemory(w.Bytes(), false)
	if err != nil {
		t.Fatalf("FromMemory: %v", err)
	}
	if _, err := pkg.ReadResource(0x1); err == nil {
		t.Errorf("expected ErrResourceNotFound")
	}
}

func TestUnneededResourcesOnBaseRejected(t *testing.T) {
	b := NewBuilder(RPKGv1, Base)
	b.AddUnneeded(0x1)
	w := NewMemoryWriter()
	if err := b.Build(w); err == nil {
		t.Errorf("expected ErrUnneededResourcesNotSupported for a base archive")
	}
}

func TestPatchArchiveUnneededResources(t *testing.T) {
	b := NewBuilder(RPKGv1, Patch(1))
	b.AddUnneeded(0x42)
	w := NewMemoryWriter()
	if err := b.Build(w); err != nil {
		t.Fatalf("Build: %v", err)
	}
	pkg, err := FromMemory(w.Bytes(), true)
	if err != nil {
		t.Fatalf("FromMemory: %v", err)
	}
	if len(pkg.UnneededResources) != 1 || pkg.UnneededResources[0] != 0x42 {
		t.Errorf("UnneededResources = %v", pkg.UnneededResources)
	}
}
