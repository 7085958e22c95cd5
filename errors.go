package rpkg

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers should compare with errors.Is, not ==, since
// most call sites wrap these with extra context.
var (
	// ErrInvalidArchive indicates the input does not begin with a
	// recognized RPKG magic, or a structural field failed validation.
	ErrInvalidArchive = errors.New("rpkg: invalid archive")

	// ErrResourceNotFound indicates the requested rrid is not present in
	// the offset table of the archive (or partition) being queried.
	ErrResourceNotFound = errors.New("rpkg: resource not found")

	// ErrNoSource indicates a ResourcePackage was parsed without
	// retaining a reusable source (e.g. a one-shot io.Reader) and so
	// cannot serve ReadResource.
	ErrNoSource = errors.New("rpkg: package was not constructed with a reusable source")

	// ErrLz4Decompression indicates the LZ4 decoder rejected a
	// resource's compressed bytes. The byte range read from disk was
	// intact; the resource itself is corrupt or was compressed with an
	// incompatible variant.
	ErrLz4Decompression = errors.New("rpkg: lz4 decompression failed")

	// ErrUnneededResourcesNotSupported is returned by the builder when
	// unneeded ids are supplied for a Base patch id.
	ErrUnneededResourcesNotSupported = errors.New("rpkg: base archives cannot carry unneeded resources")

	// ErrTooManyResources is returned by the builder when the offset or
	// metadata table would exceed the 32-bit size field that records it.
	ErrTooManyResources = errors.New("rpkg: table size exceeds uint32 range")

	// ErrTooManyReferences is returned by the builder when a single
	// resource's reference chunk would exceed the 32-bit size field that
	// records it.
	ErrTooManyReferences = errors.New("rpkg: reference chunk exceeds uint32 range")

	// ErrInvalidResourceType is returned by the builder when a resource
	// type tag is not exactly 4 bytes.
	ErrInvalidResourceType = errors.New("rpkg: resource type must be exactly 4 bytes")
)

// FormatError wraps a decode failure at a known point in the archive with
// enough context to locate it without exposing raw byte offsets to callers
// who only want the sentinel.
type FormatError struct {
	// Where names the field or section being decoded, e.g. "header",
	// "offset table[12]", "reference chunk".
	Where string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("rpkg: parsing %s: %v", e.Where, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidArchive
}

// IOError wraps an underlying filesystem/stream error encountered while
// reading or writing an archive.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("rpkg: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func formatErrorf(where string, err error) error {
	return &FormatError{Where: where, Err: err}
}

func ioErrorf(op string, err error) error {
	return &IOError{Op: op, Err: err}
}
