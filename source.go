package rpkg

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// source backs a ResourcePackage with the bytes it was parsed from, so
// that ReadResource can later seek into the original archive. The read
// path is naturally expressed over a memory map (DESIGN NOTES §9); a
// freshly-mapped file and an in-memory buffer both reduce to "a []byte
// view of the whole archive".
type source interface {
	bytes() []byte
	Close() error
}

type fileSource struct {
	f *os.File
	m mmap.MMap
}

func (s *fileSource) bytes() []byte { return s.m }

func (s *fileSource) Close() error {
	uerr := s.m.Unmap()
	cerr := s.f.Close()
	if uerr != nil {
		return ioErrorf("unmap archive", uerr)
	}
	if cerr != nil {
		return ioErrorf("close archive", cerr)
	}
	return nil
}

type memorySource struct {
	b []byte
}

func (s *memorySource) bytes() []byte { return s.b }
func (s *memorySource) Close() error  { return nil }
