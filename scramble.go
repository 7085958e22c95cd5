package rpkg

import "io"

// scrambleKey is the fixed 8-byte rolling XOR key ("scramble") applied to
// a resource's stored bytes on disk, compressed or not (§6).
var scrambleKey = [8]byte{0xDC, 0x45, 0xA6, 0x9C, 0xD3, 0x72, 0x4C, 0xAB}

// scramble XORs b in place against scrambleKey, repeated. The transform is
// involutive: scramble(scramble(x)) == x, so the same routine serves both
// scrambling and descrambling (§8 universal invariant).
func scramble(b []byte) {
	for i := range b {
		b[i] ^= scrambleKey[i%len(scrambleKey)]
	}
}

// scrambleWriter is a filtering io.Writer that XORs outgoing bytes against
// scrambleKey with a running index, used by the builder so that
// compression and scrambling can be composed: compression runs first,
// writing into a scrambleWriter that wraps the real output sink (§4.G).
type scrambleWriter struct {
	w     io.Writer
	index int
}

func newScrambleWriter(w io.Writer) *scrambleWriter {
	return &scrambleWriter{w: w}
}

func (s *scrambleWriter) Write(p []byte) (int, error) {
	out := make([]byte, len(p))
	for i, c := range p {
		out[i] = c ^ scrambleKey[s.index%len(scrambleKey)]
		s.index++
	}
	return s.w.Write(out)
}
