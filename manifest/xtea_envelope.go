package manifest

import (
	"encoding/binary"
	"hash/crc32"

	"github.com/glacierarchive/rpkg/internal/xtea"
)

// envelopeHeader is the fixed 16-byte magic that precedes an
// XTEA-encrypted manifest. It is immediately followed by a 4-byte
// little-endian CRC32 of the ciphertext, then the ciphertext itself
// (§4.E). The shape — peek a fixed magic, conditionally consume a
// prefix block before the real content resumes — mirrors an MPQ
// archive's optional userData block preceding its real header.
var envelopeHeader = [16]byte{
	0x22, 0x3D, 0x6F, 0x9A, 0xB3, 0xF8, 0xFE, 0xB6,
	0x61, 0xD9, 0xCC, 0x1C, 0x62, 0xDE, 0x83, 0x41,
}

// ErrEnvelopeTooShort is returned when a buffer claims the envelope
// header but is too short to hold it plus the CRC32 word.
var ErrEnvelopeTooShort = newFormatError("manifest envelope: input too short")

// ErrChecksumMismatch is returned when the stored CRC32 does not match
// the ciphertext (checked before decryption).
var ErrChecksumMismatch = newFormatError("manifest envelope: checksum mismatch")

// ErrCiphertextLength is returned when the ciphertext length is not a
// multiple of 8 (XTEA's block size).
var ErrCiphertextLength = newFormatError("manifest envelope: ciphertext length not a multiple of 8")

func newFormatError(msg string) error { return &envelopeError{msg} }

type envelopeError struct{ msg string }

func (e *envelopeError) Error() string { return e.msg }

// isEncrypted reports whether buf begins with the envelope's magic
// header.
func isEncrypted(buf []byte) bool {
	return len(buf) >= len(envelopeHeader) && bytesEqual(buf[:len(envelopeHeader)], envelopeHeader[:])
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// decryptEnvelope strips the header and checksum, decrypts the
// remaining ciphertext under xtea.DefaultKey, and validates the CRC32.
func decryptEnvelope(buf []byte) ([]byte, error) {
	const payloadStart = len(envelopeHeader) + 4
	if len(buf) < payloadStart {
		return nil, ErrEnvelopeTooShort
	}

	storedChecksum := binary.LittleEndian.Uint32(buf[len(envelopeHeader):payloadStart])
	ciphertext := append([]byte(nil), buf[payloadStart:]...)
	if len(ciphertext)%8 != 0 {
		return nil, ErrCiphertextLength
	}

	if crc32.ChecksumIEEE(ciphertext) != storedChecksum {
		return nil, ErrChecksumMismatch
	}

	if err := xtea.Decrypt(ciphertext, xtea.DefaultKey); err != nil {
		return nil, err
	}
	return ciphertext, nil
}
