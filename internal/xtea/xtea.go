// Package xtea implements the fixed-key, fixed-round XTEA variant used to
// obfuscate the partition-definition manifest and related text configs.
// It intentionally hard-codes the round count and delta constant rather
// than exposing them as parameters: every known caller uses exactly this
// configuration, and a general-purpose XTEA implementation's parameters
// would hide the bit-exact operations callers depend on.
package xtea

const (
	rounds = 32
	delta  = 0x9E3779B9
)

// DefaultKey is the key used for thumbs.dat and packagedefinition.txt.
var DefaultKey = [4]uint32{0x30F95282, 0x1F48C419, 0x295F8548, 0x2A78366D}

// LocrKey is the key used for LOCR/TEXTLIST localization blobs.
var LocrKey = [4]uint32{0x53527737, 0x7506499E, 0xBD39AEE3, 0xA59E7268}

// EncryptBlock encrypts one 64-bit little-endian block (v[0], v[1]) in
// place under key.
func EncryptBlock(v *[2]uint32, key [4]uint32) {
	var sum uint32
	for i := 0; i < rounds; i++ {
		v[0] += (((v[1] << 4) ^ (v[1] >> 5)) + v[1]) ^ (sum + key[sum&3])
		sum += delta
		v[1] += (((v[0] << 4) ^ (v[0] >> 5)) + v[0]) ^ (sum + key[(sum>>11)&3])
	}
}

// DecryptBlock decrypts one 64-bit little-endian block (v[0], v[1]) in
// place under key. The round constant is derived by running sum forward
// through all rounds first, then unwinding — equivalent to the
// two's-complement delta (0x61C88647) the source tables store, expressed
// here as -delta instead.
func DecryptBlock(v *[2]uint32, key [4]uint32) {
	sum := uint32((delta * rounds) & 0xFFFFFFFF)
	for i := 0; i < rounds; i++ {
		v[1] -= (((v[0] << 4) ^ (v[0] >> 5)) + v[0]) ^ (sum + key[(sum>>11)&3])
		sum -= delta
		v[0] -= (((v[1] << 4) ^ (v[1] >> 5)) + v[1]) ^ (sum + key[sum&3])
	}
}

// Decrypt decrypts buf (length must be a multiple of 8) in place under
// key, treating each 8-byte block as two little-endian uint32 words.
func Decrypt(buf []byte, key [4]uint32) error {
	if len(buf)%8 != 0 {
		return errLengthNotMultipleOf8
	}
	for off := 0; off < len(buf); off += 8 {
		v := [2]uint32{
			leUint32(buf[off:]),
			leUint32(buf[off+4:]),
		}
		DecryptBlock(&v, key)
		putLeUint32(buf[off:], v[0])
		putLeUint32(buf[off+4:], v[1])
	}
	return nil
}

// Encrypt encrypts buf (length must be a multiple of 8) in place under
// key.
func Encrypt(buf []byte, key [4]uint32) error {
	if len(buf)%8 != 0 {
		return errLengthNotMultipleOf8
	}
	for off := 0; off < len(buf); off += 8 {
		v := [2]uint32{
			leUint32(buf[off:]),
			leUint32(buf[off+4:]),
		}
		EncryptBlock(&v, key)
		putLeUint32(buf[off:], v[0])
		putLeUint32(buf[off+4:], v[1])
	}
	return nil
}

func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLeUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
