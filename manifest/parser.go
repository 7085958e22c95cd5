// Package manifest parses the partition-definition manifest
// ("packagedefinition.txt") that names every partition a game installs
// and the resource roots attached to each.
package manifest

import (
	"github.com/glacierarchive/rpkg/partition"
)

// Dialect selects which of the three manifest grammars to parse (§4.E).
type Dialect int

const (
	// VersionA is the oldest dialect: "#chunk"/"#dlc"/"#langdlc" lines.
	VersionA Dialect = iota
	// VersionB uses "@chunk"/"@dlc" sigils and "//" comments.
	VersionB
	// VersionC is the newest: "@partition name=... parent=..." lines.
	VersionC
)

// Parse decodes data as a manifest of the given dialect. If data begins
// with the XTEA envelope's magic header, it is decrypted first.
func Parse(data []byte, dialect Dialect) ([]partition.Info, error) {
	if isEncrypted(data) {
		plain, err := decryptEnvelope(data)
		if err != nil {
			return nil, err
		}
		data = plain
	}

	text := string(data)
	switch dialect {
	case VersionA:
		return ParseVersionA(text)
	case VersionB:
		return ParseVersionB(text)
	case VersionC:
		return ParseVersionC(text)
	default:
		return nil, &envelopeError{"manifest: unknown dialect"}
	}
}
