// Package format defines the small set of wire-level enums shared between
// the core codec and its optional outer container framing (see the compress
// package and cmd/gorillac). The compressed stream itself never carries an
// encoding selector: it is always the delta-of-delta/XOR scheme, so only a
// CompressionType is needed here.
package format

// CompressionType identifies the outer-container compression algorithm, if
// any, wrapped around an already bit-packed stream.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a CLI-facing flag value to a CompressionType.
func ParseCompressionType(s string) (CompressionType, bool) {
	switch s {
	case "none", "":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	default:
		return 0, false
	}
}
