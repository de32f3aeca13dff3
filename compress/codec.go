package compress

import (
	"fmt"

	"github.com/arloliu/gorilla/format"
)

// Compressor provides optional outer-container compression for an already
// bit-packed gorilla stream. The input is a finished pairscodec byte stream,
// already entropy-dense, so a Compressor's job is squeezing residual
// redundancy out of delta-encoded bytes rather than arbitrary data.
type Compressor interface {
	// Compress compresses data, typically a complete stream produced by
	// pairscodec.Encoder.Finish. The returned slice may share memory with
	// data (NoOpCompressor returns data itself); data is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor. It mirrors Compressor's interface
// rather than folding into it so a future asymmetric implementation (cheap
// decompress, expensive compress, or vice versa) isn't forced into one type.
type Decompressor interface {
	// Decompress reverses Compress. It returns an error if data is corrupted
	// or was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of a single compression algorithm.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
}

// GetCodec retrieves the built-in Codec for compressionType.
// internal/container uses this to resolve cmd/gorillac's --compress choice
// (or a container's stored compression tag) to a concrete implementation.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
