package compress

// NoOpCompressor implements Codec without compressing: Compress and
// Decompress both return the input slice unchanged. It backs
// format.CompressionNone, the default for cmd/gorillac's --compress flag,
// and is what container.Write/Read use when a caller wants the
// length-prefix framing without a second compression pass.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a NoOpCompressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
