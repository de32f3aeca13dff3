package pool

import "sync"

// StreamBufferDefaultSize is the default size of the ByteBuffer obtained from the pool.
const (
	StreamBufferDefaultSize  = 1024 * 16  // 16KiB
	StreamBufferMaxThreshold = 1024 * 128 // 128KiB
)

// ByteBuffer is a growable byte buffer meant to be reused through a
// ByteBufferPool rather than allocated fresh per call. It exposes only the
// append-then-read pattern internal/container actually needs: MustWrite
// to accumulate a framed stream, Bytes to hand the result to
// an io.Writer, Reset to hand it back to the pool clean.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer while retaining its allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// MustWrite appends data to the buffer, growing it via append's own
// amortized-doubling strategy if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// ByteBufferPool is a sync.Pool of ByteBuffers, discarding buffers that have
// grown past maxThreshold instead of returning them to the pool, so one
// unusually large stream doesn't permanently bloat every future Get.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var streamDefaultPool = NewByteBufferPool(StreamBufferDefaultSize, StreamBufferMaxThreshold)

// GetStreamBuffer retrieves a ByteBuffer from the default stream pool, used
// by internal/container to assemble a length-prefixed, optionally
// compressed stream before writing it out in one call.
func GetStreamBuffer() *ByteBuffer {
	return streamDefaultPool.Get()
}

// PutStreamBuffer returns a ByteBuffer to the default stream pool.
func PutStreamBuffer(bb *ByteBuffer) {
	streamDefaultPool.Put(bb)
}
