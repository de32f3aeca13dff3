package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(64)
	require.NotNil(t, bb)
	require.Equal(t, 0, len(bb.B))
	require.GreaterOrEqual(t, cap(bb.B), 64)
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte{0x01, 0x02, 0x03})

	require.Equal(t, []byte{0x01, 0x02, 0x03}, bb.Bytes())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte{0x01, 0x02, 0x03})

	bb.Reset()

	require.Equal(t, 0, len(bb.B))
	require.Equal(t, []byte{}, bb.Bytes())
}

func TestByteBuffer_MustWrite(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{0xAA})
	bb.MustWrite([]byte{0xBB, 0xCC})

	require.Equal(t, []byte{0xAA, 0xBB, 0xCC}, bb.Bytes())
}

func TestByteBuffer_MustWrite_EmptyData(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite(nil)

	require.Equal(t, 0, len(bb.Bytes()))
}

func TestByteBuffer_MustWrite_GrowsPastInitialCapacity(t *testing.T) {
	bb := NewByteBuffer(2)

	payload := make([]byte, 1024)
	for i := range payload {
		payload[i] = byte(i)
	}
	bb.MustWrite(payload)

	require.Equal(t, payload, bb.Bytes())
}

func TestNewByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(32, 256)
	require.NotNil(t, p)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 0, len(bb.B))
}

func TestByteBufferPool_CustomSizes(t *testing.T) {
	p := NewByteBufferPool(8, 64)

	bb := p.Get()
	require.GreaterOrEqual(t, cap(bb.B), 8)
}

func TestByteBufferPool_MaxThreshold_Discard(t *testing.T) {
	p := NewByteBufferPool(8, 32)

	bb := p.Get()
	bb.MustWrite(make([]byte, 128))

	p.Put(bb)

	reused := p.Get()
	require.Less(t, cap(reused.B), 128)
}

func TestByteBufferPool_MaxThreshold_Accept(t *testing.T) {
	p := NewByteBufferPool(8, 256)

	bb := p.Get()
	bb.MustWrite(make([]byte, 16))
	ptr := &bb.B[0]

	p.Put(bb)

	reused := p.Get()
	require.Equal(t, 0, len(reused.B))
	reused.MustWrite([]byte{0x01})
	require.Equal(t, ptr, &reused.B[0], "should reuse the same underlying array")
}

func TestByteBufferPool_MaxThreshold_Zero(t *testing.T) {
	p := NewByteBufferPool(8, 0)

	bb := p.Get()
	bb.MustWrite(make([]byte, 1<<20))

	// maxThreshold of 0 means no ceiling; Put must not discard.
	p.Put(bb)
}

func TestGetStreamBuffer(t *testing.T) {
	bb := GetStreamBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, len(bb.B))
	PutStreamBuffer(bb)
}

func TestPutStreamBuffer_NilBuffer(t *testing.T) {
	require.NotPanics(t, func() {
		PutStreamBuffer(nil)
	})
}

func TestGetPut_BufferReuse(t *testing.T) {
	bb := GetStreamBuffer()
	bb.MustWrite([]byte("container frame"))
	PutStreamBuffer(bb)

	reused := GetStreamBuffer()
	require.Equal(t, 0, len(reused.B))
	PutStreamBuffer(reused)
}

func TestPool_ResetsClearsData(t *testing.T) {
	bb := GetStreamBuffer()
	bb.MustWrite([]byte{0x01, 0x02, 0x03, 0x04})
	PutStreamBuffer(bb)

	reused := GetStreamBuffer()
	require.Equal(t, []byte{}, reused.Bytes())
	PutStreamBuffer(reused)
}

func TestPool_MultipleGetsAndPuts(t *testing.T) {
	for i := 0; i < 50; i++ {
		bb := GetStreamBuffer()
		bb.MustWrite([]byte{byte(i)})
		PutStreamBuffer(bb)
	}
}

func TestPool_ConcurrentAccess(t *testing.T) {
	const goroutines = 50
	done := make(chan bool, goroutines)

	for i := 0; i < goroutines; i++ {
		go func(n int) {
			bb := GetStreamBuffer()
			bb.MustWrite([]byte{byte(n), byte(n >> 8)})
			bb.Reset()
			PutStreamBuffer(bb)
			done <- true
		}(i)
	}

	for i := 0; i < goroutines; i++ {
		<-done
	}
}

func BenchmarkByteBuffer_MustWrite(b *testing.B) {
	payload := []byte("1,700,000,010,20.55\n")
	for b.Loop() {
		bb := NewByteBuffer(StreamBufferDefaultSize)
		bb.MustWrite(payload)
	}
}

func BenchmarkPool_GetWritePut(b *testing.B) {
	payload := make([]byte, 4096)
	for b.Loop() {
		bb := GetStreamBuffer()
		bb.MustWrite(payload)
		PutStreamBuffer(bb)
	}
}

func BenchmarkPool_ConcurrentGetPut(b *testing.B) {
	payload := make([]byte, 256)
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			bb := GetStreamBuffer()
			bb.MustWrite(payload)
			PutStreamBuffer(bb)
		}
	})
}
