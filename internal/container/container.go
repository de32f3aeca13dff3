// Package container implements the optional outer framing cmd/gorillac wraps
// around a finished gorilla byte stream: a compression-type tag byte, a
// 4-byte little-endian length prefix, and the (optionally compressed)
// payload. The core codec's own wire format never uses this framing; it
// exists solely so a single file can hold one self-describing stream.
package container

import (
	"fmt"
	"io"

	"github.com/arloliu/gorilla/compress"
	"github.com/arloliu/gorilla/endian"
	"github.com/arloliu/gorilla/format"
	"github.com/arloliu/gorilla/internal/pool"
)

var le = endian.GetLittleEndianEngine()

// Write frames data (a finished gorilla byte stream) behind a 1-byte
// compression tag and a 4-byte length prefix, compressing it first with the
// given compression type if it is not format.CompressionNone.
func Write(w io.Writer, data []byte, ct format.CompressionType) error {
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return fmt.Errorf("container: %w", err)
	}

	payload, err := codec.Compress(data)
	if err != nil {
		return fmt.Errorf("container: compress: %w", err)
	}

	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	buf.MustWrite([]byte{byte(ct)})
	buf.B = le.AppendUint32(buf.B, uint32(len(payload)))
	buf.MustWrite(payload)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("container: write: %w", err)
	}

	return nil
}

// Read reverses Write: it reads the tag and length prefix, reads exactly
// that many payload bytes, and decompresses them according to the tag.
func Read(r io.Reader) ([]byte, error) {
	var header [5]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("container: read header: %w", err)
	}

	ct := format.CompressionType(header[0])
	length := le.Uint32(header[1:5])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("container: read payload: %w", err)
	}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, fmt.Errorf("container: %w", err)
	}

	data, err := codec.Decompress(payload)
	if err != nil {
		return nil, fmt.Errorf("container: decompress: %w", err)
	}

	return data, nil
}
