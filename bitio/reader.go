package bitio

import (
	"bufio"
	"errors"
	"io"

	"github.com/arloliu/gorilla/tserrors"
)

// Reader supplies MSB-first bit-granular reads from an underlying byte
// source.
//
// Reader does not speculate past whatever prefix a caller has already
// decided entitles it to N further bits; it is purely a bit-granular view
// over the byte source, and callers (tscodec, valuecodec) are responsible
// for knowing how many bits a given code point requires.
type Reader struct {
	r      io.ByteReader
	buffer byte
	count  int // number of bits still readable from the top of buffer
}

// NewReader creates a Reader over r. If r does not already implement
// io.ByteReader, it is wrapped in a bufio.Reader so single-byte fetches
// during bit extraction don't each incur a separate Read call on r.
func NewReader(r io.Reader) *Reader {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}

	return &Reader{r: br}
}

// ReadBit reads a single bit from the stream, fetching a fresh byte from the
// source when the accumulator is empty.
func (br *Reader) ReadBit() (byte, error) {
	if br.count == 0 {
		b, err := br.fetch()
		if err != nil {
			return 0, err
		}
		br.buffer = b
		br.count = 8
	}

	bit := (br.buffer & 0x80) >> 7
	br.buffer <<= 1
	br.count--

	return bit, nil
}

// ReadByte reads a full byte from the stream regardless of the current bit
// alignment, satisfying io.ByteReader.
func (br *Reader) ReadByte() (byte, error) {
	if br.count == 0 {
		b, err := br.fetch()
		if err != nil {
			return 0, err
		}

		return b, nil
	}

	result := br.buffer
	next, err := br.fetch()
	if err != nil {
		return 0, err
	}
	result |= next >> uint(br.count)
	br.buffer = next << uint(8-br.count)

	return result, nil
}

// ReadBits assembles a right-aligned uint64 out of the next n bits, most
// significant bit first. n must be in [0, 64]; ReadBits(0) returns 0 without
// touching the stream.
func (br *Reader) ReadBits(n int) (uint64, error) {
	if n < 0 || n > 64 {
		panic("bitio: ReadBits: n must be in [0, 64]")
	}
	if n == 0 {
		return 0, nil
	}

	var result uint64
	for n >= 8 {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		result = (result << 8) | uint64(b)
		n -= 8
	}

	for n > 0 {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		result = (result << 1) | uint64(bit)
		n--
	}

	return result, nil
}

// fetch reads the next byte from the underlying source, translating a clean
// EOF into tserrors.ErrUnexpectedEOF since a bit-level caller mid-record
// always expects more data to exist.
func (br *Reader) fetch() (byte, error) {
	b, err := br.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, tserrors.ErrUnexpectedEOF
		}

		return 0, err
	}

	return b, nil
}
