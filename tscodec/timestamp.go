// Package tscodec compresses and decompresses monotonically-progressing
// 64-bit timestamps using delta-of-delta encoding with a variable-width
// prefix code.
//
// Compressor and Decompressor are deliberately stateless with respect to the
// underlying bit stream: every method takes the *bitio.Writer or
// *bitio.Reader it should use for that single call. The stream itself is
// owned exclusively by the caller (normally pairscodec.Encoder/Decoder),
// which lets timestamp and value codec state live side by side without a
// shared mutable writer reference.
package tscodec

import (
	"fmt"

	"github.com/arloliu/gorilla/bitio"
	"github.com/arloliu/gorilla/tserrors"
)

const (
	// HeaderWindow is the 2-hour (in seconds) alignment window used to
	// derive a stream's header from its first timestamp.
	HeaderWindow = 7200

	// FirstDeltaBits is the width of the first-pair preamble's delta field.
	FirstDeltaBits = 14

	// firstDeltaSentinel (0x3FFF, all ones in 14 bits) marks an empty
	// stream in the first-pair slot.
	firstDeltaSentinel = (uint64(1) << FirstDeltaBits) - 1

	dodBits1 = 7
	dodLow1  = -63
	dodHigh1 = 64

	dodBits2 = 9
	dodLow2  = -255
	dodHigh2 = 256

	dodBits3 = 12
	dodLow3  = -2047
	dodHigh3 = 2048

	dodBits4 = 64

	// 4-bit prefix codes, expressed as the byte value readDODPrefix
	// produces by shifting in one bit at a time.
	prefixCode0 = 0x00 // "0"
	prefixCode1 = 0x02 // "10"
	prefixCode2 = 0x06 // "110"
	prefixCode3 = 0x0E // "1110"
	prefixCode4 = 0x0F // "1111"
)

// Header derives the 2-hour-aligned block header for t: t floored to the
// nearest HeaderWindow-second boundary. It is exported so that callers can
// recompute or validate it independently of a live Compressor; the header a
// Decompressor (or pairscodec.Decoder) reports is the one read from the
// stream.
func Header(t uint64) uint64 {
	return t - t%HeaderWindow
}

type state uint8

const (
	stateFresh state = iota
	stateRunning
	stateFinished
)

// Compressor holds the private state of an open timestamp compression
// stream: whether a first pair has been emitted, the last absolute
// timestamp, and the last delta (for delta-of-delta).
type Compressor struct {
	state     state
	header    uint64
	lastT     uint64
	lastDelta int64
}

// NewCompressor creates a Compressor in its FRESH state.
func NewCompressor() *Compressor {
	return &Compressor{}
}

// Compress writes the next timestamp t to w. The first call emits the
// header and first-pair preamble; every subsequent call emits a
// delta-of-delta code. Compress after Finish returns ErrIllegalState.
func (c *Compressor) Compress(w *bitio.Writer, t uint64) error {
	switch c.state {
	case stateFinished:
		return fmt.Errorf("%w: Compress called on a finished timestamp compressor", tserrors.ErrIllegalState)
	case stateFresh:
		return c.compressFirst(w, t)
	default:
		return c.compressNext(w, t)
	}
}

func (c *Compressor) compressFirst(w *bitio.Writer, t uint64) error {
	header := Header(t)
	if header > t {
		// Unreachable for any t that doesn't overflow uint64 arithmetic in
		// Header itself, but guard against it rather than silently
		// emitting a corrupt first delta.
		return fmt.Errorf("%w: derived header %d exceeds first timestamp %d", tserrors.ErrIllegalState, header, t)
	}

	if err := w.WriteBits(header, 64); err != nil {
		return err
	}

	firstDelta := t - header
	if err := w.WriteBits(firstDelta, FirstDeltaBits); err != nil {
		return err
	}

	c.header = header
	c.lastT = t
	c.lastDelta = int64(firstDelta) //nolint:gosec // firstDelta < HeaderWindow, fits comfortably in int64
	c.state = stateRunning

	return nil
}

func (c *Compressor) compressNext(w *bitio.Writer, t uint64) error {
	delta := int64(t) - int64(c.lastT) //nolint:gosec // timestamps are caller-supplied; overflow is a caller error
	dod := delta - c.lastDelta

	c.lastT = t
	c.lastDelta = delta

	return writeDOD(w, dod)
}

func writeDOD(w *bitio.Writer, dod int64) error {
	switch {
	case dod == 0:
		return w.WriteBit(0)
	case dod >= dodLow1 && dod <= dodHigh1:
		if err := w.WriteBits(prefixCode1, 2); err != nil {
			return err
		}

		return w.WriteBits(signedBits(dod, dodBits1), dodBits1)
	case dod >= dodLow2 && dod <= dodHigh2:
		if err := w.WriteBits(prefixCode2, 3); err != nil {
			return err
		}

		return w.WriteBits(signedBits(dod, dodBits2), dodBits2)
	case dod >= dodLow3 && dod <= dodHigh3:
		if err := w.WriteBits(prefixCode3, 4); err != nil {
			return err
		}

		return w.WriteBits(signedBits(dod, dodBits3), dodBits3)
	default:
		if err := w.WriteBits(prefixCode4, 4); err != nil {
			return err
		}

		return w.WriteBits(signedBits(dod, dodBits4), dodBits4)
	}
}

// signedBits returns the nbits-wide two's-complement representation of v.
// Masking the raw uint64 reinterpretation of v to the low nbits bits is
// equivalent to the arithmetic "if negative, add 2^nbits" rule. writeDOD's
// buckets keep v in -2^(nbits-1) < v <= 2^(nbits-1), the range signExtend
// maps back; the top value 2^(nbits-1) shares its bit pattern with
// -2^(nbits-1), which is never written.
func signedBits(v int64, nbits int) uint64 {
	if nbits >= 64 {
		return uint64(v) //nolint:gosec
	}

	return uint64(v) & ((uint64(1) << uint(nbits)) - 1) //nolint:gosec
}

// Finish emits the end-of-stream marker appropriate to the compressor's
// state: the first-pair-slot sentinel (header + all-ones 14-bit field) if
// no pair was ever compressed, or the delta-of-delta terminator (prefix
// "1111" + 64 set bits + a zero bit) otherwise. It does not align the
// stream to a byte boundary; callers own that (see bitio.Writer.FlushAlign).
func (c *Compressor) Finish(w *bitio.Writer) error {
	switch c.state {
	case stateFinished:
		return fmt.Errorf("%w: Finish called twice on timestamp compressor", tserrors.ErrIllegalState)
	case stateFresh:
		if err := w.WriteBits(c.header, 64); err != nil {
			return err
		}
		if err := w.WriteBits(firstDeltaSentinel, FirstDeltaBits); err != nil {
			return err
		}
	default:
		if err := w.WriteBits(prefixCode4, 4); err != nil {
			return err
		}
		if err := w.WriteBits(^uint64(0), 64); err != nil {
			return err
		}
		if err := w.WriteBit(0); err != nil {
			return err
		}
	}

	c.state = stateFinished

	return nil
}

// Decompressor mirrors Compressor's state machine for decoding.
type Decompressor struct {
	state       state
	header      uint64
	headerKnown bool
	lastT       uint64
	lastDelta   int64
}

// NewDecompressor creates a Decompressor in its FRESH state.
func NewDecompressor() *Decompressor {
	return &Decompressor{}
}

// Header returns the stream's derived header and whether it has been read
// yet (i.e. whether Next has been called at least once).
func (d *Decompressor) Header() (uint64, bool) {
	return d.header, d.headerKnown
}

// Next reads the next timestamp from r. ok is false at end-of-stream, in
// which case t is meaningless. Further calls after end-of-stream return
// (0, false, nil).
func (d *Decompressor) Next(r *bitio.Reader) (t uint64, ok bool, err error) {
	switch d.state {
	case stateFinished:
		return 0, false, nil
	case stateFresh:
		return d.decompressFirst(r)
	default:
		return d.decompressNext(r)
	}
}

func (d *Decompressor) decompressFirst(r *bitio.Reader) (uint64, bool, error) {
	header, err := r.ReadBits(64)
	if err != nil {
		return 0, false, err
	}
	d.header = header
	d.headerKnown = true

	firstDelta, err := r.ReadBits(FirstDeltaBits)
	if err != nil {
		return 0, false, err
	}

	if firstDelta == firstDeltaSentinel {
		d.state = stateFinished

		return 0, false, nil
	}

	t := header + firstDelta
	d.lastT = t
	d.lastDelta = int64(firstDelta) //nolint:gosec // firstDelta < HeaderWindow
	d.state = stateRunning

	return t, true, nil
}

func (d *Decompressor) decompressNext(r *bitio.Reader) (uint64, bool, error) {
	n, err := readDODPrefix(r)
	if err != nil {
		return 0, false, err
	}

	if n == 0 {
		d.lastT = uint64(int64(d.lastT) + d.lastDelta) //nolint:gosec
		return d.lastT, true, nil
	}

	bitsVal, err := r.ReadBits(n)
	if err != nil {
		return 0, false, err
	}

	if n == 64 && bitsVal == ^uint64(0) {
		d.state = stateFinished

		return 0, false, nil
	}

	dod := signExtend(bitsVal, n)
	d.lastDelta += dod
	d.lastT = uint64(int64(d.lastT) + d.lastDelta) //nolint:gosec

	return d.lastT, true, nil
}

// readDODPrefix reads the 1-to-4-bit delta-of-delta prefix and returns the
// payload width it selects (0, 7, 9, 12 or 64). It mirrors the bit-by-bit
// scan of the reference implementation: shift in a 1 and keep going, or stop
// on the first 0.
func readDODPrefix(r *bitio.Reader) (int, error) {
	var code byte
	for i := 0; i < 4; i++ {
		code <<= 1

		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}

		if bit == 0 {
			break
		}
		code |= 1
	}

	switch code {
	case prefixCode0:
		return 0, nil
	case prefixCode1:
		return dodBits1, nil
	case prefixCode2:
		return dodBits2, nil
	case prefixCode3:
		return dodBits3, nil
	case prefixCode4:
		return dodBits4, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized prefix code 0x%02x", tserrors.ErrMalformedPrefix, code)
	}
}

// signExtend converts an n-bit field written by signedBits back to a signed
// 64-bit integer. Field values above 2^(n-1) are negative; 2^(n-1) itself
// decodes as +2^(n-1), the inclusive top of each bucket (dodHigh1, dodHigh2,
// dodHigh3).
func signExtend(bitsVal uint64, n int) int64 {
	if n >= 64 {
		return int64(bitsVal) //nolint:gosec
	}

	if bitsVal > uint64(1)<<uint(n-1) {
		return int64(bitsVal) - (int64(1) << uint(n)) //nolint:gosec
	}

	return int64(bitsVal) //nolint:gosec
}
