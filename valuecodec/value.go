// Package valuecodec compresses and decompresses a series of 64-bit values
// using XOR-of-consecutive-values with leading/trailing zero-run reuse.
//
// Like tscodec, Compressor and Decompressor take the *bitio.Writer/Reader to
// use as a parameter on every call rather than owning it, so pairscodec can
// interleave timestamp and value writes/reads over one shared bit stream.
//
// Compressor and Decompressor are independently usable end to end (their own
// Finish/end-of-stream sentinel), which matters for callers that want a bare
// value stream without paired timestamps. The one documented wrinkle: a
// standalone value stream cannot carry a literal first value of
// 0xFFFFFFFFFFFFFFFF, since that bit pattern is reserved as the empty-stream
// marker. pairscodec works around this for the first value in a pair stream
// by seeding Decompressor directly (see Decompressor.SeedFirst) instead of
// going through the sentinel-checking decode path, since end-of-stream there
// is already unambiguously signalled by the timestamp side.
package valuecodec

import (
	"fmt"
	"math/bits"

	"github.com/arloliu/gorilla/bitio"
	"github.com/arloliu/gorilla/tserrors"
)

const (
	leadingBits = 6
	sigBits     = 6

	// leadingSentinel and sigSentinel form the new-window end-of-stream
	// marker. A legitimate new-window block can never carry both fields at
	// once (leading + significant <= 64, but 0x3F + 0x3F > 64), so this
	// exact combination is unreachable from real data.
	leadingSentinel = 0x3F
	sigSentinel     = 0x3F
)

// sentinelFirst (all 64 bits set) marks an empty stream in the first-value
// slot.
const sentinelFirst = ^uint64(0)

type state uint8

const (
	stateFresh state = iota
	stateRunning
	stateFinished
)

// Compressor holds the private state of an open value compression stream:
// the last value written and the leading/trailing zero-run width of the
// last "new window" block.
type Compressor struct {
	state        state
	lastValue    uint64
	lastLeading  int
	lastTrailing int
}

// NewCompressor creates a Compressor in its FRESH state. lastLeading starts
// above any real leading-zero count (which tops out at 63, since a zero XOR
// never reaches the leading/trailing zero computation) so the first
// non-zero XOR is always forced down the "new window" path.
func NewCompressor() *Compressor {
	return &Compressor{lastLeading: 64}
}

// Compress writes the next value v to w. The first call writes v verbatim;
// every subsequent call XORs against the previous value and emits a
// zero/reuse/new-window code. Compress after Finish returns ErrIllegalState.
func (c *Compressor) Compress(w *bitio.Writer, v uint64) error {
	switch c.state {
	case stateFinished:
		return fmt.Errorf("%w: Compress called on a finished value compressor", tserrors.ErrIllegalState)
	case stateFresh:
		return c.compressFirst(w, v)
	default:
		return c.compressNext(w, v)
	}
}

func (c *Compressor) compressFirst(w *bitio.Writer, v uint64) error {
	if err := w.WriteBits(v, 64); err != nil {
		return err
	}

	c.lastValue = v
	c.state = stateRunning

	return nil
}

func (c *Compressor) compressNext(w *bitio.Writer, v uint64) error {
	xor := c.lastValue ^ v
	c.lastValue = v

	if xor == 0 {
		return w.WriteBit(0)
	}

	if err := w.WriteBit(1); err != nil {
		return err
	}

	lz := bits.LeadingZeros64(xor)
	tz := bits.TrailingZeros64(xor)

	if c.lastLeading <= lz && c.lastTrailing <= tz {
		if err := w.WriteBit(0); err != nil {
			return err
		}

		sig := 64 - c.lastLeading - c.lastTrailing

		return w.WriteBits(xor>>uint(c.lastTrailing), sig)
	}

	if err := w.WriteBit(1); err != nil {
		return err
	}

	c.lastLeading = lz
	c.lastTrailing = tz
	sig := 64 - lz - tz

	if err := w.WriteBits(uint64(lz), leadingBits); err != nil {
		return err
	}
	// sig == 64 wraps to 0 here since WriteBits masks to the low 6 bits;
	// that wraparound is exactly the wire encoding decompressNext expects.
	if err := w.WriteBits(uint64(sig), sigBits); err != nil {
		return err
	}

	return w.WriteBits(xor>>uint(tz), sig)
}

// Finish emits the end-of-stream marker appropriate to the compressor's
// state: the first-value-slot sentinel (all 64 bits set) if no value was
// ever compressed, or the new-window terminator (prefix "11" + all-ones
// leading field + all-ones significant field) otherwise. It does not align
// the stream to a byte boundary; callers own that.
func (c *Compressor) Finish(w *bitio.Writer) error {
	switch c.state {
	case stateFinished:
		return fmt.Errorf("%w: Finish called twice on value compressor", tserrors.ErrIllegalState)
	case stateFresh:
		if err := w.WriteBits(sentinelFirst, 64); err != nil {
			return err
		}
	default:
		if err := w.WriteBit(1); err != nil {
			return err
		}
		if err := w.WriteBit(1); err != nil {
			return err
		}
		if err := w.WriteBits(leadingSentinel, leadingBits); err != nil {
			return err
		}
		if err := w.WriteBits(sigSentinel, sigBits); err != nil {
			return err
		}
	}

	c.state = stateFinished

	return nil
}

// Decompressor mirrors Compressor's state machine for decoding.
type Decompressor struct {
	state        state
	lastValue    uint64
	lastLeading  int
	lastTrailing int
}

// NewDecompressor creates a Decompressor in its FRESH state.
func NewDecompressor() *Decompressor {
	return &Decompressor{}
}

// SeedFirst manually advances the decompressor past the first-value slot
// without reading from a stream or checking for the empty-stream sentinel.
// pairscodec.Decoder uses this for the first value of a pair stream, where
// end-of-stream is already unambiguously established by the timestamp side,
// so a real first value equal to the value-codec sentinel must decode as
// data rather than as a false end-of-stream.
func (d *Decompressor) SeedFirst(v uint64) {
	d.lastValue = v
	d.state = stateRunning
}

// Next reads the next value from r. ok is false at end-of-stream, in which
// case v is meaningless. Further calls after end-of-stream return
// (0, false, nil).
func (d *Decompressor) Next(r *bitio.Reader) (v uint64, ok bool, err error) {
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
	v, err := r.ReadBits(64)
	if err != nil {
		return 0, false, err
	}

	if v == sentinelFirst {
		d.state = stateFinished

		return 0, false, nil
	}

	d.lastValue = v
	d.state = stateRunning

	return v, true, nil
}

func (d *Decompressor) decompressNext(r *bitio.Reader) (uint64, bool, error) {
	b0, err := r.ReadBit()
	if err != nil {
		return 0, false, err
	}

	if b0 == 0 {
		return d.lastValue, true, nil
	}

	b1, err := r.ReadBit()
	if err != nil {
		return 0, false, err
	}

	if b1 == 0 {
		sig := 64 - d.lastLeading - d.lastTrailing

		xorBits, err := r.ReadBits(sig)
		if err != nil {
			return 0, false, err
		}

		d.lastValue ^= xorBits << uint(d.lastTrailing)

		return d.lastValue, true, nil
	}

	lz, err := r.ReadBits(leadingBits)
	if err != nil {
		return 0, false, err
	}

	sigField, err := r.ReadBits(sigBits)
	if err != nil {
		return 0, false, err
	}

	if lz == leadingSentinel && sigField == sigSentinel {
		d.state = stateFinished

		return 0, false, nil
	}

	sig := int(sigField)
	if sig == 0 {
		sig = 64
	}

	d.lastLeading = int(lz)
	d.lastTrailing = 64 - sig - d.lastLeading

	xorBits, err := r.ReadBits(sig)
	if err != nil {
		return 0, false, err
	}

	d.lastValue ^= xorBits << uint(d.lastTrailing)

	return d.lastValue, true, nil
}
