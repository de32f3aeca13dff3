// Package pairscodec composes tscodec and valuecodec over one shared bit
// stream to encode and decode (timestamp, value) pairs.
//
// Encoder and Decoder own the bitio.Writer/Reader exclusively; tscodec and
// valuecodec never see the stream except as an argument passed in for the
// duration of a single call. End-of-stream is signalled solely by the
// timestamp side: Finish on a stream that already has at least one pair
// writes only the timestamp terminator, and Decoder.Next stops as soon as
// the timestamp side reports end-of-stream without even looking at the
// value side.
package pairscodec

import (
	"fmt"
	"io"

	"github.com/arloliu/gorilla/bitio"
	"github.com/arloliu/gorilla/tscodec"
	"github.com/arloliu/gorilla/tserrors"
	"github.com/arloliu/gorilla/valuecodec"
)

// Encoder writes a stream of (timestamp, value) pairs.
type Encoder struct {
	w        *bitio.Writer
	started  bool
	finished bool
	ts       tscodec.Compressor
	val      valuecodec.Compressor
}

// NewEncoder creates an Encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: bitio.NewWriter(w), val: *valuecodec.NewCompressor()}
}

// Compress appends the pair (t, v) to the stream. t must be monotonically
// non-decreasing across calls; the codec does not enforce this itself, it
// simply produces a larger encoding for stride reversals (see tscodec's
// delta-of-delta bucket widths).
func (e *Encoder) Compress(t, v uint64) error {
	if e.finished {
		return fmt.Errorf("%w: Compress called after Finish", tserrors.ErrIllegalState)
	}

	if err := e.ts.Compress(e.w, t); err != nil {
		return err
	}
	if err := e.val.Compress(e.w, v); err != nil {
		return err
	}

	e.started = true

	return nil
}

// Finish terminates the stream and aligns it to a byte boundary. It must be
// called exactly once, after the last Compress call (or with none at all,
// producing a valid empty stream).
func (e *Encoder) Finish() error {
	if e.finished {
		return fmt.Errorf("%w: Finish called twice", tserrors.ErrIllegalState)
	}

	if err := e.ts.Finish(e.w); err != nil {
		return err
	}

	// An empty stream needs its own first-value-slot sentinel too: the
	// timestamp side alone only covers the header + first-delta preamble,
	// and nothing about an un-started value compressor is otherwise
	// written to the wire. A stream that already carries a pair relies on
	// the timestamp terminator alone, per the package doc.
	if !e.started {
		if err := e.val.Finish(e.w); err != nil {
			return err
		}
	}

	if err := e.w.FlushAlign(0); err != nil {
		return err
	}

	e.finished = true

	return nil
}

// Decoder reads a stream of (timestamp, value) pairs written by Encoder.
type Decoder struct {
	r       *bitio.Reader
	started bool
	done    bool
	ts      tscodec.Decompressor
	val     valuecodec.Decompressor
}

// NewDecoder creates a Decoder that reads from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bitio.NewReader(r)}
}

// Header returns the stream's derived 2-hour-aligned header and whether it
// has been observed yet (i.e. whether Next has been called at least once).
func (d *Decoder) Header() (uint64, bool) {
	return d.ts.Header()
}

// Next returns the next (timestamp, value) pair. ok is false at
// end-of-stream, in which case t and v are meaningless. Further calls after
// end-of-stream return (0, 0, false, nil).
func (d *Decoder) Next() (t, v uint64, ok bool, err error) {
	if d.done {
		return 0, 0, false, nil
	}

	t, tok, err := d.ts.Next(d.r)
	if err != nil {
		return 0, 0, false, err
	}
	if !tok {
		d.done = true

		return 0, 0, false, nil
	}

	// The first value is seeded directly rather than decoded through
	// valuecodec's own sentinel check: the timestamp side has already
	// established that real data follows, so a literal first value equal
	// to the value-codec's empty-stream marker must still decode as data.
	if !d.started {
		v, err = d.r.ReadBits(64)
		if err != nil {
			return 0, 0, false, err
		}
		d.val.SeedFirst(v)
		d.started = true

		return t, v, true, nil
	}

	v, vok, err := d.val.Next(d.r)
	if err != nil {
		return 0, 0, false, err
	}
	if !vok {
		d.done = true

		return 0, 0, false, nil
	}

	return t, v, true, nil
}
